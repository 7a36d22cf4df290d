package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	bearerPrefix = "Bearer "

	MsgInvalidAuthHeader = "Missing or invalid Authorization header."
	MsgInvalidToken      = "Invalid token."
)

// IsAuthorized checks a raw Authorization header against the expected API
// key. On failure it returns the message to show the caller.
func IsAuthorized(authHeader, expectedKey string) (bool, string) {
	if strings.TrimSpace(authHeader) == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
		return false, MsgInvalidAuthHeader
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if expectedKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedKey)) != 1 {
		return false, MsgInvalidToken
	}

	return true, ""
}

type AuthMiddleware struct {
	apiKey string
}

func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{apiKey: apiKey}
}

// RequireAPIKey rejects requests without a matching bearer token.
func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, msg := IsAuthorized(c.GetHeader("Authorization"), m.apiKey); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Next()
	}
}
