package cache

import (
	"crypto/sha256"
	"encoding/base64"
)

// DeriveKey returns the cache key for a clinical text and style name: the
// base64 SHA-256 of text immediately followed by style.
//
// There is no delimiter between the two, so ("ab", "c") and ("a", "bc")
// share a key.
func DeriveKey(clinicalText, style string) string {
	sum := sha256.Sum256([]byte(clinicalText + style))
	return base64.StdEncoding.EncodeToString(sum[:])
}
