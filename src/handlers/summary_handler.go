package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/extract"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/summary"
)

const msgInvalidBody = "Request body must be JSON with a clinical_text field."

type SummaryHandler struct {
	service        *summary.Service
	cacheBackend   string
	maxUploadBytes int64
}

func NewSummaryHandler(service *summary.Service, cacheBackend string, maxUploadBytes int64) *SummaryHandler {
	return &SummaryHandler{
		service:        service,
		cacheBackend:   cacheBackend,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *SummaryHandler) HandleSummarize(c *gin.Context) {
	var req models.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &models.SummarizeResponse{
			Error:     msgInvalidBody,
			ErrorCode: models.ErrorCodeValidation,
		})
		return
	}

	resp := h.service.HandleSummarizeRequest(c.Request.Context(), req)
	c.JSON(statusFor(resp), resp)
}

// HandleUpload summarizes the text of an uploaded .txt or .docx file.
func (h *SummaryHandler) HandleUpload(c *gin.Context) {
	text, err := uploadedText(c, h.maxUploadBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.SummarizeResponse{
			Error:     uploadErrorMessage(err),
			ErrorCode: models.ErrorCodeValidation,
		})
		return
	}

	resp := h.service.HandleSummarizeRequest(c.Request.Context(), models.SummarizeRequest{
		ClinicalText: text,
		SummaryStyle: c.PostForm("summary_style"),
	})
	c.JSON(statusFor(resp), resp)
}

func (h *SummaryHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"cache_backend": h.cacheBackend,
		"timestamp":     time.Now(),
	})
}

var (
	errNoFile   = errors.New("no file uploaded")
	errTooLarge = errors.New("upload too large")
)

// uploadedText reads the multipart "file" field and extracts its text.
// maxBytes of zero leaves the body unlimited.
func uploadedText(c *gin.Context, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		if c.Request.ContentLength > maxBytes {
			return "", errTooLarge
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", errTooLarge
		}
		return "", errNoFile
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return extract.ExtractText(fh.Filename, f)
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, errNoFile):
		return "A .txt or .docx file is required."
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "Only .txt and .docx files are supported."
	case errors.Is(err, errTooLarge):
		return "The uploaded file is too large."
	default:
		return "The uploaded file could not be read."
	}
}

func statusFor(resp *models.SummarizeResponse) int {
	switch resp.ErrorCode {
	case models.ErrorCodeValidation:
		return http.StatusBadRequest
	case models.ErrorCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
