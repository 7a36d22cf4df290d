package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/summary"
)

//go:embed templates/*.html
var templateFS embed.FS

const indexTemplate = "index.html"

// LoadTemplates parses the embedded page templates for gin's HTML renderer.
func LoadTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type pageView struct {
	ClinicalText string
	SummaryStyle string
	Styles       []string
	Summary      string
	Structured   *models.StructuredSummary
	CacheHit     bool
	Error        string
}

// PageHandler serves the browser form. It is not behind the API-key gate.
type PageHandler struct {
	service        *summary.Service
	maxUploadBytes int64
}

func NewPageHandler(service *summary.Service, maxUploadBytes int64) *PageHandler {
	return &PageHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *PageHandler) Show(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, newPageView(models.SummarizeRequest{
		SummaryStyle: models.DefaultStyle.String(),
	}))
}

// Submit summarizes the posted form. An attached file, when present, is used
// in place of an empty text box.
func (h *PageHandler) Submit(c *gin.Context) {
	if h.maxUploadBytes > 0 && c.Request.ContentLength > h.maxUploadBytes {
		view := newPageView(models.SummarizeRequest{})
		view.Error = uploadErrorMessage(errTooLarge)
		c.HTML(http.StatusBadRequest, indexTemplate, view)
		return
	}

	var req models.SummarizeRequest
	if err := c.ShouldBind(&req); err != nil {
		view := newPageView(req)
		view.Error = "The form could not be read."
		c.HTML(http.StatusBadRequest, indexTemplate, view)
		return
	}

	if _, err := c.FormFile("file"); err == nil {
		text, err := uploadedText(c, h.maxUploadBytes)
		if err != nil {
			view := newPageView(req)
			view.Error = uploadErrorMessage(err)
			c.HTML(http.StatusBadRequest, indexTemplate, view)
			return
		}
		if req.ClinicalText == "" {
			req.ClinicalText = text
		}
	}

	resp := h.service.HandleSummarizeRequest(c.Request.Context(), req)

	view := newPageView(req)
	view.SummaryStyle = resp.Style
	view.Summary = resp.Summary
	view.Structured = resp.Structured
	view.CacheHit = resp.CacheHit
	view.Error = resp.Error

	c.HTML(statusFor(resp), indexTemplate, view)
}

func newPageView(req models.SummarizeRequest) pageView {
	styles := make([]string, 0, len(models.Styles()))
	for _, s := range models.Styles() {
		styles = append(styles, s.String())
	}

	style, _ := models.ParseStyle(req.SummaryStyle)
	return pageView{
		ClinicalText: req.ClinicalText,
		SummaryStyle: style.String(),
		Styles:       styles,
	}
}
