package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

// LangChainClient runs completions through a langchaingo model, for
// OpenAI-compatible gateways that are already fronted by langchaingo.
type LangChainClient struct {
	config *config.LLMConfig
	llm    llms.Model
}

func NewLangChainClient(cfg *config.LLMConfig) (*LangChainClient, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain OpenAI client: %w", err)
	}

	return &LangChainClient{
		config: cfg,
		llm:    llm,
	}, nil
}

func (c *LangChainClient) Summarize(ctx context.Context, clinicalText string, style models.SummaryStyle) (*models.CompletionResult, error) {
	p := buildPrompt(c.config, clinicalText, style)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, p.system),
		llms.TextParts(llms.ChatMessageTypeHuman, p.user),
	}

	resp, err := c.llm.GenerateContent(
		ctx,
		messages,
		llms.WithTemperature(float64(c.config.Temperature)),
		llms.WithMaxTokens(c.config.MaxTokens),
		llms.WithTopP(float64(c.config.TopP)),
	)
	if err != nil {
		return nil, classifyLangChainError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &models.UpstreamError{StatusCode: http.StatusOK, Message: "response contained no choices"}
	}

	choice := resp.Choices[0]
	return &models.CompletionResult{
		Summary:    choice.Content,
		TokenUsage: totalTokens(choice.GenerationInfo),
	}, nil
}

// classifyLangChainError recovers the HTTP status from langchaingo's error
// text; anything that failed before a response arrived is a transport error.
func classifyLangChainError(err error) error {
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &models.TransportError{Err: err}
	}

	status := 0
	if m := statusCodePattern.FindStringSubmatch(err.Error()); m != nil {
		status, _ = strconv.Atoi(m[1])
	}

	return &models.UpstreamError{
		StatusCode: status,
		Message:    truncate(err.Error(), maxLoggedBody),
	}
}

func totalTokens(info map[string]any) *int {
	var total int
	switch v := info["TotalTokens"].(type) {
	case int:
		total = v
	case int64:
		total = int(v)
	case float64:
		total = int(v)
	default:
		return nil
	}
	if total <= 0 {
		return nil
	}
	return &total
}
