package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// OpenAIClient calls the chat completions API, either on Azure OpenAI
// (deployment-scoped URLs) or on any OpenAI-compatible endpoint.
type OpenAIClient struct {
	config *config.LLMConfig
	client *openai.Client
}

func NewOpenAIClient(cfg *config.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key is empty")
	}

	var clientCfg openai.ClientConfig
	switch cfg.Provider {
	case config.ProviderAzure:
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		clientCfg.APIVersion = cfg.APIVersion
		deployment := cfg.Deployment
		clientCfg.AzureModelMapperFunc = func(string) string {
			return deployment
		}
	case config.ProviderOpenAI:
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = cfg.Endpoint
		}
	default:
		return nil, fmt.Errorf("provider %q is not served by the OpenAI client", cfg.Provider)
	}

	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Summarize makes exactly one chat completion request.
func (c *OpenAIClient) Summarize(ctx context.Context, clinicalText string, style models.SummaryStyle) (*models.CompletionResult, error) {
	p := buildPrompt(c.config, clinicalText, style)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.system},
			{Role: openai.ChatMessageRoleUser, Content: p.user},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		TopP:        c.config.TopP,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &models.UpstreamError{StatusCode: http.StatusOK, Message: "response contained no choices"}
	}

	result := &models.CompletionResult{
		Summary: resp.Choices[0].Message.Content,
	}
	if resp.Usage.TotalTokens > 0 {
		total := resp.Usage.TotalTokens
		result.TokenUsage = &total
	}

	return result, nil
}

// classifyOpenAIError separates non-2xx responses from failures to reach the API.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &models.UpstreamError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    truncate(apiErr.Message, maxLoggedBody),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &models.UpstreamError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    truncate(reqErr.Error(), maxLoggedBody),
		}
	}

	return &models.TransportError{Err: err}
}
