package inference

import (
	"fmt"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// NewCompleter builds the configured completion client wrapped with the
// transport retry policy.
func NewCompleter(cfg *config.LLMConfig) (models.Completer, error) {
	var (
		base models.Completer
		err  error
	)

	switch cfg.Provider {
	case config.ProviderAzure, config.ProviderOpenAI:
		base, err = NewOpenAIClient(cfg)
	case config.ProviderLangChain:
		base, err = NewLangChainClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewRetryingCompleter(base, cfg.MaxRetries, cfg.RetryInitialInterval), nil
}
