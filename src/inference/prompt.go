package inference

import (
	"unicode/utf8"

	"www.github.com/Wanderer0074348/ClinicalSummary/src/config"
	"www.github.com/Wanderer0074348/ClinicalSummary/src/models"
)

// fallbackInstruction is used when no instruction is configured for a style.
const fallbackInstruction = "Summarize the following clinical note."

// maxLoggedBody bounds how much of an upstream error body is kept.
const maxLoggedBody = 256

type prompt struct {
	system string
	user   string
}

func buildPrompt(cfg *config.LLMConfig, clinicalText string, style models.SummaryStyle) prompt {
	instruction, ok := cfg.SummaryStyles[style.String()]
	if !ok || instruction == "" {
		instruction = fallbackInstruction
	}

	return prompt{
		system: cfg.SystemPrompt,
		user:   instruction + "\n\n" + clinicalText,
	}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
