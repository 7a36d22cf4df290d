package utils

import (
	"strings"
)

// EstimateTokenCount approximates tokens at ~4 characters each, with a floor
// of 10 for any non-empty text.
func EstimateTokenCount(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	tokenCount := len(text) / 4

	if tokenCount < 10 {
		tokenCount = 10
	}

	return tokenCount
}

// EstimateCompletionTokens approximates what one completion call costs: the
// prompt (instruction plus note) and the generated summary.
func EstimateCompletionTokens(prompt, completion string) int {
	return EstimateTokenCount(prompt) + EstimateTokenCount(completion)
}
