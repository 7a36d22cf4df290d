package models

// CompletionResult is the raw output of one completion call. TokenUsage is nil
// when the upstream response carried no usage data.
type CompletionResult struct {
	Summary    string
	TokenUsage *int
}

// StructuredSummary is the shape the structured style asks the model for.
type StructuredSummary struct {
	Diagnoses   []string `json:"diagnoses"`
	Medications []string `json:"medications"`
	Plan        []string `json:"plan"`
}

// EmptyStructuredSummary returns a summary whose lists encode as [] rather than null.
func EmptyStructuredSummary() *StructuredSummary {
	return &StructuredSummary{
		Diagnoses:   []string{},
		Medications: []string{},
		Plan:        []string{},
	}
}

type SummarizeRequest struct {
	ClinicalText string `json:"clinical_text" form:"ClinicalText"`
	SummaryStyle string `json:"summary_style,omitempty" form:"SummaryStyle"`
}

type SummarizeResponse struct {
	Summary    string             `json:"summary,omitempty"`
	Structured *StructuredSummary `json:"structured,omitempty"`
	Style      string             `json:"style"`
	CacheHit   bool               `json:"cache_hit"`
	TokenUsage *int               `json:"token_usage,omitempty"`
	Error      string             `json:"error,omitempty"`
	ErrorCode  string             `json:"error_code,omitempty"`
}

// Failed reports whether the response carries a user-facing error.
func (r *SummarizeResponse) Failed() bool {
	return r.ErrorCode != ""
}
