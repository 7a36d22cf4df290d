package models

import (
	"errors"
	"fmt"
)

const (
	ErrorCodeValidation = "validation"
	ErrorCodeUpstream   = "upstream"

	MsgClinicalTextRequired = "Clinical text is required."
	MsgSummaryUnavailable   = "Unable to generate a summary right now. Please try again."
)

// ErrSummaryUnavailable wraps every upstream and transport failure returned
// to callers of the summary service.
var ErrSummaryUnavailable = errors.New("summary unavailable")

// ValidationError is a field-level input problem. No upstream call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamError is a well-formed non-success response from the completion API.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, e.Message)
}

// TransportError is a failure to reach the completion API at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion API unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
