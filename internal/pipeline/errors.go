package pipeline

import (
	"fmt"

	"github.com/verdantbooks/receiptor/internal/receipt"
)

// ModelCallError reports that the structuring call failed or timed out.
// Fatal for the request; the pipeline never retries it silently.
type ModelCallError struct {
	Err error
}

func (e *ModelCallError) Error() string { return fmt.Sprintf("structuring call failed: %v", e.Err) }
func (e *ModelCallError) Unwrap() error { return e.Err }

// ResponseParseError reports that the model output was not valid JSON.
// The raw text and transcript travel with the error so a caller can
// diagnose what the model actually said; silent failure here would
// produce a plausible-looking but wrong receipt.
type ResponseParseError struct {
	Raw        string
	Transcript string
	Err        error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("parse model response: %v", e.Err)
}
func (e *ResponseParseError) Unwrap() error { return e.Err }

// ValidationError reports that the parsed object does not conform to
// the receipt schema. Issues enumerate every offending field so the
// caller can decide whether to retry the model call or reject.
type ValidationError struct {
	Issues     []receipt.Issue
	Raw        any
	Transcript string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("receipt validation failed: %d issue(s)", len(e.Issues))
}
