// Package providers holds the structuring-model clients that turn a
// transcript (and optionally the receipt image) into structured JSON.
package providers

import (
	"context"
	"time"
)

// Request is the instruction payload for one structuring call.
type Request struct {
	// System is the fixed schema-description instruction.
	System string
	// User carries the reconciliation policy and the OCR transcript.
	User string
	// Image is the normalized PNG, attached inline only when the
	// pipeline actually produced one. Nil for transcript-only requests.
	Image []byte

	// Model selection (client default if empty).
	Model string

	// RequestID ties the call to pipeline logs.
	RequestID string
}

// Result is the complete response from a structuring call.
type Result struct {
	Content   string `json:"content"`
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`
	RequestID     string        `json:"request_id"`
}

// Client is the structuring-model contract. Implementations do not
// retry internally; retry policy belongs to the caller.
type Client interface {
	Name() string
	Extract(ctx context.Context, req *Request) (*Result, error)
}
