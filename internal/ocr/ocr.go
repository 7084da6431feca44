// Package ocr extracts a best-effort plain-text transcript from a
// normalized receipt image. OCR is an enrichment, not a hard
// dependency: the structuring model can work from the image alone, so
// engine unavailability is recoverable (see UnavailableError).
package ocr

import (
	"context"
	"fmt"
)

// Engine is the text-recognition provider contract: one image in, one
// transcript out. A missing result is always coerced to the empty
// string, never to an absent value.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// UnavailableError reports that the OCR engine or its language assets
// could not be reached. Callers may absorb it and proceed with an empty
// transcript.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string { return fmt.Sprintf("ocr unavailable: %v", e.Err) }
func (e *UnavailableError) Unwrap() error { return e.Err }

// Disabled is the engine used when OCR is administratively switched
// off. It returns the empty transcript immediately.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Recognize(ctx context.Context, image []byte) (string, error) {
	return "", nil
}

var _ Engine = Disabled{}
