package ocr

import (
	"context"
	"errors"
	"sync/atomic"
)

// Mock is an Engine for testing.
type Mock struct {
	EngineName  string
	Text        string
	Unavailable bool

	requestCount atomic.Int64
}

// NewMock creates a mock engine with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		EngineName: "mock-ocr",
		Text:       "mock transcript",
	}
}

func (m *Mock) Name() string {
	if m.EngineName == "" {
		return "mock-ocr"
	}
	return m.EngineName
}

// Recognize returns the configured transcript, or an UnavailableError
// when simulating engine failure.
func (m *Mock) Recognize(ctx context.Context, image []byte) (string, error) {
	m.requestCount.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Unavailable {
		return "", &UnavailableError{Err: errors.New("mock engine configured as unavailable")}
	}
	return m.Text, nil
}

// RequestCount returns the number of Recognize calls.
func (m *Mock) RequestCount() int64 {
	return m.requestCount.Load()
}

var _ Engine = (*Mock)(nil)
