package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	ResponseText string

	// State
	requestCount atomic.Int64

	mu          sync.Mutex
	lastRequest *Request
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: `{"items":[]}`,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string { return MockName }

// Extract returns the configured response text.
func (c *MockClient) Extract(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	c.mu.Lock()
	c.lastRequest = req
	c.mu.Unlock()

	if c.ShouldFail {
		return nil, fmt.Errorf("mock client configured to fail")
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &Result{
		Content:       c.ResponseText,
		Provider:      MockName,
		ModelUsed:     req.Model,
		ExecutionTime: time.Since(start),
		RequestID:     fmt.Sprintf("mock-%d", count),
	}, nil
}

// RequestCount returns the number of Extract calls.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request, or nil.
func (c *MockClient) LastRequest() *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequest
}

// Reset clears the request counter and last request.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.mu.Lock()
	c.lastRequest = nil
	c.mu.Unlock()
}

var _ Client = (*MockClient)(nil)
