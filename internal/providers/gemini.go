package providers

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini structuring client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiClient implements Client using the Google GenAI SDK.
type GeminiClient struct {
	model  string
	client *genai.Client
}

// NewGeminiClient creates a new Gemini structuring client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{model: cfg.Model, client: client}, nil
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string { return GeminiName }

// Extract sends the structuring request to Gemini with the image as an
// inline data blob when present.
func (c *GeminiClient) Extract(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	parts := []*genai.Part{{Text: req.User}}
	if len(req.Image) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "image/png",
				Data:     req.Image,
			},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini generate content: empty response")
	}

	result := &Result{
		Content:       text,
		Provider:      GeminiName,
		ModelUsed:     model,
		ExecutionTime: time.Since(start),
		RequestID:     req.RequestID,
	}
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}

var _ Client = (*GeminiClient)(nil)
