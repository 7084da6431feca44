package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-5"
)

// OpenAIConfig holds configuration for the OpenAI structuring client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIClient implements Client using the official OpenAI SDK.
type OpenAIClient struct {
	model  string
	client openai.Client
}

// NewOpenAIClient creates a new OpenAI structuring client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// The SDK retries transport errors by default; the pipeline
		// owns retry policy, so turn that off.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string { return OpenAIName }

// Extract sends the structuring request as a chat completion. The image
// travels as an inline data URL content part when present.
func (c *OpenAIClient) Extract(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(req.User),
	}
	if len(req.Image) > 0 {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Image),
			Detail: "auto",
		}))
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(parts),
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat completion: no choices in response")
	}

	return &Result{
		Content:          resp.Choices[0].Message.Content,
		Provider:         OpenAIName,
		ModelUsed:        resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		RequestID:        req.RequestID,
	}, nil
}

var _ Client = (*OpenAIClient)(nil)
