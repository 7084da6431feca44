// Package pipeline orchestrates one receipt request end to end:
// normalize, OCR, prompt, structuring call, parse, validate. Stages are
// strictly sequential; every entity lives and dies within the request.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdantbooks/receiptor/internal/normalize"
	"github.com/verdantbooks/receiptor/internal/ocr"
	"github.com/verdantbooks/receiptor/internal/prompts"
	"github.com/verdantbooks/receiptor/internal/providers"
	"github.com/verdantbooks/receiptor/internal/receipt"
)

// DefaultTimeout bounds one request's wall clock. The structuring call
// dominates latency; on expiry the in-flight call is abandoned.
const DefaultTimeout = 60 * time.Second

// Config holds pipeline dependencies.
type Config struct {
	Normalizer *normalize.Normalizer
	Engine     ocr.Engine
	Registry   *providers.Registry
	// Timeout is the per-request wall-clock budget; zero means
	// DefaultTimeout.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Pipeline processes independent receipt requests. It holds no mutable
// state, so one instance serves concurrent requests.
type Pipeline struct {
	normalizer *normalize.Normalizer
	engine     ocr.Engine
	registry   *providers.Registry
	timeout    time.Duration
	logger     *slog.Logger
}

// Input is one receipt request. Exactly one of Image or Transcript is
// expected: a non-empty Transcript skips normalization and OCR
// entirely.
type Input struct {
	Image      []byte
	Transcript string
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Normalizer == nil {
		cfg.Normalizer = normalize.New(0)
	}
	if cfg.Engine == nil {
		cfg.Engine = ocr.Disabled{}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		normalizer: cfg.Normalizer,
		engine:     cfg.Engine,
		registry:   cfg.Registry,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// Process runs one request through the pipeline and returns the
// validated record. Error taxonomy: *normalize.DecodeError,
// *ModelCallError, *ResponseParseError, *ValidationError. OCR
// unavailability is absorbed here with an empty transcript because the
// structuring model can still work from the image alone.
func (p *Pipeline) Process(ctx context.Context, in Input) (*receipt.Record, error) {
	requestID := uuid.New().String()
	logger := p.logger.With("request_id", requestID)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	transcript := in.Transcript
	var image []byte

	if transcript == "" {
		normalized, err := p.normalizer.Normalize(in.Image)
		if err != nil {
			return nil, err
		}
		image = normalized

		text, err := p.engine.Recognize(ctx, image)
		if err != nil {
			var ue *ocr.UnavailableError
			if !errors.As(err, &ue) {
				return nil, err
			}
			logger.Warn("ocr unavailable, proceeding with empty transcript", "error", err)
			text = ""
		}
		transcript = text
		logger.Info("transcript extracted", "engine", p.engine.Name(), "chars", len(transcript))
	}

	req := &providers.Request{
		System:    prompts.SystemPrompt,
		User:      prompts.UserPrompt(transcript),
		Image:     image,
		RequestID: requestID,
	}

	client, err := p.registry.Default()
	if err != nil {
		return nil, &ModelCallError{Err: err}
	}

	res, err := client.Extract(ctx, req)
	if err != nil {
		return nil, &ModelCallError{Err: err}
	}
	logger.Info("structuring call completed",
		"provider", res.Provider,
		"model", res.ModelUsed,
		"tokens", res.TotalTokens,
		"duration", res.ExecutionTime,
	)

	doc, err := providers.ExtractObject(res.Content)
	if err != nil {
		return nil, &ResponseParseError{Raw: res.Content, Transcript: transcript, Err: err}
	}

	rec, issues := receipt.Validate(doc)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues, Raw: doc, Transcript: transcript}
	}

	logger.Info("receipt processed", "items", len(rec.Items), "duration", time.Since(start))
	return rec, nil
}
