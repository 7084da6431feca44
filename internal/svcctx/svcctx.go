// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/verdantbooks/receiptor/internal/config"
	"github.com/verdantbooks/receiptor/internal/ocr"
	"github.com/verdantbooks/receiptor/internal/pipeline"
	"github.com/verdantbooks/receiptor/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Pipeline      *pipeline.Pipeline
	Registry      *providers.Registry
	Engine        ocr.Engine
	ConfigManager *config.Manager
	Logger        *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// PipelineFrom extracts the extraction pipeline from context.
func PipelineFrom(ctx context.Context) *pipeline.Pipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pipeline
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// EngineFrom extracts the OCR engine from context.
func EngineFrom(ctx context.Context) ocr.Engine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine
	}
	return nil
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigManager
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
