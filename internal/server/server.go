package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/verdantbooks/receiptor/internal/api"
	"github.com/verdantbooks/receiptor/internal/config"
	"github.com/verdantbooks/receiptor/internal/normalize"
	"github.com/verdantbooks/receiptor/internal/ocr"
	"github.com/verdantbooks/receiptor/internal/pipeline"
	"github.com/verdantbooks/receiptor/internal/providers"
	"github.com/verdantbooks/receiptor/internal/server/endpoints"
	"github.com/verdantbooks/receiptor/internal/svcctx"
)

// Server is the receiptor HTTP server. Requests are stateless; the
// server owns the long-lived pieces (OCR engine, provider registry,
// pipeline) and injects them into request contexts.
type Server struct {
	httpServer *http.Server
	pipeline   *pipeline.Pipeline
	engine     ocr.Engine
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	// If config manager provided, set up providers and hot reload
	if cfg.ConfigManager != nil {
		registry.Reload(context.Background(), appCfg.ToRegistryConfig())

		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(context.Background(), c.ToRegistryConfig())
			cfg.Logger.Info("provider registry reloaded from config")
		})
	}

	engine := buildEngine(appCfg.OCR)

	pipe := pipeline.New(pipeline.Config{
		Normalizer: normalize.New(appCfg.WidthCeiling()),
		Engine:     engine,
		Registry:   registry,
		Timeout:    appCfg.RequestTimeout(),
		Logger:     cfg.Logger,
	})

	s := &Server{
		pipeline:  pipe,
		engine:    engine,
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Structuring calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildEngine constructs the OCR engine from configuration.
func buildEngine(cfg config.OCRCfg) ocr.Engine {
	if !cfg.Enabled {
		return ocr.Disabled{}
	}
	return ocr.NewTesseract(ocr.TesseractConfig{
		Languages:      cfg.Languages,
		TessdataPrefix: cfg.TessdataPrefix,
		AssetURL:       cfg.AssetURL,
		CacheDir:       cfg.CacheDir,
	})
}

// Start starts the server. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Pipeline:      s.pipeline,
		Registry:      s.registry,
		Engine:        s.engine,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return err
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Pipeline returns the extraction pipeline.
func (s *Server) Pipeline() *pipeline.Pipeline {
	return s.pipeline
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until Start has run.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
