package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ClientConfig describes one structuring client in configuration.
type ClientConfig struct {
	Type    string // "openai", "gemini", "mock"
	Model   string
	APIKey  string
	Enabled bool
}

// RegistryConfig is the config-driven view of all structuring clients.
type RegistryConfig struct {
	Clients map[string]ClientConfig
	Default string
}

// Registry holds structuring clients by name. It supports config-driven
// instantiation, hot reload, and thread-safe access.
type Registry struct {
	mu          sync.RWMutex
	clients     map[string]Client
	defaultName string
	logger      *slog.Logger
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a client by name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered structuring client", "name", name, "type", client.Name())
	}
}

// SetDefault names the client returned by Default.
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultName = name
}

// Get returns a client by name.
func (r *Registry) Get(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("structuring client not found: %s", name)
	}
	return client, nil
}

// Default returns the configured default client.
func (r *Registry) Default() (Client, error) {
	r.mu.RLock()
	name := r.defaultName
	r.mu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("no default structuring client configured")
	}
	return r.Get(name)
}

// List returns the registered client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Reload replaces the registered clients from configuration. Disabled
// or unconstructable entries are skipped with a log line rather than
// failing the reload.
func (r *Registry) Reload(ctx context.Context, cfg RegistryConfig) {
	clients := make(map[string]Client, len(cfg.Clients))
	for name, cc := range cfg.Clients {
		if !cc.Enabled {
			continue
		}
		client, err := buildClient(ctx, cc)
		if err != nil {
			if r.logger != nil {
				r.logger.Error("failed to build structuring client", "name", name, "error", err)
			}
			continue
		}
		clients[name] = client
	}

	r.mu.Lock()
	r.clients = clients
	r.defaultName = cfg.Default
	logger := r.logger
	r.mu.Unlock()

	if logger != nil {
		logger.Info("structuring clients reloaded", "count", len(clients), "default", cfg.Default)
	}
}

func buildClient(ctx context.Context, cc ClientConfig) (Client, error) {
	switch cc.Type {
	case "openai":
		return NewOpenAIClient(OpenAIConfig{APIKey: cc.APIKey, Model: cc.Model}), nil
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{APIKey: cc.APIKey, Model: cc.Model})
	case "mock":
		mock := NewMockClient()
		return mock, nil
	default:
		return nil, fmt.Errorf("unknown structuring client type: %s", cc.Type)
	}
}
