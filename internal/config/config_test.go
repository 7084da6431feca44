package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verdantbooks/receiptor/internal/normalize"
)

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("RECEIPTOR_TEST_KEY", "sk-12345")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value", "literal", "literal"},
		{"env reference", "${RECEIPTOR_TEST_KEY}", "sk-12345"},
		{"embedded reference", "key=${RECEIPTOR_TEST_KEY}!", "key=sk-12345!"},
		{"missing var", "${RECEIPTOR_TEST_MISSING}", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWidthCeiling(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.WidthCeiling(); got != normalize.DefaultMaxWidth {
		t.Errorf("WidthCeiling() = %d, want %d", got, normalize.DefaultMaxWidth)
	}

	cfg.Normalize.Constrained = true
	if got := cfg.WidthCeiling(); got != normalize.ConstrainedMaxWidth {
		t.Errorf("constrained WidthCeiling() = %d, want %d", got, normalize.ConstrainedMaxWidth)
	}

	cfg.Normalize.Constrained = false
	cfg.Normalize.MaxWidth = 900
	if got := cfg.WidthCeiling(); got != 900 {
		t.Errorf("WidthCeiling() = %d, want 900", got)
	}

	cfg.Normalize.MaxWidth = 0
	if got := cfg.WidthCeiling(); got != normalize.DefaultMaxWidth {
		t.Errorf("zero-width WidthCeiling() = %d, want default", got)
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.RequestTimeout(); got != 60*time.Second {
		t.Errorf("RequestTimeout() = %v, want 60s", got)
	}

	cfg.Defaults.RequestTimeoutSeconds = 15
	if got := cfg.RequestTimeout(); got != 15*time.Second {
		t.Errorf("RequestTimeout() = %v, want 15s", got)
	}

	cfg.Defaults.RequestTimeoutSeconds = -1
	if got := cfg.RequestTimeout(); got != 60*time.Second {
		t.Errorf("negative RequestTimeout() = %v, want 60s fallback", got)
	}
}

func TestToRegistryConfig(t *testing.T) {
	t.Setenv("RECEIPTOR_TEST_OPENAI_KEY", "resolved-key")

	cfg := &Config{
		Providers: map[string]ClientCfg{
			"openai": {Type: "openai", Model: "gpt-5", APIKey: "${RECEIPTOR_TEST_OPENAI_KEY}", Enabled: true},
			"mock":   {Type: "mock", Enabled: false},
		},
		Defaults: DefaultsCfg{Provider: "openai"},
	}

	rc := cfg.ToRegistryConfig()
	if rc.Default != "openai" {
		t.Errorf("Default = %q", rc.Default)
	}
	if rc.Clients["openai"].APIKey != "resolved-key" {
		t.Errorf("APIKey = %q, want resolved env value", rc.Clients["openai"].APIKey)
	}
	if rc.Clients["mock"].Enabled {
		t.Error("disabled client marked enabled")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, want := range []string{"server:", "ocr:", "providers:", "${OPENAI_API_KEY}"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("default config missing %q", want)
		}
	}
}
