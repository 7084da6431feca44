package config

import (
	"time"

	"github.com/verdantbooks/receiptor/internal/normalize"
)

// Config holds receiptor configuration.
type Config struct {
	Server    ServerCfg            `mapstructure:"server" yaml:"server"`
	Normalize NormalizeCfg         `mapstructure:"normalize" yaml:"normalize"`
	OCR       OCRCfg               `mapstructure:"ocr" yaml:"ocr"`
	Providers map[string]ClientCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg          `mapstructure:"defaults" yaml:"defaults"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// NormalizeCfg configures image normalization.
type NormalizeCfg struct {
	// MaxWidth is the normalization width ceiling in pixels.
	MaxWidth int `mapstructure:"max_width" yaml:"max_width"`
	// Constrained lowers the ceiling for memory-constrained
	// deployments.
	Constrained bool `mapstructure:"constrained" yaml:"constrained"`
}

// OCRCfg configures transcript extraction.
type OCRCfg struct {
	// Enabled is the administrative opt-out switch. When false, the
	// transcript is forced empty and recognition is skipped entirely.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Languages are Tesseract traineddata codes, e.g. ["eng"].
	Languages []string `mapstructure:"languages" yaml:"languages"`
	// TessdataPrefix is the primary language-asset directory; empty
	// uses the system default.
	TessdataPrefix string `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"`
	// AssetURL is the remote traineddata source for the cached
	// fallback.
	AssetURL string `mapstructure:"asset_url" yaml:"asset_url"`
	// CacheDir is the writable scratch location for fetched assets.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// ClientCfg configures one structuring-model client.
type ClientCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "openai", "gemini", "mock"
	Model   string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // Supports ${ENV_VAR} syntax
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies runtime defaults.
type DefaultsCfg struct {
	// Provider names the default structuring client.
	Provider string `mapstructure:"provider" yaml:"provider"`
	// RequestTimeoutSeconds bounds one pipeline run end to end.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Normalize: NormalizeCfg{
			MaxWidth: normalize.DefaultMaxWidth,
		},
		OCR: OCRCfg{
			Enabled:   true,
			Languages: []string{"eng"},
		},
		Providers: map[string]ClientCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-5",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.5-flash",
				APIKey:  "${GEMINI_API_KEY}",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			Provider:              "openai",
			RequestTimeoutSeconds: 60,
		},
	}
}

// WidthCeiling returns the effective normalization ceiling for the
// configured deployment profile.
func (c *Config) WidthCeiling() int {
	if c.Normalize.Constrained {
		return normalize.ConstrainedMaxWidth
	}
	if c.Normalize.MaxWidth > 0 {
		return c.Normalize.MaxWidth
	}
	return normalize.DefaultMaxWidth
}

// RequestTimeout returns the per-request wall-clock budget.
func (c *Config) RequestTimeout() time.Duration {
	if c.Defaults.RequestTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Defaults.RequestTimeoutSeconds) * time.Second
}
