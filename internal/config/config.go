// Package config provides configuration loading for insightd.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the insightd daemon.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	LLM     LLMConfig     `koanf:"llm"`
	Extract ExtractConfig `koanf:"extract"`
	Prefs   PrefsConfig   `koanf:"prefs"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// MaxUploadBytes caps multipart bodies when > 0. The document routes
	// historically accepted any size, so the default is 0 (unlimited).
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// LLMConfig holds settings for the hosted chat-completion endpoint.
type LLMConfig struct {
	Provider  string   `koanf:"provider"` // "disabled", "heuristic", "openai"
	APIKey    Secret   `koanf:"api_key"`
	BaseURL   string   `koanf:"base_url"`
	Model     string   `koanf:"model"`
	MaxTokens int      `koanf:"max_tokens"`
	Timeout   Duration `koanf:"timeout"`
}

// ExtractConfig tunes the format-specific extractors.
type ExtractConfig struct {
	CSVSampleRows    int `koanf:"csv_sample_rows"`
	ExcelPreviewRows int `koanf:"excel_preview_rows"`
	// MinASCIIRun is the shortest printable run the binary-scan
	// PowerPoint fallback will keep.
	MinASCIIRun int `koanf:"min_ascii_run"`
}

// PrefsConfig holds the preference store settings.
type PrefsConfig struct {
	Path string `koanf:"path"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "heuristic"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = Duration(60 * time.Second)
	}

	if cfg.Extract.CSVSampleRows == 0 {
		cfg.Extract.CSVSampleRows = 5
	}
	if cfg.Extract.ExcelPreviewRows == 0 {
		cfg.Extract.ExcelPreviewRows = 20
	}
	if cfg.Extract.MinASCIIRun == 0 {
		cfg.Extract.MinASCIIRun = 15
	}

	if cfg.Prefs.Path == "" {
		cfg.Prefs.Path = "~/.config/insightd/prefs.db"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes cannot be negative: %d", c.Server.MaxUploadBytes)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}

	switch c.LLM.Provider {
	case "disabled", "heuristic", "openai":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" {
		if !c.LLM.APIKey.IsSet() {
			return fmt.Errorf("llm provider %q requires an api_key", c.LLM.Provider)
		}
		if _, err := url.Parse(c.LLM.BaseURL); err != nil {
			return fmt.Errorf("invalid llm base_url %q: %w", c.LLM.BaseURL, err)
		}
	}

	if c.Extract.CSVSampleRows < 1 {
		return fmt.Errorf("csv_sample_rows must be >= 1, got %d", c.Extract.CSVSampleRows)
	}
	if c.Extract.ExcelPreviewRows < 1 {
		return fmt.Errorf("excel_preview_rows must be >= 1, got %d", c.Extract.ExcelPreviewRows)
	}
	if c.Extract.MinASCIIRun < 1 {
		return fmt.Errorf("min_ascii_run must be >= 1, got %d", c.Extract.MinASCIIRun)
	}

	return nil
}
