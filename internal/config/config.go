package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Sessions
	SessionTTL     time.Duration `yaml:"session_ttl"`
	JanitorEvery   time.Duration `yaml:"janitor_interval"`
	StatsWindow    time.Duration `yaml:"stats_window"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`

	// Hotzones, in pixels
	ColumnGapThreshold    float64 `yaml:"column_gap_threshold"`
	EditorBorderThreshold float64 `yaml:"editor_border_threshold"`
	EditorBorderTolerance float64 `yaml:"editor_border_tolerance"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Defaults returns the configuration used when neither a file nor the
// environment sets a value.
func Defaults() Config {
	return Config{
		Port:                  "8090",
		LogLevel:              "info",
		LogFormat:             "json",
		SessionTTL:            1 * time.Hour,
		JanitorEvery:          1 * time.Minute,
		StatsWindow:           5 * time.Minute,
		MaxUploadBytes:        52428800, // 50MB
		ColumnGapThreshold:    12,
		EditorBorderThreshold: 48,
		EditorBorderTolerance: 24,
		PDFFallbackPdftotext:  true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// DOCSTRUCT_CONFIG if set, then environment variables. Later sources win.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("DOCSTRUCT_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("DOCSTRUCT_API_KEY", cfg.APIKey)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)

	cfg.SessionTTL = envDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.JanitorEvery = envDuration("JANITOR_INTERVAL", cfg.JanitorEvery)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.ColumnGapThreshold = envFloat("COLUMN_GAP_THRESHOLD", cfg.ColumnGapThreshold)
	cfg.EditorBorderThreshold = envFloat("EDITOR_BORDER_THRESHOLD", cfg.EditorBorderThreshold)
	cfg.EditorBorderTolerance = envFloat("EDITOR_BORDER_TOLERANCE", cfg.EditorBorderTolerance)

	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	def := Defaults()
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = def.SessionTTL
	}
	if cfg.JanitorEvery <= 0 {
		cfg.JanitorEvery = def.JanitorEvery
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = def.StatsWindow
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSTRUCT_API_KEY is required")
	}
	if c.ColumnGapThreshold <= 0 {
		return fmt.Errorf("column gap threshold must be positive, got %v", c.ColumnGapThreshold)
	}
	if c.EditorBorderThreshold <= 0 {
		return fmt.Errorf("editor border threshold must be positive, got %v", c.EditorBorderThreshold)
	}
	if c.EditorBorderTolerance < 0 {
		return fmt.Errorf("editor border tolerance must not be negative, got %v", c.EditorBorderTolerance)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
