// Package config provides configuration management for the catalog pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingSource            = errors.New("source.file or source.url is required")
	ErrInvalidSeparator         = errors.New("source.separator must be a single character")
	ErrInvalidBatchSize         = errors.New("batch.size must be at least 1")
	ErrMissingBatchDir          = errors.New("batch.output_dir is required")
	ErrMissingEndpoint          = errors.New("submit.endpoint is required")
	ErrInvalidSubmitTimeout     = errors.New("submit.timeout_sec must be at least 1")
	ErrInvalidCodeWidth         = errors.New("normalize.internal_code_width must be non-negative")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingAuditPath         = errors.New("audit.path is required")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrMissingAPIKey            = errors.New("INSTABUY_API_KEY is not set")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// PipelineConfig contains the per-stage settings.
type PipelineConfig struct {
	Source    SourceConfig    `yaml:"source"`
	Batch     BatchConfig     `yaml:"batch"`
	Submit    SubmitConfig    `yaml:"submit"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Retry     RetryPolicy     `yaml:"retry"`
	Audit     AuditConfig     `yaml:"audit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig locates the catalog export.
type SourceConfig struct {
	File      string `yaml:"file"`
	URL       string `yaml:"url"`
	Separator string `yaml:"separator"`
}

// IsLocalFile returns true if the source is read from disk.
func (s *SourceConfig) IsLocalFile() bool {
	return s.File != ""
}

// Location returns the file path if local, or URL if remote.
func (s *SourceConfig) Location() string {
	if s.IsLocalFile() {
		return s.File
	}

	return s.URL
}

// SeparatorRune returns the column separator as a rune.
func (s *SourceConfig) SeparatorRune() rune {
	for _, r := range s.Separator {
		return r
	}

	return ';'
}

// BatchConfig controls partitioning and artifact persistence.
type BatchConfig struct {
	Size      int    `yaml:"size"`
	OutputDir string `yaml:"output_dir"`
}

// SubmitConfig points at the destination API.
type SubmitConfig struct {
	Endpoint   string `yaml:"endpoint"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GetTimeout returns the per-request timeout duration.
func (s *SubmitConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// NormalizeConfig tunes the field converters.
type NormalizeConfig struct {
	// InternalCodeWidth zero-pads internal codes to a fixed width;
	// zero leaves them as-is.
	InternalCodeWidth int `yaml:"internal_code_width"`
}

// RetryPolicy defines retry behavior for fetching the source export.
// Batch submission is deliberately single-attempt and does not use it.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the fetch timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// AuditConfig defines the audit trail sink and its rotation.
type AuditConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMb  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LoggingConfig defines process logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given:
// local staging path, batches of 1000, the documented store-products
// endpoint.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Source: SourceConfig{
				File:      "data/raw-bronze/items.csv",
				Separator: ";",
			},
			Batch: BatchConfig{
				Size:      1000,
				OutputDir: "batches",
			},
			Submit: SubmitConfig{
				Endpoint:   "https://api.instabuy.com.br/store/products",
				TimeoutSec: 30,
			},
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        5000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
			Audit: AuditConfig{
				Path:       "logs/audit.log",
				MaxSizeMb:  100,
				MaxBackups: 7,
			},
			Logging: LoggingConfig{
				Level: "info",
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields the file
// leaves empty fall back to DefaultConfig values before validation.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	p := &c.Pipeline

	if p.Source.File == "" && p.Source.URL == "" {
		p.Source.File = def.Pipeline.Source.File
	}
	if p.Source.Separator == "" {
		p.Source.Separator = def.Pipeline.Source.Separator
	}
	if p.Batch.Size == 0 {
		p.Batch.Size = def.Pipeline.Batch.Size
	}
	if p.Batch.OutputDir == "" {
		p.Batch.OutputDir = def.Pipeline.Batch.OutputDir
	}
	if p.Submit.Endpoint == "" {
		p.Submit.Endpoint = def.Pipeline.Submit.Endpoint
	}
	if p.Submit.TimeoutSec == 0 {
		p.Submit.TimeoutSec = def.Pipeline.Submit.TimeoutSec
	}
	if p.Retry.MaxAttempts == 0 {
		p.Retry = def.Pipeline.Retry
	}
	if p.Audit.Path == "" {
		p.Audit.Path = def.Pipeline.Audit.Path
	}
	if p.Audit.MaxSizeMb == 0 {
		p.Audit.MaxSizeMb = def.Pipeline.Audit.MaxSizeMb
	}
	if p.Audit.MaxBackups == 0 {
		p.Audit.MaxBackups = def.Pipeline.Audit.MaxBackups
	}
	if p.Logging.Level == "" {
		p.Logging.Level = def.Pipeline.Logging.Level
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	p := &c.Pipeline

	if p.Source.File == "" && p.Source.URL == "" {
		return ErrMissingSource
	}

	if len([]rune(p.Source.Separator)) != 1 {
		return ErrInvalidSeparator
	}

	if p.Batch.Size < 1 {
		return ErrInvalidBatchSize
	}

	if p.Batch.OutputDir == "" {
		return ErrMissingBatchDir
	}

	if p.Submit.Endpoint == "" {
		return ErrMissingEndpoint
	}

	if p.Submit.TimeoutSec < 1 {
		return ErrInvalidSubmitTimeout
	}

	if p.Normalize.InternalCodeWidth < 0 {
		return ErrInvalidCodeWidth
	}

	if p.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if p.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if p.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if p.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if p.Audit.Path == "" {
		return ErrMissingAuditPath
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[p.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Credentials carries the secrets the submit stage needs. They come
// from the environment, never from the YAML file.
type Credentials struct {
	APIKey string `env:"INSTABUY_API_KEY"`
}

// LoadCredentials reads the API credential from the environment,
// honoring a .env file in the working directory when one exists.
func LoadCredentials() (*Credentials, error) {
	// A missing .env is fine; the variable may be set directly.
	_ = godotenv.Load()

	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if creds.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return creds, nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, BatchSize: %d, Endpoint: %s}",
		c.Pipeline.Source.Location(),
		c.Pipeline.Batch.Size,
		c.Pipeline.Submit.Endpoint,
	)
}
