package config

import "time"

// Config holds all configuration for the integration run.
type Config struct {
	Canvas   CanvasConfig  `json:"canvas"`
	XNAT     XNATConfig    `json:"xnat"`
	Sync     SyncConfig    `json:"sync"`
	Retry    RetryConfig   `json:"retry"`
	HTTP     HTTPConfig    `json:"http"`
	Log      LogConfig     `json:"log"`
	Metrics  MetricsConfig `json:"metrics"`
	History  HistoryConfig `json:"history"`
	IsLambda bool          `json:"-"`
}

// CanvasConfig holds Canvas LMS settings.
type CanvasConfig struct {
	URL            string `json:"url"`
	Token          string `json:"-"`
	TokenSecret    string `json:"token_secret,omitempty"`
	EnrollmentType string `json:"enrollment_type,omitempty"`
	PerPage        int    `json:"per_page"`
}

// XNATConfig holds XNAT settings.
type XNATConfig struct {
	URL            string `json:"url"`
	Username       string `json:"username"`
	Password       string `json:"-"`
	PasswordSecret string `json:"password_secret,omitempty"`
}

// SyncConfig holds reconciliation behavior settings.
type SyncConfig struct {
	DryRun       bool `json:"dry_run"`
	ShowProgress bool `json:"show_progress"`
}

// RetryConfig controls bounded retries of transient HTTP failures.
// MaxAttempts of zero disables retries.
type RetryConfig struct {
	MaxAttempts int           `json:"max_attempts"`
	Wait        time.Duration `json:"wait"`
	MaxWait     time.Duration `json:"max_wait"`
}

// HTTPConfig holds transport settings shared by both clients.
type HTTPConfig struct {
	Timeout time.Duration `json:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file,omitempty"`
}

// MetricsConfig holds CloudWatch metrics settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Region    string `json:"region"`
}

// HistoryConfig holds the DynamoDB run history settings.
type HistoryConfig struct {
	Enabled   bool   `json:"enabled"`
	TableName string `json:"table_name"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint,omitempty"`
	TTLDays   int    `json:"ttl_days"`
}
