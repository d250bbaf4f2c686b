package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultLogFile is where run logs are appended when nothing else is configured.
const DefaultLogFile = "logs/integration_log.txt"

// InLambda reports whether the process runs inside AWS Lambda.
func InLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// Load reads configuration from the credentials file, environment variables, and defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("canvas.per_page", 100)
	v.SetDefault("canvas.enrollment_type", "")
	v.SetDefault("sync.dry_run", false)
	v.SetDefault("sync.show_progress", true)
	v.SetDefault("retry.max_attempts", 0)
	v.SetDefault("retry.wait", 500*time.Millisecond)
	v.SetDefault("retry.max_wait", 5*time.Second)
	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", DefaultLogFile)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "CanvasXNATSync")
	v.SetDefault("metrics.region", "eu-west-1")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.table_name", "canvas-xnat-sync-runs")
	v.SetDefault("history.region", "eu-west-1")
	v.SetDefault("history.ttl_days", 365)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("canvas.url", "CANVAS_URL")
	_ = v.BindEnv("canvas.token", "CANVAS_TOKEN")
	_ = v.BindEnv("canvas.token_secret", "CANVAS_TOKEN_SECRET")
	_ = v.BindEnv("canvas.enrollment_type", "CANVAS_ENROLLMENT_TYPE")
	_ = v.BindEnv("canvas.per_page", "CANVAS_PER_PAGE")
	_ = v.BindEnv("xnat.url", "XNAT_URL")
	_ = v.BindEnv("xnat.username", "XNAT_USERNAME")
	_ = v.BindEnv("xnat.password", "XNAT_PASSWORD")
	_ = v.BindEnv("xnat.password_secret", "XNAT_PASSWORD_SECRET")
	_ = v.BindEnv("sync.dry_run", "DRY_RUN")
	_ = v.BindEnv("sync.show_progress", "SHOW_PROGRESS")
	_ = v.BindEnv("retry.max_attempts", "RETRY_MAX_ATTEMPTS")
	_ = v.BindEnv("retry.wait", "RETRY_WAIT")
	_ = v.BindEnv("retry.max_wait", "RETRY_MAX_WAIT")
	_ = v.BindEnv("http.timeout", "HTTP_TIMEOUT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("log.file", "LOG_FILE")
	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.namespace", "METRICS_NAMESPACE")
	_ = v.BindEnv("metrics.region", "METRICS_REGION")
	_ = v.BindEnv("history.enabled", "HISTORY_ENABLED")
	_ = v.BindEnv("history.table_name", "HISTORY_TABLE_NAME")
	_ = v.BindEnv("history.region", "HISTORY_REGION")
	_ = v.BindEnv("history.endpoint", "HISTORY_ENDPOINT")
	_ = v.BindEnv("history.ttl_days", "HISTORY_TTL_DAYS")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("credentials")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	// Explicitly map values to avoid tag mismatch issues.
	cfg.Canvas.URL = strings.TrimRight(v.GetString("canvas.url"), "/")
	cfg.Canvas.Token = v.GetString("canvas.token")
	cfg.Canvas.TokenSecret = v.GetString("canvas.token_secret")
	cfg.Canvas.EnrollmentType = NormalizeEnrollmentType(v.GetString("canvas.enrollment_type"))
	cfg.Canvas.PerPage = v.GetInt("canvas.per_page")

	cfg.XNAT.URL = strings.TrimRight(v.GetString("xnat.url"), "/")
	cfg.XNAT.Username = v.GetString("xnat.username")
	cfg.XNAT.Password = v.GetString("xnat.password")
	cfg.XNAT.PasswordSecret = v.GetString("xnat.password_secret")

	cfg.Sync.DryRun = v.GetBool("sync.dry_run")
	cfg.Sync.ShowProgress = v.GetBool("sync.show_progress")

	cfg.Retry.MaxAttempts = v.GetInt("retry.max_attempts")
	cfg.Retry.Wait = v.GetDuration("retry.wait")
	cfg.Retry.MaxWait = v.GetDuration("retry.max_wait")

	cfg.HTTP.Timeout = v.GetDuration("http.timeout")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Log.File = v.GetString("log.file")

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Namespace = v.GetString("metrics.namespace")
	cfg.Metrics.Region = v.GetString("metrics.region")

	cfg.History.Enabled = v.GetBool("history.enabled")
	cfg.History.TableName = v.GetString("history.table_name")
	cfg.History.Region = v.GetString("history.region")
	cfg.History.Endpoint = v.GetString("history.endpoint")
	cfg.History.TTLDays = v.GetInt("history.ttl_days")

	cfg.IsLambda = InLambda()

	return cfg, nil
}
