package config

import (
	"fmt"
	"net/url"
	"strings"
)

var enrollmentTypes = map[string]struct{}{
	"":         {},
	"teacher":  {},
	"ta":       {},
	"student":  {},
	"observer": {},
	"designer": {},
}

// Validate ensures configuration is complete and well-formed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []string

	requireURL := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
			return
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s must be an absolute http(s) URL", field))
		}
	}

	requireNonEmpty := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
		}
	}

	requireURL(cfg.Canvas.URL, "canvas.url")
	requireURL(cfg.XNAT.URL, "xnat.url")
	requireNonEmpty(cfg.XNAT.Username, "xnat.username")

	// Credentials may be given inline or as a Secrets Manager / file:// reference.
	if cfg.Canvas.Token == "" && cfg.Canvas.TokenSecret == "" {
		errs = append(errs, "canvas.token or canvas.token_secret is required")
	}
	if cfg.XNAT.Password == "" && cfg.XNAT.PasswordSecret == "" {
		errs = append(errs, "xnat.password or xnat.password_secret is required")
	}

	// Lambda reads credentials from Secrets Manager; there is no file to point at.
	if cfg.IsLambda {
		for field, ref := range map[string]string{
			"canvas.token_secret":  cfg.Canvas.TokenSecret,
			"xnat.password_secret": cfg.XNAT.PasswordSecret,
		} {
			if strings.HasPrefix(ref, "file://") {
				errs = append(errs, fmt.Sprintf("%s must name a Secrets Manager secret under Lambda", field))
			}
		}
	}

	if _, ok := enrollmentTypes[cfg.Canvas.EnrollmentType]; !ok {
		errs = append(errs, "canvas.enrollment_type must be one of teacher, ta, student, observer, designer")
	}
	if cfg.Canvas.PerPage <= 0 || cfg.Canvas.PerPage > 100 {
		errs = append(errs, "canvas.per_page must be between 1 and 100")
	}
	if cfg.Retry.MaxAttempts < 0 {
		errs = append(errs, "retry.max_attempts must not be negative")
	}
	if cfg.Retry.MaxAttempts > 0 && cfg.Retry.MaxWait < cfg.Retry.Wait {
		errs = append(errs, "retry.max_wait must not be shorter than retry.wait")
	}

	if cfg.Metrics.Enabled {
		requireNonEmpty(cfg.Metrics.Namespace, "metrics.namespace")
		requireNonEmpty(cfg.Metrics.Region, "metrics.region")
	}

	if cfg.History.Enabled {
		requireNonEmpty(cfg.History.TableName, "history.table_name")
		requireNonEmpty(cfg.History.Region, "history.region")
		if cfg.History.TTLDays <= 0 {
			errs = append(errs, "history.ttl_days must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// NormalizeEnrollmentType returns the form Canvas expects for enrollment_type.
func NormalizeEnrollmentType(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
