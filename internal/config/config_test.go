package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	validLocal := Config{
		Canvas: CanvasConfig{
			URL:     "https://canvas.example.edu/api/v1",
			Token:   "canvas-token",
			PerPage: 100,
		},
		XNAT: XNATConfig{
			URL:      "https://xnat.example.edu",
			Username: "sync-bot",
			Password: "secret",
		},
		Retry: RetryConfig{MaxAttempts: 0, Wait: time.Second, MaxWait: 5 * time.Second},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}

	cases := []struct {
		name     string
		cfg      Config
		isLambda bool
		wantErr  bool
	}{
		{
			name:     "valid local config",
			cfg:      validLocal,
			isLambda: false,
			wantErr:  false,
		},
		{
			name: "missing canvas url",
			cfg: func() Config {
				c := validLocal
				c.Canvas.URL = ""
				return c
			}(),
			wantErr: true,
		},
		{
			name: "relative xnat url",
			cfg: func() Config {
				c := validLocal
				c.XNAT.URL = "xnat.example.edu"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "unknown enrollment type",
			cfg: func() Config {
				c := validLocal
				c.Canvas.EnrollmentType = "dean"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "teacher enrollment type",
			cfg: func() Config {
				c := validLocal
				c.Canvas.EnrollmentType = "teacher"
				return c
			}(),
			wantErr: false,
		},
		{
			name: "negative retries",
			cfg: func() Config {
				c := validLocal
				c.Retry.MaxAttempts = -1
				return c
			}(),
			wantErr: true,
		},
		{
			name: "lambda missing secrets",
			cfg: func() Config {
				c := validLocal
				c.Canvas.Token = ""
				c.XNAT.Password = ""
				return c
			}(),
			isLambda: true,
			wantErr:  true,
		},
		{
			name: "valid lambda config",
			cfg: func() Config {
				c := validLocal
				c.Canvas.Token = ""
				c.XNAT.Password = ""
				c.Canvas.TokenSecret = "canvas-token"
				c.XNAT.PasswordSecret = "xnat-password"
				return c
			}(),
			isLambda: true,
			wantErr:  false,
		},
		{
			name: "local config with file references",
			cfg: func() Config {
				c := validLocal
				c.Canvas.Token = ""
				c.Canvas.TokenSecret = "file:///run/secrets/canvas"
				c.XNAT.Password = ""
				c.XNAT.PasswordSecret = "file:///run/secrets/xnat"
				return c
			}(),
			wantErr: false,
		},
		{
			name: "lambda config with file references",
			cfg: func() Config {
				c := validLocal
				c.Canvas.Token = ""
				c.Canvas.TokenSecret = "file:///run/secrets/canvas"
				return c
			}(),
			isLambda: true,
			wantErr:  true,
		},
		{
			name: "mixed case enrollment type is not normalised by Validate",
			cfg: func() Config {
				c := validLocal
				c.Canvas.EnrollmentType = "Teacher"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "history without table",
			cfg: func() Config {
				c := validLocal
				c.History = HistoryConfig{Enabled: true, Region: "eu-west-1", TTLDays: 30}
				return c
			}(),
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.IsLambda = tc.isLambda
			err := Validate(&cfg)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := Validate(&Config{Canvas: CanvasConfig{PerPage: 100}})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	for _, field := range []string{"canvas.url", "xnat.url", "xnat.username", "canvas.token", "xnat.password"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in %q", field, err.Error())
		}
	}
}

func TestLoadCredentialsFile(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	content := `canvas:
  url: https://canvas.example.edu/api/v1/
  token: canvas-token
xnat:
  url: https://xnat.example.edu
  username: sync-bot
  password: secret
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing credentials: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Canvas.URL != "https://canvas.example.edu/api/v1" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.Canvas.URL)
	}
	if cfg.Canvas.Token != "canvas-token" || cfg.XNAT.Password != "secret" {
		t.Fatalf("expected credentials to be loaded, got %#v", cfg)
	}
	if cfg.Canvas.PerPage != 100 {
		t.Fatalf("expected default per_page 100, got %d", cfg.Canvas.PerPage)
	}
	if cfg.Log.File != DefaultLogFile {
		t.Fatalf("expected default log file, got %s", cfg.Log.File)
	}
	if cfg.Sync.DryRun {
		t.Fatalf("expected dry run to default to false")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadNormalisesEnrollmentTypeAndDetectsLambda(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "canvas-xnat-sync")
	t.Setenv("CANVAS_ENROLLMENT_TYPE", " Teacher ")

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := os.WriteFile(path, []byte("xnat:\n  username: sync-bot\n"), 0o600); err != nil {
		t.Fatalf("writing credentials: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Canvas.EnrollmentType != "teacher" {
		t.Fatalf("expected enrollment type teacher, got %q", cfg.Canvas.EnrollmentType)
	}
	if !cfg.IsLambda {
		t.Fatalf("expected Lambda to be detected from the environment")
	}
}
