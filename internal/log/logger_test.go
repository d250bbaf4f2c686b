package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestJSONFormatterOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	Configure(logger, buf, "info", "json")

	logger.Info("test message")

	var payload map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("expected JSON output, got error: %v", err)
	}
	if payload["msg"] != "test message" {
		t.Fatalf("expected msg field to be 'test message', got %v", payload["msg"])
	}
}

func TestTextFormatterIncludesTimestampAndLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	Configure(logger, buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("pending participant")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info line to be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "level=warning") || !strings.Contains(out, "time=") {
		t.Fatalf("expected timestamp and level in output, got %q", out)
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "integration_log.txt")

	for _, msg := range []string{"first run", "second run"} {
		f, err := OpenFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger := logrus.New()
		Configure(logger, f, "info", "text")
		logger.Info(msg)
		f.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "first run") || !strings.Contains(string(data), "second run") {
		t.Fatalf("expected both runs in log file, got %q", string(data))
	}
}

func TestPlainFormatterOrdersContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	Configure(logger, buf, "info", "plain")

	logger.WithFields(logrus.Fields{
		"zeta":    1,
		"login":   "jdoe",
		"project": "100",
	}).Warn("⚠ Action failed")

	out := buf.String()
	if strings.Contains(out, "\033[") {
		t.Fatalf("expected no ANSI escapes, got %q", out)
	}
	want := "⚠ ⚠ Action failed project=100 login=jdoe zeta=1\n"
	if !strings.HasSuffix(out, want) {
		t.Fatalf("expected line ending with %q, got %q", want, out)
	}
}

func TestPrettyFormatterColors(t *testing.T) {
	entry := &logrus.Entry{Level: logrus.ErrorLevel, Message: "boom", Data: logrus.Fields{}}
	line, err := (&PrettyFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(line), ansiRed+"✗"+ansiReset) {
		t.Fatalf("expected red error icon, got %q", line)
	}
}

func TestNewLoggerDefaultsToInfoOnStdout(t *testing.T) {
	logger := NewLogger("not-a-level", "json")

	if logger.Level != logrus.InfoLevel {
		t.Fatalf("expected info level fallback, got %s", logger.Level)
	}
	if logger.Out != os.Stdout {
		t.Fatalf("expected stdout output")
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", logger.Formatter)
	}
}
