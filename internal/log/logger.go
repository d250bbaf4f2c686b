package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// leadingFields are printed first, in this order, so course and login context lines up.
var leadingFields = []string{"course", "project", "login", "action", "role"}

// PrettyFormatter renders one line per entry for terminals. NoColor drops ANSI
// escapes so the same layout can go to a log file.
type PrettyFormatter struct {
	NoColor bool
}

// Format renders a logrus entry as a single human-readable line.
func (f *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	icon, color := levelStyle(entry.Level)

	var b strings.Builder
	b.WriteString(f.paint(ansiGray, entry.Time.Format("2006-01-02 15:04:05")))
	b.WriteByte(' ')
	b.WriteString(f.paint(color, icon))
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	for _, k := range fieldOrder(entry.Data) {
		fmt.Fprintf(&b, " %s=%v", f.paint(ansiCyan, k), entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *PrettyFormatter) paint(color string, s string) string {
	if f.NoColor {
		return s
	}
	return color + s + ansiReset
}

func levelStyle(level logrus.Level) (string, string) {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "✗", ansiRed
	case logrus.WarnLevel:
		return "⚠", ansiYellow
	case logrus.InfoLevel:
		return "•", ansiGreen
	default:
		return "·", ansiGray
	}
}

func fieldOrder(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	seen := make(map[string]bool, len(leadingFields))
	for _, k := range leadingFields {
		if _, ok := data[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(data))
	for k := range data {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// NewLogger creates a configured logrus logger.
func NewLogger(level string, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	setFormatter(logger, format)
	setLevel(logger, level)
	return logger
}

// Configure sets output, format, and level on an existing logger.
func Configure(logger *logrus.Logger, out io.Writer, level string, format string) {
	if out != nil {
		logger.SetOutput(out)
	}
	setFormatter(logger, format)
	setLevel(logger, level)
}

// OpenFile opens path for appending, creating parent directories as needed.
// The caller owns the returned file.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

func setFormatter(logger *logrus.Logger, format string) {
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "pretty":
		logger.SetFormatter(&PrettyFormatter{})
	case "plain":
		logger.SetFormatter(&PrettyFormatter{NoColor: true})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   true,
		})
	}
}

func setLevel(logger *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}
