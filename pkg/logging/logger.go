// Package logging builds the hclog loggers shared by the archive tools.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	levelEnv = "DISTPACK_LOG_LEVEL"
	jsonEnv  = "DISTPACK_JSON_LOG"
)

// NewLogger creates a new hclog logger with standard settings.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = LevelFromEnv()
	}

	jsonFormat := os.Getenv(jsonEnv) == "1"

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter("📦 ", output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// LevelFromEnv returns the log level configured in the environment.
func LevelFromEnv() string {
	level := os.Getenv(levelEnv)
	if level == "" {
		level = "warn" // Default to warn for production safety
	}
	return level
}
