package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/encounter-api/pkg/redact"
)

// Level represents logging level
type Level = zerolog.Level

// Logger levels
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config holds logger configuration
type Config struct {
	Level      Level
	TimeFormat string
	Output     io.Writer
}

// Logger wraps zerolog.Logger. Field maps pass through the PHI redactor
// before they are written; callers never have to remember to scrub.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a new logger instance
func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{
			Level:      InfoLevel,
			TimeFormat: time.RFC3339,
			Output:     os.Stdout,
		}
	}

	output := zerolog.ConsoleWriter{
		Out:        cfg.Output,
		TimeFormat: cfg.TimeFormat,
	}

	logger := zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: logger}
}

// WithFields returns a logger with redacted fields attached to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(redact.Map(fields)).Logger()}
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(redact.Map(fields)).Msg(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(redact.Map(fields)).Msg(msg)
}

func (l *Logger) Error(err error, msg string, fields map[string]interface{}) {
	l.zl.Error().Err(err).Fields(redact.Map(fields)).Msg(msg)
}

func (l *Logger) Fatal(err error, msg string, fields map[string]interface{}) {
	l.zl.Fatal().Err(err).Fields(redact.Map(fields)).Msg(msg)
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(redact.Map(fields)).Msg(msg)
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(level string) Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return InfoLevel
	}
	return parsed
}
