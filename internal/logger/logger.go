package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/camuig/trade-quest/internal/config"
)

// Logger wraps slog.Logger and doubles as a gorm logger.Writer.
type Logger struct {
	*slog.Logger
}

func New(level string) *Logger {
	return newWithWriter(level, os.Stdout)
}

// NewFromConfig logs to stdout and, when logging.file is set, to a rotating file.
func NewFromConfig(cfg config.LoggingConfig) *Logger {
	if cfg.File == "" {
		return New(cfg.Level)
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return newWithWriter(cfg.Level, io.MultiWriter(os.Stdout, rotating))
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *Logger {
	return newWithWriter("error", io.Discard)
}

func newWithWriter(level string, w io.Writer) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{Logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Printf satisfies gorm's logger.Writer.
func (l *Logger) Printf(format string, args ...any) {
	l.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}
