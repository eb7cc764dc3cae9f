package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// InitLogger configures the process logger. Only the first call takes effect.
func InitLogger(format, level string) {
	once.Do(func() {
		logger = New(os.Stdout, format, level)
	})
}

func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger("text", "info")
	}
	return logger
}

func New(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				attr.Value = slog.StringValue(attr.Value.Time().Format("2006-01-02T15:04:05"))
			}
			return attr
		},
	}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func StringField(key, value string) slog.Attr {
	return slog.String(key, value)
}

func IntField(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func DurationField(key string, value time.Duration) slog.Attr {
	return slog.String(key, value.String())
}

func ErrorField(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
