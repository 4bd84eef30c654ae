package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog with the structured fields every log entry carries
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger for the given service name
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID generates a unique request identifier
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// Info logs at info level with optional extra fields
func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, fields, nil)
}

// Debug logs at debug level with optional extra fields
func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, fields, nil)
}

// Error logs at error level, attaching the error message and a stack trace
func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	l.log(slog.LevelError, action, message, requestID, fields, err)
}

func (l *Logger) log(level slog.Level, action, message, requestID string, fields map[string]interface{}, err error) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}

	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		))
	}

	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}
