package infrastructure

import (
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID returns a new random trace ID (UUID v4), used as the
// batch run ID
func GenerateTraceID() string {
	return uuid.New().String()
}

// WithComponent tags every record of logger with component
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}
