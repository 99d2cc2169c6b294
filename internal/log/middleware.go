package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// WithContext stores logger in ctx for handlers further down the chain.
func WithContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// StatusLevel maps a response status to a log level: 5xx is an error, 4xx a
// warning, everything else info.
func StatusLevel(statusCode int) slog.Level {
	switch {
	case statusCode >= 500:
		return slog.LevelError
	case statusCode >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LogHTTPStart logs the start of an HTTP request at debug level
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)
	fields["content_length"] = r.ContentLength

	sl.logger.Log(ctx, slog.LevelDebug, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs the completion of an HTTP request at a status-dependent level
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, duration time.Duration, clientIP string) {
	fields := NewFields().
		WithHTTPResponse(statusCode, duration.Milliseconds(), statusCode < 400).
		WithClientIP(clientIP).
		WithComponent(ComponentTrace)
	fields[FieldMethod] = r.Method
	fields[FieldPath] = r.URL.Path
	fields[FieldDurationHuman] = duration.String()

	sl.logger.Log(ctx, StatusLevel(statusCode), "HTTP request completed", fields.ToSlice()...)
}

// LogTransactionChanged logs a successful transaction write
func (sl *StructuredLogger) LogTransactionChanged(ctx context.Context, op string, id int64, kind, amount string, categoryID *int64) {
	fields := NewFields().
		WithTransaction(id, kind, amount, categoryID).
		WithOperation(op).
		WithComponent(ComponentTransaction)

	sl.logger.Log(ctx, slog.LevelInfo, "Transaction saved", fields.ToSlice()...)
}

// LogRequestError logs a failed request with the status it was answered with
func (sl *StructuredLogger) LogRequestError(ctx context.Context, err error, component, operation string, statusCode int) {
	fields := NewFields().
		WithError(err).
		WithErrorType(ErrorTypeForStatus(statusCode)).
		WithOperation(operation).
		WithComponent(component)
	fields[FieldStatusCode] = statusCode

	sl.logger.Log(ctx, StatusLevel(statusCode), "Request failed", fields.ToSlice()...)
}

// ErrorTypeForStatus classifies an HTTP error status.
func ErrorTypeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrorTypeValidation
	case http.StatusForbidden:
		return ErrorTypeForbidden
	case http.StatusNotFound:
		return ErrorTypeNotFound
	default:
		return ErrorTypeInternal
	}
}
