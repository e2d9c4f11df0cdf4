// Package logger provides structured logging for the application using the
// standard library log/slog package: JSON handler setup from configuration
// and propagation of request-scoped loggers through context.Context.
package logger
