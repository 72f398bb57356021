// Package logger provides structured logging for the proxy using log/slog.
// It configures the process-wide JSON logger, carries request-scoped loggers
// through context.Context, and offers buffer-backed loggers for tests.
package logger
