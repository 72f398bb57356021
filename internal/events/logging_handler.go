package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/anyapi/internal/platform/logger"
)

// LoggingHandler writes one structured log line per completed call.
type LoggingHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*LoggingHandler)(nil)

// NewLoggingHandler creates a handler logging through logger.
func NewLoggingHandler(l *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: l.With("component", "call_log")}
}

// HandleEvent implements EventHandler. Network failures log at warn level,
// everything else at info.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *CallCompletedEvent) error {
	log := h.logger
	if traceID := logger.TraceID(ctx); traceID != "" {
		log = log.With("trace_id", traceID)
	}

	attrs := []any{
		"event_id", event.ID.String(),
		"api_id", event.APIID,
		"endpoint", event.Endpoint,
		"method", event.Method,
		"outcome", string(event.Outcome),
		"duration_ms", event.DurationMs,
	}
	if event.StatusCode != 0 {
		attrs = append(attrs, "status_code", event.StatusCode)
	}
	if event.Error != "" {
		attrs = append(attrs, "error", event.Error)
	}

	level := slog.LevelInfo
	if event.Outcome == OutcomeNetworkError {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "upstream call completed", attrs...)
	return nil
}
