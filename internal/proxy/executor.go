package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/platform/logger"
	"github.com/phrazzld/anyapi/internal/redact"
)

// Executor performs outbound requests.
type Executor interface {
	// Execute dispatches req and returns the normalized response. The error is
	// a *domain.NetworkError on transport failure and nil for any HTTP status.
	Execute(ctx context.Context, req *OutboundRequest) (*domain.NormalizedResponse, error)
}

// ExecutorConfig bounds outbound calls.
type ExecutorConfig struct {
	// Timeout covers dispatch and reading the full body.
	Timeout time.Duration
	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64
}

// HTTPExecutor is the net/http implementation of Executor.
type HTTPExecutor struct {
	client *http.Client
	cfg    ExecutorConfig
	logger *slog.Logger
	now    func() time.Time
}

var _ Executor = (*HTTPExecutor)(nil)

// NewHTTPExecutor creates an executor on a pooled client with no
// client-level timeout; each call gets its own deadline from cfg.Timeout.
func NewHTTPExecutor(cfg ExecutorConfig, logger *slog.Logger) *HTTPExecutor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPExecutor{
		client: cleanhttp.DefaultPooledClient(),
		cfg:    cfg,
		logger: logger.With("component", "http_executor"),
		now:    time.Now,
	}
}

// Execute implements Executor. Cancelling ctx does not abort a dispatched
// call; only the configured timeout does.
func (e *HTTPExecutor) Execute(ctx context.Context, req *OutboundRequest) (*domain.NormalizedResponse, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(callCtx, string(req.Method), req.URL, body)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	httpReq.Header = req.Header.Clone()

	log.Debug("dispatching upstream request",
		"method", req.Method,
		"url", redact.URL(req.URL))

	start := e.now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		elapsed := e.now().Sub(start)
		log.Warn("upstream request failed",
			"method", req.Method,
			"url", redact.URL(req.URL),
			"elapsed_ms", elapsed.Milliseconds(),
			"error", redact.Error(err))
		return nil, &domain.NetworkError{Err: err, Elapsed: elapsed}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBodyBytes))
	elapsed := e.now().Sub(start)
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("reading response body: %w", err), Elapsed: elapsed}
	}

	log.Debug("upstream request completed",
		"method", req.Method,
		"status", resp.StatusCode,
		"elapsed_ms", elapsed.Milliseconds(),
		"bytes", len(raw))

	return &domain.NormalizedResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       parseBody(raw),
		ElapsedMs:  elapsed.Milliseconds(),
	}, nil
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}

// parseBody decodes JSON when possible and falls back to the raw text.
func parseBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return string(raw)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(raw)
	}
	return v
}
