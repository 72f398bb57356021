package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/events"
	"github.com/phrazzld/anyapi/internal/platform/logger"
	"github.com/phrazzld/anyapi/internal/proxy"
	"github.com/phrazzld/anyapi/internal/redact"
)

// ToolMakeAPICall is the tool name advertised in documentation usage stanzas.
const ToolMakeAPICall = "make_api_call"

// ProxyService dispatches catalog queries and upstream calls.
type ProxyService interface {
	// ListAPIs summarizes the registered APIs matching filter.
	ListAPIs(ctx context.Context, filter ListFilter) (*ListResult, error)

	// GetAPIDocumentation returns the documentation of apiID or a
	// *domain.UnknownAPIError.
	GetAPIDocumentation(ctx context.Context, apiID string) (*Documentation, error)

	// MakeAPICall validates, builds and executes intent. Upstream statuses
	// of 400 and above are returned as *domain.UpstreamHTTPError.
	MakeAPICall(ctx context.Context, intent *domain.CallIntent) (*CallResult, error)
}

// proxyServiceImpl implements the ProxyService interface
type proxyServiceImpl struct {
	catalog   *catalog.Catalog
	executor  proxy.Executor
	emitter   events.EventEmitter
	buildOpts proxy.BuildOptions
	logger    *slog.Logger
	now       func() time.Time
}

var _ ProxyService = (*proxyServiceImpl)(nil)

// NewProxyService creates a new ProxyService.
// It returns an error if the catalog or the executor is nil. A nil emitter
// disables call events.
func NewProxyService(
	cat *catalog.Catalog,
	executor proxy.Executor,
	emitter events.EventEmitter,
	logger *slog.Logger,
	buildOpts proxy.BuildOptions,
) (ProxyService, error) {
	if cat == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil")
	}
	if executor == nil {
		return nil, domain.NewValidationError("executor", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &proxyServiceImpl{
		catalog:   cat,
		executor:  executor,
		emitter:   emitter,
		buildOpts: buildOpts,
		logger:    logger.With(slog.String("component", "proxy_service")),
		now:       time.Now,
	}, nil
}

// ListAPIs implements ProxyService.ListAPIs
func (s *proxyServiceImpl) ListAPIs(ctx context.Context, filter ListFilter) (*ListResult, error) {
	category := strings.ToLower(strings.TrimSpace(filter.Category))

	candidates := s.catalog.List()
	if filter.RequiresAuth != nil {
		candidates = s.catalog.FilterByAuth(*filter.RequiresAuth)
	}
	var found map[string]bool
	if strings.TrimSpace(filter.Search) != "" {
		found = make(map[string]bool)
		for _, d := range s.catalog.Search(filter.Search) {
			found[d.ID] = true
		}
	}

	result := &ListResult{APIs: []APISummary{}}
	for _, d := range candidates {
		if found != nil && !found[d.ID] {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(d.Description), category) {
			continue
		}
		result.APIs = append(result.APIs, summarize(d))
		if d.RequiresAuth {
			result.Authenticated++
		} else {
			result.Public++
		}
	}
	result.Total = len(result.APIs)

	logger.FromContextOrDefault(ctx, s.logger).Debug("listed apis",
		slog.String("category", filter.Category),
		slog.String("search", filter.Search),
		slog.Int("total", result.Total))
	return result, nil
}

func summarize(d *domain.Description) APISummary {
	endpoints := make([]EndpointSummary, 0, len(d.Endpoints))
	for _, ep := range d.Endpoints {
		endpoints = append(endpoints, EndpointSummary{
			Name:        ep.Name,
			Method:      ep.Method,
			Path:        ep.Path,
			Description: ep.Description,
		})
	}
	return APISummary{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		RequiresAuth:  d.RequiresAuth,
		AuthType:      d.AuthScheme,
		BaseURL:       d.BaseURL,
		EndpointCount: len(d.Endpoints),
		Endpoints:     endpoints,
		RateLimit:     d.RateLimit,
	}
}

// GetAPIDocumentation implements ProxyService.GetAPIDocumentation
func (s *proxyServiceImpl) GetAPIDocumentation(ctx context.Context, apiID string) (*Documentation, error) {
	d, err := s.lookup(apiID)
	if err != nil {
		return nil, err
	}

	doc := &Documentation{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		BaseURL:        d.BaseURL,
		Authentication: authenticationDoc(d),
		CommonHeaders:  map[string]string{},
		Endpoints:      make([]EndpointDoc, 0, len(d.Endpoints)),
		TotalEndpoints: len(d.Endpoints),
	}
	if d.RateLimit != nil {
		doc.RateLimit = d.RateLimit
	} else {
		doc.RateLimit = RateLimitNote{Note: "No rate limit information available"}
	}
	for k, v := range d.CommonHeaders {
		doc.CommonHeaders[k] = v
	}
	for _, ep := range d.Endpoints {
		doc.Endpoints = append(doc.Endpoints, endpointDoc(d, ep))
	}
	return doc, nil
}

func authenticationDoc(d *domain.Description) AuthenticationDoc {
	a := AuthenticationDoc{
		Required:     d.RequiresAuth,
		Type:         d.AuthScheme,
		Instructions: "No authentication required - this is a public API",
	}
	if a.Type == "" {
		a.Type = domain.AuthNone
	}
	if a.Type == domain.AuthAPIKeyHeader {
		a.HeaderName = d.HeaderName()
	}
	if d.RequiresAuth {
		a.Instructions = fmt.Sprintf("Provide API key/token in 'accessToken' parameter. Auth type: %s", a.Type)
	}
	return a
}

func endpointDoc(d *domain.Description, ep domain.Endpoint) EndpointDoc {
	args := map[string]any{
		"apiId":    d.ID,
		"endpoint": ep.Name,
		"method":   ep.Method,
	}
	if example, ok := ep.ExampleRequest.(map[string]any); ok {
		for k, v := range example {
			args[k] = v
		}
	}
	return EndpointDoc{
		Name:        ep.Name,
		Method:      ep.Method,
		Path:        ep.Path,
		Description: ep.Description,
		Parameters: ParameterGroups{
			Path:  nonNil(ep.PathParameters),
			Query: nonNil(ep.QueryParameters),
			Body:  nonNil(ep.BodyParameters),
		},
		ExampleRequest:  ep.ExampleRequest,
		ExampleResponse: ep.ExampleResponse,
		Usage:           Usage{Tool: ToolMakeAPICall, Args: args},
	}
}

func nonNil(params []domain.Parameter) []domain.Parameter {
	if params == nil {
		return []domain.Parameter{}
	}
	return params
}

// MakeAPICall implements ProxyService.MakeAPICall
func (s *proxyServiceImpl) MakeAPICall(ctx context.Context, intent *domain.CallIntent) (*CallResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	local := *intent
	intent = &local
	if intent.Method != "" {
		intent.Method = domain.HTTPMethod(strings.ToUpper(string(intent.Method)))
		if !intent.Method.IsValid() {
			return nil, domain.NewValidationError("method",
				"must be one of GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS")
		}
	}

	d, ok := s.catalog.Get(intent.APIID)
	if !ok {
		return nil, &domain.UnknownAPIError{
			ID:        intent.APIID,
			Available: s.catalog.IDs(),
			Hint:      fmt.Sprintf("Use '%s' tool to see available APIs.", ToolListAvailableAPIs),
		}
	}

	ep, err := proxy.Validate(d, intent)
	if err != nil {
		log.Debug("call intent rejected",
			slog.String("api_id", d.ID),
			slog.String("endpoint", intent.Endpoint),
			slog.String("error", err.Error()))
		return nil, &CallError{Err: err}
	}

	req := proxy.Build(d, ep, intent, s.buildOpts)
	resp, err := s.executor.Execute(ctx, req)
	if err != nil {
		event := events.NewCallCompletedEvent(d.ID, intent.Endpoint, string(req.Method), events.OutcomeNetworkError)
		event.Error = redact.Error(err)
		var ne *domain.NetworkError
		if errors.As(err, &ne) {
			event.DurationMs = ne.Elapsed.Milliseconds()
		}
		s.emit(ctx, event)
		return nil, &CallError{Err: err}
	}

	outcome := events.OutcomeSuccess
	if resp.IsError() {
		outcome = events.OutcomeUpstreamError
	}
	event := events.NewCallCompletedEvent(d.ID, intent.Endpoint, string(req.Method), outcome)
	event.StatusCode = resp.StatusCode
	event.DurationMs = resp.ElapsedMs
	s.emit(ctx, event)

	resp.APIID = d.ID
	resp.Endpoint = intent.Endpoint
	if resp.IsError() {
		return nil, &domain.UpstreamHTTPError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Response:   resp,
		}
	}

	return &CallResult{
		StatusCode:     resp.StatusCode,
		Data:           resp.Body,
		ResponseTimeMs: resp.ElapsedMs,
		APIID:          d.ID,
		Endpoint:       intent.Endpoint,
		API:            APIRef{ID: d.ID, Name: d.Name},
		Metadata: CallMetadata{
			Timestamp: s.now().UTC(),
			RateLimit: d.RateLimit,
		},
	}, nil
}

func (s *proxyServiceImpl) lookup(apiID string) (*domain.Description, error) {
	d, ok := s.catalog.Get(apiID)
	if !ok {
		return nil, &domain.UnknownAPIError{ID: apiID, Available: s.catalog.IDs()}
	}
	return d, nil
}

// emit publishes event. Handler failures are logged and never reach the caller.
func (s *proxyServiceImpl) emit(ctx context.Context, event *events.CallCompletedEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit call event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}
