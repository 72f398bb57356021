package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/proxy"
)

// MockExecutor implements proxy.Executor and records every request it receives.
type MockExecutor struct {
	ExecuteFn func(ctx context.Context, req *proxy.OutboundRequest) (*domain.NormalizedResponse, error)

	// Response and Err are returned when ExecuteFn is nil
	Response *domain.NormalizedResponse
	Err      error

	mu       sync.Mutex
	requests []*proxy.OutboundRequest
}

var _ proxy.Executor = (*MockExecutor)(nil)

// Execute implements proxy.Executor
func (m *MockExecutor) Execute(ctx context.Context, req *proxy.OutboundRequest) (*domain.NormalizedResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response == nil {
		return &domain.NormalizedResponse{StatusCode: 200, Headers: map[string]string{}}, nil
	}
	resp := *m.Response
	return &resp, nil
}

// Requests returns the requests received so far.
func (m *MockExecutor) Requests() []*proxy.OutboundRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*proxy.OutboundRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (m *MockExecutor) LastRequest() *proxy.OutboundRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
