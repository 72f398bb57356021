package mocks

import (
	"context"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/service"
)

// MockProxyService implements service.ProxyService for testing
type MockProxyService struct {
	ListAPIsFn            func(ctx context.Context, filter service.ListFilter) (*service.ListResult, error)
	GetAPIDocumentationFn func(ctx context.Context, apiID string) (*service.Documentation, error)
	MakeAPICallFn         func(ctx context.Context, intent *domain.CallIntent) (*service.CallResult, error)

	// DefaultError is returned by methods without a function set
	DefaultError error

	// LastIntent is the most recent intent passed to MakeAPICall
	LastIntent *domain.CallIntent
	// LastFilter is the most recent filter passed to ListAPIs
	LastFilter service.ListFilter
}

var _ service.ProxyService = (*MockProxyService)(nil)

// ListAPIs implements service.ProxyService
func (m *MockProxyService) ListAPIs(ctx context.Context, filter service.ListFilter) (*service.ListResult, error) {
	m.LastFilter = filter
	if m.ListAPIsFn != nil {
		return m.ListAPIsFn(ctx, filter)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return &service.ListResult{APIs: []service.APISummary{}}, nil
}

// GetAPIDocumentation implements service.ProxyService
func (m *MockProxyService) GetAPIDocumentation(ctx context.Context, apiID string) (*service.Documentation, error) {
	if m.GetAPIDocumentationFn != nil {
		return m.GetAPIDocumentationFn(ctx, apiID)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return &service.Documentation{ID: apiID, Name: apiID}, nil
}

// MakeAPICall implements service.ProxyService
func (m *MockProxyService) MakeAPICall(ctx context.Context, intent *domain.CallIntent) (*service.CallResult, error) {
	m.LastIntent = intent
	if m.MakeAPICallFn != nil {
		return m.MakeAPICallFn(ctx, intent)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return &service.CallResult{StatusCode: 200, APIID: intent.APIID, Endpoint: intent.Endpoint}, nil
}
