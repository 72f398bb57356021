// Package mocks holds hand-written test doubles for the interfaces that sit
// between layers: the upstream Executor, the ProxyService behind the HTTP
// handlers, the JWTService used by the auth middleware, and the
// DescriptionStore read by the catalog loader.
//
// Each mock exposes one function field per method. A nil field falls back
// to the preset values on the struct, so tests only set what they assert on:
//
//	exec := &mocks.MockExecutor{
//	    ExecuteFn: func(ctx context.Context, req *proxy.OutboundRequest) (*domain.NormalizedResponse, error) {
//	        return &domain.NormalizedResponse{StatusCode: http.StatusOK}, nil
//	    },
//	}
//
// Calls are recorded where a test needs to inspect what was sent.
package mocks
