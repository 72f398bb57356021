package testutils

import (
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/stretchr/testify/require"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DescriptionOption customizes a description built by TestDescription.
type DescriptionOption func(*domain.Description)

// WithName sets the display name.
func WithName(name string) DescriptionOption {
	return func(d *domain.Description) { d.Name = name }
}

// WithDescription sets the free-text description used by category filters.
func WithDescription(text string) DescriptionOption {
	return func(d *domain.Description) { d.Description = text }
}

// WithAuth marks the API as authenticated with the given scheme.
func WithAuth(scheme domain.AuthScheme) DescriptionOption {
	return func(d *domain.Description) {
		d.RequiresAuth = true
		d.AuthScheme = scheme
	}
}

// WithCommonHeaders sets headers sent on every call.
func WithCommonHeaders(headers map[string]string) DescriptionOption {
	return func(d *domain.Description) { d.CommonHeaders = headers }
}

// WithRateLimit attaches advisory rate-limit metadata.
func WithRateLimit(perMinute int) DescriptionOption {
	return func(d *domain.Description) {
		d.RateLimit = &domain.RateLimit{RequestsPerMinute: perMinute}
	}
}

// WithEndpoint appends an endpoint.
func WithEndpoint(ep domain.Endpoint) DescriptionOption {
	return func(d *domain.Description) { d.Endpoints = append(d.Endpoints, ep) }
}

// TestDescription builds a public description pointing at baseURL. Without
// WithEndpoint options it gets a single GET endpoint named "ping" at /ping.
func TestDescription(id, baseURL string, opts ...DescriptionOption) *domain.Description {
	d := &domain.Description{
		ID:          id,
		Name:        id,
		Description: "Test API " + id,
		BaseURL:     baseURL,
		AuthScheme:  domain.AuthNone,
	}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.Endpoints) == 0 {
		d.Endpoints = []domain.Endpoint{{
			Name:        "ping",
			Path:        "/ping",
			Method:      domain.MethodGet,
			Description: "Health check",
		}}
	}
	return d
}

// TestCatalog registers descs in order and returns the built catalog.
func TestCatalog(t *testing.T, descs ...*domain.Description) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder(DiscardLogger())
	require.NoError(t, b.RegisterAll(descs), "Failed to register test descriptions")
	return b.Build()
}
