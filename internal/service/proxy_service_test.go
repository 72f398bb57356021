package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/events"
	"github.com/phrazzld/anyapi/internal/mocks"
	"github.com/phrazzld/anyapi/internal/proxy"
	"github.com/phrazzld/anyapi/internal/service"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type recordingHandler struct {
	mu     sync.Mutex
	events []*events.CallCompletedEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, e *events.CallCompletedEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return h.err
}

func (h *recordingHandler) all() []*events.CallCompletedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*events.CallCompletedEvent(nil), h.events...)
}

func testCatalog(t *testing.T, baseURL string) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder(discard())
	require.NoError(t, b.RegisterAll([]*domain.Description{
		{
			ID:          "jsonplaceholder",
			Name:        "JSONPlaceholder",
			Description: "Free fake REST API for testing and prototyping",
			BaseURL:     baseURL,
			Endpoints: []domain.Endpoint{
				{
					Name:            "list_posts",
					Path:            "/posts",
					Method:          domain.MethodGet,
					Description:     "List posts",
					QueryParameters: []domain.Parameter{{Name: "_limit", Type: "number"}},
					ExampleRequest:  map[string]any{"queryParams": map[string]any{"_limit": 5}},
				},
				{
					Name:   "create_post",
					Path:   "/posts",
					Method: domain.MethodPost,
					BodyParameters: []domain.Parameter{
						{Name: "title", Type: "string", Required: true, Description: "Post title"},
					},
				},
			},
		},
		{
			ID:             "newsapi",
			Name:           "NewsAPI",
			Description:    "News articles from thousands of sources",
			BaseURL:        "https://newsapi.org/v2",
			RequiresAuth:   true,
			AuthScheme:     domain.AuthAPIKeyHeader,
			AuthHeaderName: "X-Api-Key",
			RateLimit:      &domain.RateLimit{RequestsPerMinute: 100, RequestsPerDay: 1000},
			CommonHeaders:  map[string]string{"X-Secret-Header": "do-not-list"},
			Endpoints: []domain.Endpoint{
				{Name: "top_headlines", Path: "/top-headlines", Method: domain.MethodGet},
			},
		},
		{
			ID:          "coingecko",
			Name:        "CoinGecko",
			Description: "Cryptocurrency prices and market data",
			BaseURL:     "https://api.coingecko.com/api/v3",
			Endpoints: []domain.Endpoint{
				{Name: "ping", Path: "/ping", Method: domain.MethodGet},
			},
		},
	}))
	return b.Build()
}

func newService(t *testing.T, cat *catalog.Catalog, exec proxy.Executor) (service.ProxyService, *recordingHandler) {
	t.Helper()
	emitter := events.NewInMemoryEventEmitter(discard())
	handler := &recordingHandler{}
	emitter.RegisterHandler(handler)
	svc, err := service.NewProxyService(cat, exec, emitter, discard(), proxy.BuildOptions{})
	require.NoError(t, err)
	return svc, handler
}

func boolPtr(b bool) *bool { return &b }

func TestNewProxyService(t *testing.T) {
	_, err := service.NewProxyService(nil, &mocks.MockExecutor{}, nil, nil, proxy.BuildOptions{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.NewProxyService(testCatalog(t, "https://x.example.com"), nil, nil, nil, proxy.BuildOptions{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewProxyService(testCatalog(t, "https://x.example.com"), &mocks.MockExecutor{}, nil, nil, proxy.BuildOptions{})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestListAPIs(t *testing.T) {
	svc, _ := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), &mocks.MockExecutor{})
	ctx := context.Background()

	tests := []struct {
		name          string
		filter        service.ListFilter
		wantIDs       []string
		authenticated int
		public        int
	}{
		{"no filter", service.ListFilter{}, []string{"jsonplaceholder", "newsapi", "coingecko"}, 1, 2},
		{"public only", service.ListFilter{RequiresAuth: boolPtr(false)}, []string{"jsonplaceholder", "coingecko"}, 0, 2},
		{"authenticated only", service.ListFilter{RequiresAuth: boolPtr(true)}, []string{"newsapi"}, 1, 0},
		{"category is case-insensitive", service.ListFilter{Category: "CRYPTO"}, []string{"coingecko"}, 0, 1},
		{"category matches description only", service.ListFilter{Category: "coingecko"}, nil, 0, 0},
		{"filters combine", service.ListFilter{Category: "news", RequiresAuth: boolPtr(false)}, nil, 0, 0},
		{"search matches description", service.ListFilter{Search: "PRICES"}, []string{"coingecko"}, 0, 1},
		{"search matches id", service.ListFilter{Search: "json"}, []string{"jsonplaceholder"}, 0, 1},
		{"blank search ignored", service.ListFilter{Search: "  "}, []string{"jsonplaceholder", "newsapi", "coingecko"}, 1, 2},
		{"search with auth filter", service.ListFilter{Search: "news", RequiresAuth: boolPtr(true)}, []string{"newsapi"}, 1, 0},
		{"search excluded by auth filter", service.ListFilter{Search: "news", RequiresAuth: boolPtr(false)}, nil, 0, 0},
		{"search no match", service.ListFilter{Search: "weather"}, nil, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := svc.ListAPIs(ctx, tc.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(result.APIs))
			for _, a := range result.APIs {
				ids = append(ids, a.ID)
			}
			if tc.wantIDs == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tc.wantIDs, ids)
			}
			assert.Equal(t, len(ids), result.Total)
			assert.Equal(t, tc.authenticated, result.Authenticated)
			assert.Equal(t, tc.public, result.Public)
		})
	}

	t.Run("summary shape hides common headers", func(t *testing.T) {
		result, err := svc.ListAPIs(ctx, service.ListFilter{RequiresAuth: boolPtr(true)})
		require.NoError(t, err)

		raw, err := json.Marshal(result)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "do-not-list")

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, float64(1), decoded["total"])
		api := decoded["apis"].([]any)[0].(map[string]any)
		assert.Equal(t, "api_key_header", api["authType"])
		assert.Equal(t, float64(1), api["endpointCount"])
		assert.Equal(t, "https://newsapi.org/v2", api["baseUrl"])
		assert.NotNil(t, api["rateLimit"])
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		first, err := svc.ListAPIs(ctx, service.ListFilter{})
		require.NoError(t, err)
		second, err := svc.ListAPIs(ctx, service.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, first, second)

		firstRaw, err := json.Marshal(first)
		require.NoError(t, err)
		secondRaw, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, string(firstRaw), string(secondRaw))
	})
}

func TestGetAPIDocumentation(t *testing.T) {
	svc, _ := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), &mocks.MockExecutor{})
	ctx := context.Background()

	t.Run("public api", func(t *testing.T) {
		doc, err := svc.GetAPIDocumentation(ctx, "jsonplaceholder")
		require.NoError(t, err)

		assert.Equal(t, "JSONPlaceholder", doc.Name)
		assert.False(t, doc.Authentication.Required)
		assert.Equal(t, domain.AuthNone, doc.Authentication.Type)
		assert.Equal(t, "No authentication required - this is a public API", doc.Authentication.Instructions)
		assert.Equal(t, service.RateLimitNote{Note: "No rate limit information available"}, doc.RateLimit)
		assert.NotNil(t, doc.CommonHeaders)
		assert.Equal(t, 2, doc.TotalEndpoints)

		list := doc.Endpoints[0]
		assert.Equal(t, "list_posts", list.Name)
		assert.Len(t, list.Parameters.Query, 1)
		assert.NotNil(t, list.Parameters.Path)
		assert.NotNil(t, list.Parameters.Body)
		assert.Equal(t, service.ToolMakeAPICall, list.Usage.Tool)
		assert.Equal(t, map[string]any{
			"apiId":       "jsonplaceholder",
			"endpoint":    "list_posts",
			"method":      domain.MethodGet,
			"queryParams": map[string]any{"_limit": 5},
		}, list.Usage.Args)

		assert.Nil(t, doc.Endpoints[1].ExampleRequest)
		raw, err := json.Marshal(doc.Endpoints[1])
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"exampleRequest":null`)
	})

	t.Run("authenticated api", func(t *testing.T) {
		doc, err := svc.GetAPIDocumentation(ctx, "newsapi")
		require.NoError(t, err)

		assert.True(t, doc.Authentication.Required)
		assert.Equal(t, "X-Api-Key", doc.Authentication.HeaderName)
		assert.Equal(t,
			"Provide API key/token in 'accessToken' parameter. Auth type: api_key_header",
			doc.Authentication.Instructions)
		assert.Equal(t, &domain.RateLimit{RequestsPerMinute: 100, RequestsPerDay: 1000}, doc.RateLimit)
		assert.Equal(t, "do-not-list", doc.CommonHeaders["X-Secret-Header"])
	})

	t.Run("unknown api", func(t *testing.T) {
		_, err := svc.GetAPIDocumentation(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUnknownAPI)
		assert.EqualError(t, err, "API 'nope' not found. Available APIs: jsonplaceholder, newsapi, coingecko")
	})

	t.Run("repeated calls are identical", func(t *testing.T) {
		for _, id := range []string{"jsonplaceholder", "newsapi"} {
			first, err := svc.GetAPIDocumentation(ctx, id)
			require.NoError(t, err)
			second, err := svc.GetAPIDocumentation(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, first, second, id)

			firstRaw, err := json.Marshal(first)
			require.NoError(t, err)
			secondRaw, err := json.Marshal(second)
			require.NoError(t, err)
			assert.Equal(t, string(firstRaw), string(secondRaw), id)
		}
	})
}

func TestMakeAPICallEndToEnd(t *testing.T) {
	var gotURL, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	}))
	defer srv.Close()

	exec := proxy.NewHTTPExecutor(proxy.ExecutorConfig{Timeout: 5 * time.Second}, discard())
	svc, handler := newService(t, testCatalog(t, srv.URL), exec)

	intent := &domain.CallIntent{
		APIID:    "jsonplaceholder",
		Endpoint: "/posts",
		Method:   domain.MethodGet,
	}
	require.NoError(t, json.Unmarshal([]byte(`{"_limit":5}`), &intent.QueryParams))

	result, err := svc.MakeAPICall(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, "/posts?_limit=5", gotURL)
	assert.Empty(t, gotAuth)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, "jsonplaceholder", result.APIID)
	assert.Equal(t, "/posts", result.Endpoint)
	assert.Equal(t, service.APIRef{ID: "jsonplaceholder", Name: "JSONPlaceholder"}, result.API)
	assert.WithinDuration(t, time.Now(), result.Metadata.Timestamp, 5*time.Second)

	recorded := handler.all()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.OutcomeSuccess, recorded[0].Outcome)
	assert.Equal(t, http.StatusOK, recorded[0].StatusCode)
	assert.Equal(t, "GET", recorded[0].Method)
}

func TestMakeAPICallErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown api does not execute", func(t *testing.T) {
		exec := &mocks.MockExecutor{}
		svc, handler := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		_, err := svc.MakeAPICall(ctx, &domain.CallIntent{APIID: "nope", Endpoint: "x"})
		assert.ErrorIs(t, err, domain.ErrUnknownAPI)
		assert.EqualError(t, err, "API 'nope' not found in registry. "+
			"Use 'list_available_apis' tool to see available APIs. Available: jsonplaceholder, newsapi, coingecko")
		assert.Empty(t, exec.Requests())
		assert.Empty(t, handler.all())
	})

	t.Run("missing credential", func(t *testing.T) {
		exec := &mocks.MockExecutor{}
		svc, _ := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		_, err := svc.MakeAPICall(ctx, &domain.CallIntent{APIID: "newsapi", Endpoint: "top_headlines"})
		assert.ErrorIs(t, err, domain.ErrMissingCredential)
		var callErr *service.CallError
		require.ErrorAs(t, err, &callErr)
		assert.EqualError(t, err, "Failed to execute API call: API 'NewsAPI' requires authentication. "+
			"Please provide an accessToken. Auth type: api_key_header")
		assert.Empty(t, exec.Requests())
	})

	t.Run("missing body parameter", func(t *testing.T) {
		exec := &mocks.MockExecutor{}
		svc, _ := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		_, err := svc.MakeAPICall(ctx, &domain.CallIntent{
			APIID:    "jsonplaceholder",
			Endpoint: "create_post",
			Body:     json.RawMessage(`{"body":"x"}`),
		})
		var missing *domain.MissingParameterError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, domain.LocationBody, missing.Location)
		assert.Empty(t, exec.Requests())
	})

	t.Run("invalid method override", func(t *testing.T) {
		exec := &mocks.MockExecutor{}
		svc, _ := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		_, err := svc.MakeAPICall(ctx, &domain.CallIntent{APIID: "jsonplaceholder", Endpoint: "list_posts", Method: "TRACE"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("lowercase method override is accepted without mutating the intent", func(t *testing.T) {
		exec := &mocks.MockExecutor{}
		svc, _ := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		intent := &domain.CallIntent{APIID: "jsonplaceholder", Endpoint: "list_posts", Method: "delete"}
		_, err := svc.MakeAPICall(ctx, intent)
		require.NoError(t, err)
		assert.Equal(t, domain.MethodDelete, exec.LastRequest().Method)
		assert.Equal(t, domain.HTTPMethod("delete"), intent.Method)
	})

	t.Run("upstream error status", func(t *testing.T) {
		exec := &mocks.MockExecutor{Response: &domain.NormalizedResponse{
			StatusCode: http.StatusNotFound,
			Body:       map[string]any{"message": "Not Found"},
			ElapsedMs:  12,
		}}
		svc, handler := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		_, err := svc.MakeAPICall(ctx, &domain.CallIntent{APIID: "coingecko", Endpoint: "ping"})

		var upstream *domain.UpstreamHTTPError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
		assert.Equal(t, map[string]any{"message": "Not Found"}, upstream.Body)
		assert.Equal(t, "coingecko", upstream.Response.APIID)
		assert.Equal(t, "API returned error status 404. Response: {\n  \"message\": \"Not Found\"\n}", err.Error())

		recorded := handler.all()
		require.Len(t, recorded, 1)
		assert.Equal(t, events.OutcomeUpstreamError, recorded[0].Outcome)
		assert.Equal(t, int64(12), recorded[0].DurationMs)
	})

	t.Run("network error", func(t *testing.T) {
		netErr := &domain.NetworkError{Err: errors.New("dial tcp: connection refused"), Elapsed: 7 * time.Millisecond}
		exec := &mocks.MockExecutor{Err: netErr}
		svc, handler := newService(t, testCatalog(t, "https://jsonplaceholder.typicode.com"), exec)

		_, err := svc.MakeAPICall(ctx, &domain.CallIntent{
			APIID:       "newsapi",
			Endpoint:    "top_headlines",
			AccessToken: "k1",
		})
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to execute API call: "), err.Error())
		assert.Equal(t, "k1", exec.LastRequest().Header.Get("X-Api-Key"))

		recorded := handler.all()
		require.Len(t, recorded, 1)
		assert.Equal(t, events.OutcomeNetworkError, recorded[0].Outcome)
		assert.Equal(t, int64(7), recorded[0].DurationMs)
		assert.Zero(t, recorded[0].StatusCode)
		assert.NotContains(t, recorded[0].Error, "k1")
	})

	t.Run("event handler failure does not affect the result", func(t *testing.T) {
		emitter := events.NewInMemoryEventEmitter(discard())
		emitter.RegisterHandler(&recordingHandler{err: errors.New("sink down")})
		svc, err := service.NewProxyService(
			testCatalog(t, "https://jsonplaceholder.typicode.com"),
			&mocks.MockExecutor{},
			emitter,
			discard(),
			proxy.BuildOptions{},
		)
		require.NoError(t, err)

		result, err := svc.MakeAPICall(ctx, &domain.CallIntent{APIID: "coingecko", Endpoint: "ping"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, result.StatusCode)
	})
}

func TestLookupTool(t *testing.T) {
	tool, err := service.LookupTool("list_available_apis")
	require.NoError(t, err)
	assert.Equal(t, service.ToolListAvailableAPIs, tool.Name)

	_, err = service.LookupTool("delete_everything")
	assert.ErrorIs(t, err, service.ErrUnknownTool)
	assert.EqualError(t, err,
		"Unknown tool: delete_everything. Available tools: make_api_call, list_available_apis, get_api_documentation")
}
