package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is what a fake upstream received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	// RawQuery preserves parameter order.
	RawQuery string
	Header   http.Header
	Body     []byte
}

// UpstreamRecorder is a fake upstream API that records every request and
// answers with a fixed status and body.
type UpstreamRecorder struct {
	server *httptest.Server

	mu          sync.Mutex
	requests    []RecordedRequest
	status      int
	body        string
	contentType string
}

// NewUpstreamRecorder starts a fake upstream replying with status and body.
// The server is closed when the test ends.
func NewUpstreamRecorder(t *testing.T, status int, body string) *UpstreamRecorder {
	t.Helper()
	u := &UpstreamRecorder{status: status, body: body, contentType: "application/json"}
	u.server = CreateTestServer(t, http.HandlerFunc(u.serve))
	return u
}

func (u *UpstreamRecorder) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.requests = append(u.requests, RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    r.URL.Query(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     raw,
	})
	status, body, contentType := u.status, u.body, u.contentType
	u.mu.Unlock()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// URL returns the base URL of the fake upstream.
func (u *UpstreamRecorder) URL() string { return u.server.URL }

// Respond changes the reply for subsequent requests.
func (u *UpstreamRecorder) Respond(status int, body, contentType string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status, u.body, u.contentType = status, body, contentType
}

// Requests returns a copy of everything received so far.
func (u *UpstreamRecorder) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]RecordedRequest(nil), u.requests...)
}

// LastRequest returns the most recent request, or nil when none arrived.
func (u *UpstreamRecorder) LastRequest() *RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return nil
	}
	last := u.requests[len(u.requests)-1]
	return &last
}
