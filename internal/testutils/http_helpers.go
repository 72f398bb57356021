package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/anyapi/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateTestServer creates a httptest server with the given handler.
// Automatically registers cleanup via t.Cleanup() so callers don't need to manually close the server.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
	})
	return server
}

// DoRequest sends body (a string, []byte, or anything JSON-encodable; nil for
// none) to server and returns the response. Extra headers are applied in
// pairs: key, value, key, value.
func DoRequest(t *testing.T, server *httptest.Server, method, path string, body any, headers ...string) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err, "Failed to create request")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	CleanupResponseBody(t, resp)
	return resp
}

// CleanupResponseBody registers a cleanup function to close the response body.
func CleanupResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp != nil && resp.Body != nil {
		t.Cleanup(func() {
			if err := resp.Body.Close(); err != nil {
				t.Logf("Warning: failed to close response body: %v", err)
			}
		})
	}
}

// DecodeEnvelope reads the response envelope. When data is non-nil the
// envelope's data is decoded into it.
func DecodeEnvelope(t *testing.T, resp *http.Response, data any) shared.Envelope {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	var env struct {
		shared.Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env), "Failed to unmarshal envelope: %s", string(raw))

	if data != nil {
		require.NotEmpty(t, env.Data, "Envelope carries no data: %s", string(raw))
		require.NoError(t, json.Unmarshal(env.Data, data), "Failed to unmarshal envelope data")
	}
	return env.Envelope
}

// AssertErrorResponse checks that a response is a failed envelope with the
// expected status code and a message containing expectedErrorMsgPart.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedErrorMsgPart string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode,
		"Expected status code %d but got %d", expectedStatus, resp.StatusCode)

	env := DecodeEnvelope(t, resp, nil)
	assert.False(t, env.Success, "Expected a failed envelope")
	assert.Contains(t, env.Error, expectedErrorMsgPart,
		"Error message should contain '%s' but got '%s'", expectedErrorMsgPart, env.Error)
}
