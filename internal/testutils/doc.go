// Package testutils provides testing utilities for the proxy.
//
// This package contains helpers for:
//   - building API descriptions and catalogs for tests
//   - standing up fake upstream APIs that record what they receive
//   - executing requests against the HTTP API and asserting envelopes
//
// # Fake upstreams
//
//	up := testutils.NewUpstreamRecorder(t, http.StatusOK, `{"id":1}`)
//	desc := testutils.TestDescription("posts", up.URL(),
//	    testutils.WithEndpoint(domain.Endpoint{Name: "get_post", Path: "/posts/{id}"}),
//	)
//	cat := testutils.TestCatalog(t, desc)
//	// ... make a call through the service or router ...
//	last := up.LastRequest()
package testutils
