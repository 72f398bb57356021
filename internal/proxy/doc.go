// Package proxy turns a call intent into an upstream HTTP exchange.
//
// The pipeline has three stages. Validate checks an intent against an API
// description without any I/O. Build produces the outbound request (URL,
// headers, body) and never fails. An Executor performs the request and
// returns a NormalizedResponse; only transport failures are errors, an
// upstream 4xx or 5xx is a normal result.
package proxy
