// Package service contains the application use cases of the proxy.
//
// ProxyService is the single dispatch point used by every delivery mechanism
// (the HTTP API and the anyapi CLI). It resolves API descriptions from the
// catalog, validates call intents, builds and executes outbound requests, and
// shapes the results returned to callers:
//
//   - ListAPIs summarizes the catalog, optionally filtered by category and
//     authentication requirement.
//   - GetAPIDocumentation renders the full documentation of one API, including
//     a ready-to-use make_api_call stanza per endpoint.
//   - MakeAPICall runs validate, build and execute, and turns upstream error
//     statuses into domain.UpstreamHTTPError.
//
// Every executed call, successful or not, is reported as an
// events.CallCompletedEvent. Errors returned by this package are the domain
// taxonomy from internal/domain, which callers inspect with errors.Is/As.
//
// The auth subpackage handles inbound authentication of API clients.
package service
