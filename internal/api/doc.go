// Package api exposes the proxy over HTTP. It decodes and validates raw
// input at the boundary, dispatches to service.ProxyService, and wraps every
// outcome in the {success, data, error} envelope. Catalog queries, upstream
// calls and named tool invocations share the same handler.
package api
