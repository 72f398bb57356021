// Package events carries notifications about completed upstream calls.
//
// The proxy service emits a CallCompletedEvent after every executed call,
// whether the upstream answered successfully, answered with an error status,
// or could not be reached. Handlers subscribe through an EventEmitter and never
// influence the result returned to the caller.
//
// The primary components are:
// - CallCompletedEvent: the record of one executed call
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
// - LoggingHandler: writes one structured log line per event
package events
