// Package task runs small units of background work on a fixed pool of
// workers fed by a bounded in-memory queue.
//
// The server uses it to deliver call events to their handlers after the
// response has been written. Nothing is persisted: tasks still queued when
// the process stops are dropped once the shutdown deadline passes.
package task
