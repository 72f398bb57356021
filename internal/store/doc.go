// Package store defines the persistence contract for API descriptions.
// Implementations live under internal/platform; the catalog and the CLI
// depend only on the interfaces declared here.
package store
