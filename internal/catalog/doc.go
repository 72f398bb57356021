// Package catalog assembles the immutable set of API descriptions served by
// the proxy. A Builder validates and registers descriptions from several
// sources (the embedded builtin set, the database, description files and
// OpenAPI documents) and produces a Catalog that is safe for concurrent reads.
package catalog
