// Package postgres provides the PostgreSQL implementation of
// store.DescriptionStore together with the embedded goose migrations that
// create its schema.
//
// Descriptions are stored whole as jsonb in the api_descriptions table, keyed
// by API id. The store works on any store.DBTX, so it can run inside a
// transaction started by store.RunInTransaction.
package postgres
