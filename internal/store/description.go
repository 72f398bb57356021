package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/anyapi/internal/domain"
)

// DescriptionStore persists API descriptions that extend the builtin catalog.
type DescriptionStore interface {
	// List returns every stored description ordered by id.
	List(ctx context.Context) ([]*domain.Description, error)

	// Get returns one description.
	// Returns ErrDescriptionNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*domain.Description, error)

	// Upsert validates and stores a description, replacing any previous
	// definition with the same id.
	Upsert(ctx context.Context, d *domain.Description) error

	// Delete removes a description.
	// Returns ErrDescriptionNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// WithTx returns a DescriptionStore bound to the given transaction.
	WithTx(tx *sql.Tx) DescriptionStore
}
