package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/store"
)

// MockDescriptionStore implements store.DescriptionStore for testing
type MockDescriptionStore struct {
	ListFn   func(ctx context.Context) ([]*domain.Description, error)
	GetFn    func(ctx context.Context, id string) (*domain.Description, error)
	UpsertFn func(ctx context.Context, d *domain.Description) error
	DeleteFn func(ctx context.Context, id string) error
	WithTxFn func(tx *sql.Tx) store.DescriptionStore

	// DefaultError is returned by methods without a function set
	DefaultError error
}

var _ store.DescriptionStore = (*MockDescriptionStore)(nil)

// List implements store.DescriptionStore
func (m *MockDescriptionStore) List(ctx context.Context) ([]*domain.Description, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, m.DefaultError
}

// Get implements store.DescriptionStore
func (m *MockDescriptionStore) Get(ctx context.Context, id string) (*domain.Description, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, store.ErrDescriptionNotFound
}

// Upsert implements store.DescriptionStore
func (m *MockDescriptionStore) Upsert(ctx context.Context, d *domain.Description) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, d)
	}
	return m.DefaultError
}

// Delete implements store.DescriptionStore
func (m *MockDescriptionStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.DefaultError
}

// WithTx implements store.DescriptionStore. Without WithTxFn the mock returns itself.
func (m *MockDescriptionStore) WithTx(tx *sql.Tx) store.DescriptionStore {
	if m.WithTxFn != nil {
		return m.WithTxFn(tx)
	}
	return m
}
