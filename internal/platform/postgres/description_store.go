package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/platform/logger"
	"github.com/phrazzld/anyapi/internal/store"
)

// PostgresDescriptionStore implements the store.DescriptionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDescriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresDescriptionStore implements store.DescriptionStore interface
var _ store.DescriptionStore = (*PostgresDescriptionStore)(nil)

// NewPostgresDescriptionStore creates a new PostgreSQL implementation of the
// DescriptionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDescriptionStore(db store.DBTX, logger *slog.Logger) *PostgresDescriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDescriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "description_store")),
	}
}

// List implements store.DescriptionStore.List
func (s *PostgresDescriptionStore) List(ctx context.Context) ([]*domain.Description, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, definition FROM api_descriptions ORDER BY id`)
	if err != nil {
		log.Error("failed to list api descriptions", slog.String("error", err.Error()))
		return nil, store.NewStoreError("api_description", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Description
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, store.NewStoreError("api_description", "list", "scan failed", MapError(err))
		}
		d, err := decodeDefinition(id, raw)
		if err != nil {
			log.Error("stored api description is unreadable",
				slog.String("api_id", id),
				slog.String("error", err.Error()))
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("api_description", "list", "row iteration failed", MapError(err))
	}

	log.Debug("listed api descriptions", slog.Int("count", len(out)))
	return out, nil
}

// Get implements store.DescriptionStore.Get
// Returns store.ErrDescriptionNotFound if the id is unknown.
func (s *PostgresDescriptionStore) Get(ctx context.Context, id string) (*domain.Description, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT definition FROM api_descriptions WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("api description not found", slog.String("api_id", id))
			return nil, store.ErrDescriptionNotFound
		}
		log.Error("failed to get api description",
			slog.String("api_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("api_description", "get", "query failed", MapError(err))
	}
	return decodeDefinition(id, raw)
}

// Upsert implements store.DescriptionStore.Upsert
// The description is validated first; invalid descriptions are rejected with
// an error wrapping both store.ErrInvalidEntity and domain.ErrInvalidDescription.
func (s *PostgresDescriptionStore) Upsert(ctx context.Context, d *domain.Description) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := d.Validate(); err != nil {
		log.Warn("api description validation failed during upsert",
			slog.String("api_id", d.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return store.NewStoreError("api_description", "upsert", "encode failed", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO api_descriptions (id, definition, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET definition = EXCLUDED.definition, updated_at = NOW()
	`, d.ID, raw)
	if err != nil {
		log.Error("failed to upsert api description",
			slog.String("api_id", d.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("api_description", "upsert", "exec failed", MapError(err))
	}

	log.Info("api description stored",
		slog.String("api_id", d.ID),
		slog.Int("endpoint_count", len(d.Endpoints)))
	return nil
}

// Delete implements store.DescriptionStore.Delete
// Returns store.ErrDescriptionNotFound if the id is unknown.
func (s *PostgresDescriptionStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM api_descriptions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete api description",
			slog.String("api_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("api_description", "delete", "exec failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrDescriptionNotFound); err != nil {
		return err
	}

	log.Info("api description deleted", slog.String("api_id", id))
	return nil
}

// WithTx implements store.DescriptionStore.WithTx
func (s *PostgresDescriptionStore) WithTx(tx *sql.Tx) store.DescriptionStore {
	return &PostgresDescriptionStore{db: tx, logger: s.logger}
}

func decodeDefinition(id string, raw []byte) (*domain.Description, error) {
	var d domain.Description
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, store.NewStoreError("api_description", "decode",
			fmt.Sprintf("definition of %s is not valid JSON", id),
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	if d.ID == "" {
		d.ID = id
	}
	return &d, nil
}
