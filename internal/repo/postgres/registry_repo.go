package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Anujpy12345/Scam-exposer-bot-render/internal/services/registry"
)

const createRegistryTable = `
CREATE TABLE IF NOT EXISTS registry_documents (
	name TEXT PRIMARY KEY,
	body JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// dbtx is the part of *pgxpool.Pool the repo uses.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RegistryRepo keeps the registry document in a single named row.
type RegistryRepo struct {
	db   dbtx
	name string
}

func NewRegistryRepo(pool *pgxpool.Pool, name string) *RegistryRepo {
	if pool == nil {
		return &RegistryRepo{name: name}
	}
	return &RegistryRepo{db: pool, name: name}
}

func (r *RegistryRepo) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if _, err := r.db.Exec(ctx, createRegistryTable); err != nil {
		return fmt.Errorf("create registry_documents: %w", err)
	}
	return nil
}

func (r *RegistryRepo) Load(ctx context.Context) ([]int64, error) {
	if r.db == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	var body []byte
	err := r.db.QueryRow(ctx, `
SELECT body::text
FROM registry_documents
WHERE name = $1
`, r.name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select registry document: %w", err)
	}

	return registry.DecodeDocument(body)
}

func (r *RegistryRepo) Save(ctx context.Context, userIDs []int64) error {
	if r.db == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	body, err := registry.EncodeDocument(userIDs)
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, `
INSERT INTO registry_documents (name, body, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (name) DO UPDATE
SET body = EXCLUDED.body,
	updated_at = NOW()
`, r.name, string(body)); err != nil {
		return fmt.Errorf("upsert registry document: %w", err)
	}
	return nil
}
