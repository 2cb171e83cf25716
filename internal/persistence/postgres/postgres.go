// Package postgres is a core.Store backed by a PostgreSQL table with a
// JSONB document per record.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/persistence"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS master_records (
    seq         BIGSERIAL PRIMARY KEY,
    id          UUID NOT NULL UNIQUE,
    category    TEXT NOT NULL,
    data        JSONB NOT NULL,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_master_records_category ON master_records (category, seq);
`

// PoolConfig tunes the connection pool.
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// NewPool connects and pings the database.
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Store implements core.Store.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New applies the schema and returns a store over pool.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool, now: time.Now}, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context, category string) ([]core.Record, error) {
	const q = `SELECT id::text, data, is_active, created_at, updated_at
		FROM master_records WHERE category = $1 ORDER BY seq`

	rows, err := s.pool.Query(ctx, q, category)
	if err != nil {
		return nil, persistence.Wrap("list", category, "", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, persistence.Wrap("list", category, "", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence.Wrap("list", category, "", err)
	}
	return out, nil
}

// Create implements core.Store.
func (s *Store) Create(ctx context.Context, category string, rec core.Record) (core.Record, error) {
	stored := persistence.StampNew(rec, s.now())
	data, err := persistence.MarshalFields(stored)
	if err != nil {
		return nil, persistence.Wrap("create", category, "", err)
	}

	const q = `INSERT INTO master_records (id, category, data, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	created := persistence.Timestamp(stored, core.FieldCreatedAt)
	_, err = s.pool.Exec(ctx, q,
		stored.ID(), category, data, stored[core.FieldIsActive].(bool), created, created)
	if err != nil {
		return nil, persistence.Wrap("create", category, "", err)
	}
	return stored, nil
}

// Update implements core.Store.
func (s *Store) Update(ctx context.Context, category, id string, rec core.Record) (core.Record, error) {
	var stored core.Record
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		const sel = `SELECT id::text, data, is_active, created_at, updated_at
			FROM master_records WHERE category = $1 AND id::text = $2 FOR UPDATE`
		existing, err := scanRecord(tx.QueryRow(ctx, sel, category, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return persistence.ErrNotFound
		}
		if err != nil {
			return err
		}

		stored = persistence.StampUpdate(existing, rec, s.now())
		data, err := persistence.MarshalFields(stored)
		if err != nil {
			return err
		}

		const upd = `UPDATE master_records SET data = $1, is_active = $2, updated_at = $3
			WHERE category = $4 AND id::text = $5`
		_, err = tx.Exec(ctx, upd, data, stored[core.FieldIsActive].(bool),
			persistence.Timestamp(stored, core.FieldUpdatedAt), category, id)
		return err
	})
	if err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}
	return stored, nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, category, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM master_records WHERE category = $1 AND id::text = $2`, category, id)
	if err != nil {
		return persistence.Wrap("delete", category, id, err)
	}
	if tag.RowsAffected() == 0 {
		return persistence.Wrap("delete", category, id, persistence.ErrNotFound)
	}
	return nil
}

func scanRecord(row pgx.Row) (core.Record, error) {
	var (
		id               string
		data             []byte
		active           bool
		created, updated time.Time
	)
	if err := row.Scan(&id, &data, &active, &created, &updated); err != nil {
		return nil, err
	}
	rec, err := persistence.UnmarshalRecord(data)
	if err != nil {
		return nil, err
	}
	return persistence.SetSystem(rec, id, active, created, updated), nil
}
