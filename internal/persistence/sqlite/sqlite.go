// Package sqlite is a core.Store backed by a single SQLite file.
//
// Each record is one row in master_records: the category fields as a JSON
// document, the system fields as columns. List order is insertion order.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/persistence"
)

//go:embed schema.sql
var schemaSQL string

// Store implements core.Store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the
// schema. An empty path opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		// Pragmas go in the DSN so every pooled connection gets them.
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
			path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == "" {
		// Each :memory: connection is its own database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context, category string) ([]core.Record, error) {
	const q = `SELECT id, data, is_active, created_at, updated_at
		FROM master_records WHERE category = ? ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, q, category)
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
		VALUES (?, ?, ?, ?, ?, ?)`
	created := persistence.Timestamp(stored, core.FieldCreatedAt)
	_, err = s.db.ExecContext(ctx, q,
		stored.ID(), category, string(data), stored[core.FieldIsActive].(bool),
		formatTime(created), formatTime(created),
	)
	if err != nil {
		return nil, persistence.Wrap("create", category, "", err)
	}
	return stored, nil
}

// Update implements core.Store.
func (s *Store) Update(ctx context.Context, category, id string, rec core.Record) (core.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}
	defer tx.Rollback()

	const sel = `SELECT id, data, is_active, created_at, updated_at
		FROM master_records WHERE category = ? AND id = ?`
	existing, err := scanRecord(tx.QueryRowContext(ctx, sel, category, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.Wrap("update", category, id, persistence.ErrNotFound)
	}
	if err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}

	stored := persistence.StampUpdate(existing, rec, s.now())
	data, err := persistence.MarshalFields(stored)
	if err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}

	const upd = `UPDATE master_records SET data = ?, is_active = ?, updated_at = ?
		WHERE category = ? AND id = ?`
	_, err = tx.ExecContext(ctx, upd,
		string(data), stored[core.FieldIsActive].(bool),
		formatTime(persistence.Timestamp(stored, core.FieldUpdatedAt)),
		category, id,
	)
	if err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, persistence.Wrap("update", category, id, err)
	}
	return stored, nil
}

// Delete implements core.Store.
func (s *Store) Delete(ctx context.Context, category, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM master_records WHERE category = ? AND id = ?`, category, id)
	if err != nil {
		return persistence.Wrap("delete", category, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistence.Wrap("delete", category, id, err)
	}
	if n == 0 {
		return persistence.Wrap("delete", category, id, persistence.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (core.Record, error) {
	var (
		id, data, created, updated string
		active                     bool
	)
	if err := row.Scan(&id, &data, &active, &created, &updated); err != nil {
		return nil, err
	}

	rec, err := persistence.UnmarshalRecord([]byte(data))
	if err != nil {
		return nil, err
	}
	return persistence.SetSystem(rec, id, active, parseTime(created), parseTime(updated)), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
