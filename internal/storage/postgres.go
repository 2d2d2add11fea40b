package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	createTableQuery = `
		CREATE TABLE IF NOT EXISTS local_storage (
			namespace  TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (namespace, key)
		)
	`
	getValueQuery = `SELECT value FROM local_storage WHERE namespace = $1 AND key = $2`
	upsertQuery   = `
		INSERT INTO local_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	removeKeysQuery = `DELETE FROM local_storage WHERE namespace = $1 AND key = ANY($2)`
	clearQuery      = `DELETE FROM local_storage WHERE namespace = $1`
)

// PostgresStorage shares console state through a Postgres table, one
// namespace per console profile.
type PostgresStorage struct {
	db        *sql.DB
	namespace string
}

func NewPostgresStorage(db *sql.DB, namespace string) *PostgresStorage {
	return &PostgresStorage{db: db, namespace: namespace}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("create local_storage table: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getValueQuery, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	_, err := s.db.ExecContext(ctx, upsertQuery, s.namespace, key, value, time.Now().UTC())
	return err
}

func (s *PostgresStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, removeKeysQuery, s.namespace, pq.Array(keys))
	return err
}

func (s *PostgresStorage) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, clearQuery, s.namespace)
	return err
}
