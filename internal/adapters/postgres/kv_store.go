package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	apperrors "github.com/target/storefront-admin/internal/errors"
	"github.com/target/storefront-admin/internal/ports"
)

// KVStore stores browser local storage in the local_storage table.
type KVStore struct {
	DB *sql.DB
}

var (
	_ ports.KVStore  = (*KVStore)(nil)
	_ ports.KVPurger = (*KVStore)(nil)
)

// NewKVStore creates a new KVStore.
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{DB: db}
}

func (s *KVStore) Get(ctx context.Context, namespace, key string) (string, error) {
	var value string
	err := withPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT value FROM local_storage WHERE namespace = $1 AND key = $2`,
			namespace, key,
		).Scan(&value)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get local storage item: %w", apperrors.MapDBError(err))
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, namespace, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO local_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("set local storage item: %w", apperrors.MapDBError(err))
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM local_storage WHERE namespace = $1 AND key = $2`, namespace, key)
	if err != nil {
		return fmt.Errorf("delete local storage item: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Purge drops every key of namespace.
func (s *KVStore) Purge(ctx context.Context, namespace string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM local_storage WHERE namespace = $1`, namespace)
	if err != nil {
		return fmt.Errorf("purge local storage: %w", apperrors.MapDBError(err))
	}
	return nil
}

// PurgeIdle removes every namespace whose newest write is older than idle and returns the
// number of rows deleted.
func (s *KVStore) PurgeIdle(ctx context.Context, idle time.Duration) (int64, error) {
	if idle <= 0 {
		return 0, apperrors.ValidationField("idle", "idle duration must be positive")
	}
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM local_storage
		WHERE namespace IN (
			SELECT namespace FROM local_storage
			GROUP BY namespace
			HAVING max(updated_at) < now() - make_interval(secs => $1)
		)`,
		idle.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge idle local storage: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
