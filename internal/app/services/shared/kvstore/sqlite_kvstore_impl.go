package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
)

// sqliteKeyValueStore keeps the draft cache on local disk so it survives a
// restart without an external cache server.
type sqliteKeyValueStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteKeyValueStore(db *sql.DB) contracts.KeyValueStore {
	return &sqliteKeyValueStore{db: db, now: time.Now}
}

func (s *sqliteKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	var (
		value     string
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM kv_cache WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", exceptions.ErrSQLiteGet(err)
	}

	if expiresAt.Valid && s.now().UnixMilli() >= expiresAt.Int64 {
		if err := s.Delete(ctx, key); err != nil {
			return "", err
		}
		return "", nil
	}
	return value, nil
}

func (s *sqliteKeyValueStore) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	now := s.now()
	var expiresAt sql.NullInt64
	if exp > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(exp).UnixMilli(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv_cache (key, value, expires_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		key, string(jsonValue), expiresAt, now.UnixMilli(),
	)
	if err != nil {
		return exceptions.ErrSQLiteSet(err)
	}
	return nil
}

func (s *sqliteKeyValueStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_cache WHERE key = ?`, key)
	if err != nil {
		return exceptions.ErrSQLiteDelete(err)
	}
	return nil
}
