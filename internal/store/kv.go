package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// KV is a string-keyed store of JSON documents backed by kv_entries.
type KV struct {
	db      *sql.DB
	dialect string
}

// Get returns the value for key. ok is false when the key is absent.
func (kv *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := entsql.Dialect(kv.dialect).
		Select("value").
		From(entsql.Table(tableKV)).
		Where(entsql.EQ("key", key)).
		Query()

	var value string
	err := kv.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put inserts or replaces the value for key.
func (kv *KV) Put(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(kv.dialect).
		Insert(tableKV).
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := kv.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(kv.dialect).
		Delete(tableKV).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := kv.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists keys with the given prefix in lexical order.
func (kv *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args := entsql.Dialect(kv.dialect).
		Select("key").
		From(entsql.Table(tableKV)).
		Where(entsql.HasPrefix("key", prefix)).
		OrderBy("key").
		Query()
	rows, err := kv.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
