package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// kvItem is the bun model backing SQLStore. The whole store is a single
// two-column table.
type kvItem struct {
	bun.BaseModel `bun:"table:kv_items"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// SQLStore is a durable Store backed by SQLite through bun. It is the
// production backend for on-device persistence.
type SQLStore struct {
	db *bun.DB
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (creating if needed) a SQLite database at path and
// prepares the backing table. Use ":memory:" for an ephemeral database.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	sqldb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := &SQLStore{db: db}
	if err := store.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wraps an existing bun DB. The caller keeps ownership of the
// connection; Close is still safe to call.
func NewSQLStore(ctx context.Context, db *bun.DB) (*SQLStore, error) {
	store := &SQLStore{db: db}
	if err := store.init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*kvItem)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create kv_items table: %w", err)
	}
	return nil
}

// GetItem implements Store.
func (s *SQLStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	item := new(kvItem)
	err := s.db.NewSelect().
		Model(item).
		Where("key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	return item.Value, true, nil
}

// SetItem implements Store.
func (s *SQLStore) SetItem(ctx context.Context, key, value string) error {
	item := &kvItem{Key: key, Value: value}
	_, err := s.db.NewInsert().
		Model(item).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}
	return nil
}

// RemoveItem implements Store.
func (s *SQLStore) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*kvItem)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("remove item %q: %w", key, err)
	}
	return nil
}

// GetAllKeys implements Store.
func (s *SQLStore) GetAllKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.NewSelect().
		Model((*kvItem)(nil)).
		Column("key").
		Order("key ASC").
		Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// MultiGet implements Store.
func (s *SQLStore) MultiGet(ctx context.Context, keys []string) ([]KV, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var items []kvItem
	err := s.db.NewSelect().
		Model(&items).
		Where("key IN (?)", bun.In(keys)).
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("multi get: %w", err)
	}
	pairs := make([]KV, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, KV{Key: item.Key, Value: item.Value})
	}
	return pairs, nil
}

// MultiRemove implements Store.
func (s *SQLStore) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.NewDelete().
		Model((*kvItem)(nil)).
		Where("key IN (?)", bun.In(keys)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("multi remove: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
