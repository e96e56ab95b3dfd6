package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// CacheEntry is one cached API response body.
type CacheEntry struct {
	Key       string
	Resource  string
	Value     []byte
	FetchedAt time.Time
}

// CacheStore persists query cache entries between invocations, scoped to one
// tenant so switching tenants never serves another tenant's records.
type CacheStore struct {
	db     *sql.DB
	tenant string
}

func OpenCacheStore(tenant string) (*CacheStore, error) {
	if _, err := ensureConfigDir(); err != nil {
		return nil, err
	}
	path, err := CachePath()
	if err != nil {
		return nil, err
	}
	return OpenCacheStoreAt(path, tenant)
}

func OpenCacheStoreAt(path, tenant string) (*CacheStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := ensureCacheSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &CacheStore{db: db, tenant: tenant}, nil
}

func (s *CacheStore) Close() error {
	return s.db.Close()
}

func ensureCacheSchema(db *sql.DB) error {
	createTable := `
CREATE TABLE IF NOT EXISTS cache_entries (
  key TEXT NOT NULL,
  resource TEXT NOT NULL,
  value BLOB,
  fetched_at INTEGER NOT NULL,
  PRIMARY KEY (key)
);`

	if _, err := db.Exec(createTable); err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}

	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_cache_resource ON cache_entries(resource);"); err != nil {
		return fmt.Errorf("create cache index: %w", err)
	}

	if err := ensureCacheColumns(db, []string{"tenant_id"}); err != nil {
		return err
	}

	return nil
}

func ensureCacheColumns(db *sql.DB, columns []string) error {
	rows, err := db.Query("PRAGMA table_info(cache_entries);")
	if err != nil {
		return fmt.Errorf("inspect cache table: %w", err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return fmt.Errorf("inspect cache columns: %w", err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect cache columns: %w", err)
	}

	for _, column := range columns {
		if _, ok := existing[column]; ok {
			continue
		}
		_, err := db.Exec(fmt.Sprintf("ALTER TABLE cache_entries ADD COLUMN %s TEXT NOT NULL DEFAULT '';", column))
		if err != nil {
			return fmt.Errorf("add cache column %s: %w", column, err)
		}
	}
	return nil
}

func (s *CacheStore) scopedKey(key string) string {
	return s.tenant + "|" + key
}

// Get reports false when no entry exists for key.
func (s *CacheStore) Get(key string) (CacheEntry, bool, error) {
	row := s.db.QueryRow(
		"SELECT resource, value, fetched_at FROM cache_entries WHERE key = ? AND tenant_id = ?",
		s.scopedKey(key), s.tenant,
	)

	entry := CacheEntry{Key: key}
	var fetchedAt int64
	if err := row.Scan(&entry.Resource, &entry.Value, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CacheEntry{}, false, nil
		}
		return CacheEntry{}, false, err
	}
	entry.FetchedAt = time.Unix(0, fetchedAt)
	return entry, true, nil
}

func (s *CacheStore) Put(entry CacheEntry) error {
	query := `
INSERT INTO cache_entries (key, resource, value, fetched_at, tenant_id)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  resource = excluded.resource,
  value = excluded.value,
  fetched_at = excluded.fetched_at,
  tenant_id = excluded.tenant_id;`

	_, err := s.db.Exec(
		query,
		s.scopedKey(entry.Key),
		entry.Resource,
		entry.Value,
		entry.FetchedAt.UnixNano(),
		s.tenant,
	)
	return err
}

// DeleteResources removes every entry of the named resources and returns the
// number of rows removed.
func (s *CacheStore) DeleteResources(resources ...string) (int64, error) {
	if len(resources) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(resources))
	args := make([]any, 0, len(resources)+1)
	args = append(args, s.tenant)
	for i, resource := range resources {
		placeholders[i] = "?"
		args = append(args, resource)
	}

	query := "DELETE FROM cache_entries WHERE tenant_id = ? AND resource IN (" + strings.Join(placeholders, ", ") + ")"
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Clear drops every tenant's entries.
func (s *CacheStore) Clear() (int64, error) {
	res, err := s.db.Exec("DELETE FROM cache_entries")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
