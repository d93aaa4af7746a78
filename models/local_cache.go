package models

import (
	"database/sql"
	"sync"
)

// KeyValueStore is the advisory persisted local state: token, role, profile
// identifiers and cached snapshots. It is rebuildable at any time and never
// authoritative once the backend is reachable; last writer wins.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// LocalCacheModel persists the key-value state in Postgres
type LocalCacheModel struct {
	DB *sql.DB
}

func NewLocalCacheModel(db *sql.DB) *LocalCacheModel {
	return &LocalCacheModel{DB: db}
}

func (m *LocalCacheModel) Get(key string) (string, bool, error) {
	var value string
	err := m.DB.QueryRow("SELECT value FROM local_cache WHERE key = $1", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (m *LocalCacheModel) Set(key, value string) error {
	_, err := m.DB.Exec(`
		INSERT INTO local_cache (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()
	`, key, value)
	return err
}

func (m *LocalCacheModel) Delete(key string) error {
	_, err := m.DB.Exec("DELETE FROM local_cache WHERE key = $1", key)
	return err
}

// MemoryCache is the in-process KeyValueStore used when no database is
// configured, and by tests
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

func (m *MemoryCache) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryCache) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
