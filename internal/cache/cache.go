// Package cache remembers secure hashes between runs so that unchanged
// files are not read again.
package cache

import (
	"fmt"
	"time"

	"dirdiff/internal/storage"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

const prefix = "file_state"

// FileState is the last known state of a file, keyed by absolute path.
type FileState struct {
	Path    string    `json:"path"`
	Hash    string    `json:"hash"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

func (s *FileState) GetID() string { return s.Path }

// matches reports whether the file still has the recorded size and mtime.
func (s *FileState) matches(size int64, modTime time.Time) bool {
	return s.Size == size && s.ModTime.Equal(modTime)
}

// Cache is a badger backed hash cache with an LRU in front of it. It is
// safe for concurrent use.
type Cache struct {
	store  *storage.BadgerStore
	recent *lru.Cache[string, FileState]
}

func New(db *badger.DB, size int) (*Cache, error) {
	if size <= 0 {
		size = 4096
	}
	recent, err := lru.New[string, FileState](size)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Cache{
		store:  storage.NewBadgerStore(db, prefix),
		recent: recent,
	}, nil
}

// Lookup returns the cached hash of path if its size and mtime have not
// changed since it was stored.
func (c *Cache) Lookup(path string, size int64, modTime time.Time) (string, bool) {
	if state, ok := c.recent.Get(path); ok {
		if state.matches(size, modTime) {
			return state.Hash, true
		}
		return "", false
	}

	var state FileState
	if err := c.store.Get(path, &state); err != nil {
		return "", false
	}
	c.recent.Add(path, state)
	if !state.matches(size, modTime) {
		return "", false
	}
	return state.Hash, true
}

func (c *Cache) Store(path, hash string, size int64, modTime time.Time) error {
	state := FileState{Path: path, Hash: hash, ModTime: modTime, Size: size}
	if err := c.store.Put(&state); err != nil {
		return fmt.Errorf("storing file state: %w", err)
	}
	c.recent.Add(path, state)
	return nil
}
