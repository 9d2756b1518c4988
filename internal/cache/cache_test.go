package cache

import (
	"testing"
	"time"

	"dirdiff/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	db, err := storage.Open("", nil)
	require.NoError(t, err)
	defer db.Close()

	c, err := New(db, 2)
	require.NoError(t, err)

	mtime := time.Unix(1700000000, 500)

	_, ok := c.Lookup("/data/a", 10, mtime)
	assert.False(t, ok)

	require.NoError(t, c.Store("/data/a", "AAAA", 10, mtime))

	hash, ok := c.Lookup("/data/a", 10, mtime)
	require.True(t, ok)
	assert.Equal(t, "AAAA", hash)

	_, ok = c.Lookup("/data/a", 11, mtime)
	assert.False(t, ok, "size changed")
	_, ok = c.Lookup("/data/a", 10, mtime.Add(time.Second))
	assert.False(t, ok, "mtime changed")


	require.NoError(t, c.Store("/data/a", "BBBB", 11, mtime))
	hash, ok = c.Lookup("/data/a", 11, mtime)
	require.True(t, ok)
	assert.Equal(t, "BBBB", hash)
}

func TestCacheSurvivesEviction(t *testing.T) {
	db, err := storage.Open("", nil)
	require.NoError(t, err)
	defer db.Close()

	c, err := New(db, 1)
	require.NoError(t, err)

	mtime := time.Unix(1700000000, 0)
	require.NoError(t, c.Store("/a", "H1", 1, mtime))
	require.NoError(t, c.Store("/b", "H2", 2, mtime))

	// "/a" was evicted from the LRU and comes back from badger.
	hash, ok := c.Lookup("/a", 1, mtime)
	require.True(t, ok)
	assert.Equal(t, "H1", hash)

	// A fresh cache over the same database sees the stored states.
	fresh, err := New(db, 8)
	require.NoError(t, err)
	hash, ok = fresh.Lookup("/b", 2, mtime)
	require.True(t, ok)
	assert.Equal(t, "H2", hash)
}
