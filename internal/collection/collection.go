// Package collection indexes the fingerprints of one folder both by path and
// by hash, and compares two such indexes.
package collection

import (
	"maps"
	"slices"

	"dirdiff/internal/fingerprint"
)

// Collection holds the fingerprints of the files found under one root.
//
// Two maps cover the same file set: byPath is authoritative and byHash is
// its exact inverse, grouping the paths that share a hash (duplicates).
// Buckets of byHash are never empty. A Collection is not safe for
// concurrent mutation.
type Collection struct {
	root      string
	algorithm fingerprint.Algorithm
	byPath    map[string]fingerprint.Fingerprint
	byHash    map[string]map[string]struct{}
}

func New(root string, algorithm fingerprint.Algorithm) *Collection {
	return &Collection{
		root:      root,
		algorithm: algorithm,
		byPath:    make(map[string]fingerprint.Fingerprint),
		byHash:    make(map[string]map[string]struct{}),
	}
}

func (c *Collection) Root() string                     { return c.root }
func (c *Collection) Algorithm() fingerprint.Algorithm { return c.algorithm }

// Size returns the number of tracked paths.
func (c *Collection) Size() int {
	return len(c.byPath)
}

// SetFingerprint inserts path or replaces its fingerprint, moving the path
// to another hash bucket when the hash changed.
func (c *Collection) SetFingerprint(path string, fp fingerprint.Fingerprint) {
	if old, ok := c.byPath[path]; ok && old.Hash != fp.Hash {
		c.unlinkHash(old.Hash, path)
	}
	c.byPath[path] = fp

	bucket, ok := c.byHash[fp.Hash]
	if !ok {
		bucket = make(map[string]struct{})
		c.byHash[fp.Hash] = bucket
	}
	bucket[path] = struct{}{}
}

// RemovePath forgets path. Unknown paths are ignored.
func (c *Collection) RemovePath(path string) {
	fp, ok := c.byPath[path]
	if !ok {
		return
	}
	delete(c.byPath, path)
	c.unlinkHash(fp.Hash, path)
}

func (c *Collection) unlinkHash(hash, path string) {
	bucket := c.byHash[hash]
	delete(bucket, path)
	if len(bucket) == 0 {
		delete(c.byHash, hash)
	}
}

// Fingerprint returns the fingerprint recorded for path.
func (c *Collection) Fingerprint(path string) (fingerprint.Fingerprint, bool) {
	fp, ok := c.byPath[path]
	return fp, ok
}

// PathsWithHash returns the sorted paths sharing hash.
func (c *Collection) PathsWithHash(hash string) []string {
	return slices.Sorted(maps.Keys(c.byHash[hash]))
}

// Paths returns every tracked path, sorted.
func (c *Collection) Paths() []string {
	return slices.Sorted(maps.Keys(c.byPath))
}

// Duplicates returns the hashes shared by more than one path.
func (c *Collection) Duplicates() map[string][]string {
	dupes := make(map[string][]string)
	for hash, bucket := range c.byHash {
		if len(bucket) > 1 {
			dupes[hash] = slices.Sorted(maps.Keys(bucket))
		}
	}
	return dupes
}

// Clone returns an independent copy.
func (c *Collection) Clone() *Collection {
	clone := &Collection{
		root:      c.root,
		algorithm: c.algorithm,
		byPath:    maps.Clone(c.byPath),
		byHash:    make(map[string]map[string]struct{}, len(c.byHash)),
	}
	for hash, bucket := range c.byHash {
		clone.byHash[hash] = maps.Clone(bucket)
	}
	return clone
}
