// Package producer builds a Collection from a folder tree.
package producer

import (
	"crypto/sha1"
	"fmt"
	"hash"
	"runtime"
	"time"

	"dirdiff/internal/collection"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/logging"
	"dirdiff/internal/walk"
)

// Producer fingerprints every regular file below the root of a Source.
// Failing to list the tree is fatal; a single file that cannot be read is
// reported and left out of the collection.
type Producer interface {
	Collect(src *walk.Source) (*collection.Collection, error)
	Algorithm() fingerprint.Algorithm
}

// HashCache lets the secure producer skip files that did not change since
// they were last hashed.
type HashCache interface {
	Lookup(path string, size int64, modTime time.Time) (string, bool)
	Store(path, hash string, size int64, modTime time.Time) error
}

type options struct {
	reporter logging.Reporter
	workers  int
	cache    HashCache
	hasher   func() hash.Hash
}

type Option func(*options)

func WithReporter(r logging.Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithWorkers sets the number of hashing goroutines. Zero or less means
// one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithCache(c HashCache) Option {
	return func(o *options) { o.cache = c }
}

// WithHasher replaces SHA-1. Hashes of different functions must never be
// compared, so this is meant for tests.
func WithHasher(newHash func() hash.Hash) Option {
	return func(o *options) { o.hasher = newHash }
}

func newOptions(opts []Option) options {
	o := options{
		reporter: logging.Nop,
		hasher:   sha1.New,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// New returns the producer implementing algorithm.
func New(algorithm fingerprint.Algorithm, opts ...Option) (Producer, error) {
	switch algorithm {
	case fingerprint.Secure:
		return NewSecure(opts...), nil
	case fingerprint.Fast:
		return NewFast(opts...), nil
	default:
		return nil, fmt.Errorf("no producer for %s", algorithm)
	}
}
