package producer

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"

	"dirdiff/internal/collection"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/walk"

	"go.uber.org/zap"
)

// Secure hashes file contents, by default with SHA-1 rendered as uppercase
// hex. The file list is dealt round-robin to a fixed set of workers; each
// worker fills a private result slice and the slices are merged once all
// workers are done.
type Secure struct {
	opts options
}

func NewSecure(opts ...Option) *Secure {
	return &Secure{opts: newOptions(opts)}
}

func (s *Secure) Algorithm() fingerprint.Algorithm { return fingerprint.Secure }

type hashed struct {
	path string
	fp   fingerprint.Fingerprint
}

func (s *Secure) Collect(src *walk.Source) (*collection.Collection, error) {
	r := s.opts.reporter
	r.Message("collecting fingerprints", zap.String("root", src.Root()), zap.Stringer("algorithm", fingerprint.Secure))

	entries, err := src.Collect()
	if err != nil {
		return nil, err
	}
	r.Message("files to process", zap.Int("files", len(entries)), zap.Int("workers", s.opts.workers))

	work := split(entries, s.opts.workers)
	results := make([][]hashed, len(work))

	var wg sync.WaitGroup
	for i, slice := range work {
		wg.Add(1)
		go func(i int, slice []walk.Entry) {
			defer wg.Done()
			results[i] = s.hashAll(src, slice)
		}(i, slice)
	}
	wg.Wait()

	c := collection.New(src.Root(), fingerprint.Secure)
	for _, partial := range results {
		for _, h := range partial {
			c.SetFingerprint(h.path, h.fp)
		}
	}

	r.Message("fingerprints collected", zap.String("root", src.Root()), zap.Int("files", c.Size()))
	return c, nil
}

// split deals entries round-robin into at most n slices.
func split(entries []walk.Entry, n int) [][]walk.Entry {
	if n > len(entries) {
		n = len(entries)
	}
	if n < 1 {
		return nil
	}
	work := make([][]walk.Entry, n)
	for i, e := range entries {
		work[i%n] = append(work[i%n], e)
	}
	return work
}

func (s *Secure) hashAll(src *walk.Source, entries []walk.Entry) []hashed {
	out := make([]hashed, 0, len(entries))
	for _, e := range entries {
		h, err := s.hashEntry(src, e)
		if err != nil {
			s.opts.reporter.Error("cannot hash file",
				zap.String("path", src.Abs(e.Path)),
				zap.Error(err))
			continue
		}
		out = append(out, hashed{
			path: e.Path,
			fp: fingerprint.Fingerprint{
				Hash:       h,
				ModifiedAt: e.Info.ModTime(),
				Size:       uint64(e.Info.Size()),
			},
		})
	}
	return out
}

func (s *Secure) hashEntry(src *walk.Source, e walk.Entry) (string, error) {
	abs := src.Abs(e.Path)
	size, modTime := e.Info.Size(), e.Info.ModTime()

	if s.opts.cache != nil {
		if h, ok := s.opts.cache.Lookup(abs, size, modTime); ok {
			return h, nil
		}
	}

	f, err := src.Open(e.Path)
	if err != nil {
		return "", fmt.Errorf("opening: %w", err)
	}
	defer f.Close()

	hasher := s.opts.hasher()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("reading: %w", err)
	}
	h := strings.ToUpper(hex.EncodeToString(hasher.Sum(nil)))

	if s.opts.cache != nil {
		if err := s.opts.cache.Store(abs, h, size, modTime); err != nil {
			s.opts.reporter.Error("cannot cache hash", zap.String("path", abs), zap.Error(err))
		}
	}
	return h, nil
}
