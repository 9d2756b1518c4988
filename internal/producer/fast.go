package producer

import (
	"dirdiff/internal/collection"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/walk"

	"go.uber.org/zap"
)

// Fast fingerprints files from their size and modification time only.
// Two different files with equal size and mtime are reported identical.
type Fast struct {
	opts options
}

func NewFast(opts ...Option) *Fast {
	return &Fast{opts: newOptions(opts)}
}

func (f *Fast) Algorithm() fingerprint.Algorithm { return fingerprint.Fast }

func (f *Fast) Collect(src *walk.Source) (*collection.Collection, error) {
	f.opts.reporter.Message("collecting fingerprints", zap.String("root", src.Root()), zap.Stringer("algorithm", fingerprint.Fast))

	c := collection.New(src.Root(), fingerprint.Fast)
	for e, err := range src.Files() {
		if err != nil {
			return nil, err
		}
		size := uint64(e.Info.Size())
		c.SetFingerprint(e.Path, fingerprint.Fingerprint{
			Hash:       fingerprint.FastHash(e.Info.ModTime(), size),
			ModifiedAt: e.Info.ModTime(),
			Size:       size,
		})
	}

	f.opts.reporter.Message("fingerprints collected", zap.String("root", src.Root()), zap.Int("files", c.Size()))
	return c, nil
}
