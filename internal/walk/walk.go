// Package walk lists the regular files of a folder tree.
package walk

import (
	stderrors "errors"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"

	"dirdiff/internal/errors"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Entry is one regular file found under the root.
type Entry struct {
	// Path is relative to the root and always uses '/' separators.
	Path string
	Info os.FileInfo
}

// Source is a folder tree to fingerprint.
type Source struct {
	fs     billy.Filesystem
	root   string
	ignore []string
}

type Option func(*Source)

// WithIgnore skips every file or directory having a path component that
// matches one of the glob patterns.
func WithIgnore(patterns ...string) Option {
	return func(s *Source) {
		s.ignore = append(s.ignore, patterns...)
	}
}

// New wraps an existing filesystem. root is only used for display and
// as the key prefix of cached hashes.
func New(fs billy.Filesystem, root string, opts ...Option) *Source {
	s := &Source{fs: fs, root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOS opens the directory root of the local filesystem.
func NewOS(root string, opts ...Option) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("resolving %s", root))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("opening %s", root))
	}
	if !info.IsDir() {
		return nil, errors.Fatalf("%s is not a directory", root)
	}
	return New(osfs.New(abs), abs, opts...), nil
}

func (s *Source) Root() string { return s.root }

// Abs returns the location of a relative path below the root.
func (s *Source) Abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func (s *Source) Open(rel string) (billy.File, error) {
	return s.fs.Open("/" + rel)
}

var errStop = stderrors.New("walk stopped")

// Files lazily yields the regular files of the tree. Symbolic links and
// other special files are skipped. A directory that cannot be listed ends
// the sequence with a fatal error.
func (s *Source) Files() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		err := util.Walk(s.fs, "/", func(p string, info os.FileInfo, err error) error {
			rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("walking %s", s.Abs(rel)))
			}
			if rel == "" {
				return nil
			}
			if s.ignored(rel) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if !yield(Entry{Path: rel, Info: info}, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !stderrors.Is(err, errStop) {
			yield(Entry{}, err)
		}
	}
}

// Collect drains Files into a slice.
func (s *Source) Collect() ([]Entry, error) {
	var entries []Entry
	for entry, err := range s.Files() {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Source) ignored(rel string) bool {
	if len(s.ignore) == 0 {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		for _, pattern := range s.ignore {
			if ok, _ := path.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
