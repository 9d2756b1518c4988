package snapshot

import (
	"fmt"
	"os"
	"strings"

	"dirdiff/internal/collection"
	"dirdiff/internal/errors"
)

// CompressedExt marks snapshot files written with zstd.
const CompressedExt = ".zst"

// SaveFile writes c to path, compressed when path ends in ".zst".
func SaveFile(path string, c *collection.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, CompressedExt) {
		data = Compress(data)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, fmt.Sprintf("writing snapshot %s", path))
	}
	return nil
}

// LoadFile reads a snapshot, compressed or not, whatever its extension.
func LoadFile(path string) (*collection.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("reading snapshot %s", path))
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Fatalf("%s is not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("reading snapshot %s", path))
	}
	data, err = Decompress(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	c, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}
