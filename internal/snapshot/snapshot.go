// Package snapshot reads and writes the JSON document describing one
// Collection.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"dirdiff/internal/collection"
	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"
)

// Generator tags every document written by this package. Documents with
// another tag are rejected.
const Generator = "dirdiff/1"

type fileEntry struct {
	Hash         string `json:"hash"`
	LastModified int64  `json:"last_modified"`
	Size         uint64 `json:"size"`
}

type document struct {
	Generator string                `json:"Generator"`
	Root      string                `json:"root"`
	Hash      string                `json:"hash"`
	Files     map[string]*fileEntry `json:"files"`
}

// Encode renders c as an indented document. Modification times are kept
// to the second.
func Encode(c *collection.Collection) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Write(w io.Writer, c *collection.Collection) error {
	doc := document{
		Generator: Generator,
		Root:      c.Root(),
		Hash:      c.Algorithm().String(),
		Files:     make(map[string]*fileEntry, c.Size()),
	}
	if !utf8.ValidString(doc.Root) {
		return errors.Fatalf("cannot write snapshot: root %q is not valid UTF-8", doc.Root)
	}
	for _, path := range c.Paths() {
		if !utf8.ValidString(path) {
			return errors.Fatalf("cannot write snapshot: path %q is not valid UTF-8", path)
		}
		fp, _ := c.Fingerprint(path)
		doc.Files[path] = &fileEntry{
			Hash:         fp.Hash,
			LastModified: fp.ModifiedAt.Unix(),
			Size:         fp.Size,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

func Decode(data []byte) (*collection.Collection, error) {
	return Read(bytes.NewReader(data))
}

// Read parses a document. Keys are matched exactly. Any malformed or
// foreign document is a fatal error. A document without a hash tag is taken
// to be secure.
func Read(r io.Reader) (*collection.Collection, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "parsing snapshot")
	}

	var generator string
	if ok, err := field(doc, "Generator", &generator); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Fatal("not a snapshot: missing generator")
	}
	if generator != Generator {
		return nil, errors.Fatalf("not a snapshot: unexpected generator %q", generator)
	}

	var root string
	if ok, err := field(doc, "root", &root); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.Fatal("invalid snapshot: missing root")
	}

	algorithm := fingerprint.Secure
	var tag string
	if ok, err := field(doc, "hash", &tag); err != nil {
		return nil, err
	} else if ok {
		parsed, err := fingerprint.ParseAlgorithm(tag)
		if err != nil {
			return nil, errors.Wrap(err, "invalid snapshot")
		}
		algorithm = parsed
	}

	var files map[string]map[string]json.RawMessage
	if ok, err := field(doc, "files", &files); err != nil {
		return nil, err
	} else if !ok || files == nil {
		return nil, errors.Fatal("invalid snapshot: missing files")
	}

	c := collection.New(root, algorithm)
	for path, raw := range files {
		fp, err := decodeEntry(raw)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("invalid snapshot entry %s", path))
		}
		c.SetFingerprint(path, fp)
	}
	return c, nil
}

func decodeEntry(raw map[string]json.RawMessage) (fingerprint.Fingerprint, error) {
	var entry fileEntry
	for key, dst := range map[string]any{
		"hash":          &entry.Hash,
		"last_modified": &entry.LastModified,
		"size":          &entry.Size,
	} {
		ok, err := field(raw, key, dst)
		if err != nil {
			return fingerprint.Fingerprint{}, err
		}
		if !ok {
			return fingerprint.Fingerprint{}, errors.Fatalf("missing %s", key)
		}
	}
	if entry.Hash == "" {
		return fingerprint.Fingerprint{}, errors.Fatal("empty hash")
	}
	return fingerprint.Fingerprint{
		Hash:       entry.Hash,
		ModifiedAt: time.Unix(entry.LastModified, 0),
		Size:       entry.Size,
	}, nil
}

// field decodes obj[key] into dst. Only the exact key is accepted.
func field(obj map[string]json.RawMessage, key string, dst any) (bool, error) {
	raw, ok := obj[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, errors.Wrap(err, fmt.Sprintf("invalid %q", key))
	}
	return true, nil
}
