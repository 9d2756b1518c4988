// Package fingerprint holds the per-file signature used to compare folders.
package fingerprint

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm identifies the strategy that produced a set of fingerprints.
// Fingerprints from different algorithms are never comparable.
type Algorithm int

const (
	Secure Algorithm = iota
	Fast
)

func (a Algorithm) String() string {
	switch a {
	case Fast:
		return "fast"
	case Secure:
		return "secure"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm accepts the names used on the command line, in the config
// file and in snapshot documents.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "secure":
		return Secure, nil
	case "fast":
		return Fast, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q (want fast or secure)", name)
	}
}

func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Fingerprint describes one file. Size and ModifiedAt are carried for the
// fast hash derivation and for snapshot fidelity; equality uses Hash only.
type Fingerprint struct {
	Hash       string
	ModifiedAt time.Time
	Size       uint64
}

func (f Fingerprint) Identical(other Fingerprint) bool {
	return f.Hash == other.Hash
}

// FastHash derives the fast pseudo-hash from a modification time and a size:
// the uppercase hex Unix time followed by the size as 16 uppercase hex digits.
// Times before 1970 are written as their 64-bit two's complement, so the
// result is always plain hex. No content is involved, so two files sharing
// size and mtime collide.
func FastHash(modifiedAt time.Time, size uint64) string {
	return fmt.Sprintf("%X%016X", uint64(modifiedAt.Unix()), size)
}
