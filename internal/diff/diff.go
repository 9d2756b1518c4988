// internal/diff/diff.go
package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Renamed groups files that have the same content but no path in common:
// renamed files and duplicates, possibly several on each side.
type Renamed struct {
	Hash  string   `json:"-"`
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// Result is the classification of every file of two folders named left and
// right. The path lists are sets: their order carries no meaning.
type Result struct {
	RootLeft    string
	RootRight   string
	Identical   []string
	Different   []string
	UniqueLeft  []string
	UniqueRight []string
	Renamed     []Renamed
}

// Summary counts the entries of each section.
type Summary struct {
	Identical   int
	Different   int
	UniqueLeft  int
	UniqueRight int
	Renamed     int
}

func (r *Result) Summary() Summary {
	return Summary{
		Identical:   len(r.Identical),
		Different:   len(r.Different),
		UniqueLeft:  len(r.UniqueLeft),
		UniqueRight: len(r.UniqueRight),
		Renamed:     len(r.Renamed),
	}
}

// Clean reports whether both folders hold exactly the same files.
func (r *Result) Clean() bool {
	return len(r.Different) == 0 && len(r.UniqueLeft) == 0 &&
		len(r.UniqueRight) == 0 && len(r.Renamed) == 0
}

// Swap returns the result seen from the other side.
func (r *Result) Swap() *Result {
	renamed := make([]Renamed, 0, len(r.Renamed))
	for _, g := range r.Renamed {
		renamed = append(renamed, Renamed{Hash: g.Hash, Left: g.Right, Right: g.Left})
	}
	return &Result{
		RootLeft:    r.RootRight,
		RootRight:   r.RootLeft,
		Identical:   r.Identical,
		Different:   r.Different,
		UniqueLeft:  r.UniqueRight,
		UniqueRight: r.UniqueLeft,
		Renamed:     renamed,
	}
}

// Equal compares two results as sets, ignoring the roots and every ordering.
func (r *Result) Equal(other *Result) bool {
	if r == nil || other == nil {
		return r == other
	}
	return sameSet(r.Identical, other.Identical) &&
		sameSet(r.Different, other.Different) &&
		sameSet(r.UniqueLeft, other.UniqueLeft) &&
		sameSet(r.UniqueRight, other.UniqueRight) &&
		slices.Equal(groupKeys(r.Renamed), groupKeys(other.Renamed))
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return slices.Equal(sorted(a), sorted(b))
}

func sorted(s []string) []string {
	c := slices.Clone(s)
	slices.Sort(c)
	return c
}

// groupKeys flattens each renamed group into a canonical string.
func groupKeys(groups []Renamed) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		left, _ := json.Marshal(sorted(g.Left))
		right, _ := json.Marshal(sorted(g.Right))
		keys = append(keys, g.Hash+"\x00"+string(left)+"\x00"+string(right))
	}
	slices.Sort(keys)
	return keys
}

// Document is the exported form of a Result. Empty sections are omitted.
type Document struct {
	Identical   []string  `json:"identical,omitempty"`
	Different   []string  `json:"different,omitempty"`
	UniqueLeft  []string  `json:"unique left,omitempty"`
	UniqueRight []string  `json:"unique right,omitempty"`
	Renamed     []Renamed `json:"renamed and duplicates,omitempty"`
}

func (r *Result) Document() Document {
	return Document{
		Identical:   r.Identical,
		Different:   r.Different,
		UniqueLeft:  r.UniqueLeft,
		UniqueRight: r.UniqueRight,
		Renamed:     r.Renamed,
	}
}

// JSON renders the result document, indented, without HTML escaping so that
// paths containing '&' or '<' stay readable.
func (r *Result) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r.Document()); err != nil {
		return nil, fmt.Errorf("encoding diff: %w", err)
	}
	return buf.Bytes(), nil
}

// Markers prefixed to each line of Format.
const (
	MarkerIdentical   = "="
	MarkerDifferent   = "M"
	MarkerUniqueLeft  = "<"
	MarkerUniqueRight = ">"
	MarkerRenamed     = "R"
)

// Format returns a plain text representation of the result.
func (r *Result) Format() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "--- %s\n+++ %s\n", r.RootLeft, r.RootRight)

	section := func(title, marker string, paths []string) {
		if len(paths) == 0 {
			return
		}
		fmt.Fprintf(&buf, "%s (%d)\n", title, len(paths))
		for _, p := range paths {
			fmt.Fprintf(&buf, "%s %s\n", marker, p)
		}
	}

	section("identical", MarkerIdentical, r.Identical)
	section("different", MarkerDifferent, r.Different)
	section("unique left", MarkerUniqueLeft, r.UniqueLeft)
	section("unique right", MarkerUniqueRight, r.UniqueRight)

	if len(r.Renamed) > 0 {
		fmt.Fprintf(&buf, "renamed and duplicates (%d)\n", len(r.Renamed))
		for _, g := range r.Renamed {
			for _, p := range g.Left {
				fmt.Fprintf(&buf, "%s %s %s\n", MarkerRenamed, MarkerUniqueLeft, p)
			}
			for _, p := range g.Right {
				fmt.Fprintf(&buf, "%s %s %s\n", MarkerRenamed, MarkerUniqueRight, p)
			}
		}
	}

	return buf.String()
}
