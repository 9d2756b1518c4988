package collection

import (
	"fmt"
	"slices"

	"dirdiff/internal/diff"
	"dirdiff/internal/errors"
)

// Compare classifies every file of c (left) and other (right).
//
// Files sharing a relative path are classified first, identical or
// different, and withdrawn from both sides. Only the remaining files take
// part in rename detection: a remaining left file whose hash is also held by
// remaining right files belongs to the renamed group of that hash, otherwise
// it is unique to the left. Remaining right files whose hash has no remaining
// left holder are unique to the right.
//
// Neither collection is modified. Collections built with different
// algorithms cannot be compared.
func (c *Collection) Compare(other *Collection) (*diff.Result, error) {
	if c.algorithm != other.algorithm {
		return nil, errors.Configuration(fmt.Sprintf(
			"cannot compare a %s collection with a %s collection", c.algorithm, other.algorithm))
	}

	result := &diff.Result{
		RootLeft:  c.root,
		RootRight: other.root,
	}

	left := c.Clone()
	right := other.Clone()

	for _, path := range c.Paths() {
		rfp, ok := other.byPath[path]
		if !ok {
			continue
		}
		if c.byPath[path].Identical(rfp) {
			result.Identical = append(result.Identical, path)
		} else {
			result.Different = append(result.Different, path)
		}
		left.RemovePath(path)
		right.RemovePath(path)
	}

	grouped := make(map[string]bool)
	for _, path := range left.Paths() {
		hash := left.byPath[path].Hash
		if _, ok := right.byHash[hash]; !ok {
			result.UniqueLeft = append(result.UniqueLeft, path)
			continue
		}
		if grouped[hash] {
			continue
		}
		grouped[hash] = true
		result.Renamed = append(result.Renamed, diff.Renamed{
			Hash:  hash,
			Left:  left.PathsWithHash(hash),
			Right: right.PathsWithHash(hash),
		})
	}

	for _, path := range right.Paths() {
		if _, ok := left.byHash[right.byPath[path].Hash]; !ok {
			result.UniqueRight = append(result.UniqueRight, path)
		}
	}

	slices.SortFunc(result.Renamed, func(a, b diff.Renamed) int {
		return slices.Compare(a.Left, b.Left)
	})

	return result, nil
}
