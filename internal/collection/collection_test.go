package collection

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"dirdiff/internal/diff"
	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(hash string) fingerprint.Fingerprint {
	return fingerprint.Fingerprint{Hash: hash, ModifiedAt: time.Unix(1700000000, 0), Size: 42}
}

func build(root string, files map[string]string) *Collection {
	c := New(root, fingerprint.Secure)
	for path, hash := range files {
		c.SetFingerprint(path, fp(hash))
	}
	return c
}

// checkInvariant asserts that byHash is exactly the inverse of byPath.
func checkInvariant(t *testing.T, c *Collection) {
	t.Helper()
	count := 0
	for hash, bucket := range c.byHash {
		require.NotEmpty(t, bucket, "empty bucket for %s", hash)
		for path := range bucket {
			got, ok := c.byPath[path]
			require.True(t, ok, "bucket path %s missing from byPath", path)
			require.Equal(t, hash, got.Hash)
			count++
		}
	}
	require.Equal(t, len(c.byPath), count)
}

func TestSetFingerprint(t *testing.T) {
	c := New("/root", fingerprint.Secure)

	t.Run("Insert", func(t *testing.T) {
		c.SetFingerprint("a.txt", fp("H1"))
		c.SetFingerprint("b.txt", fp("H1"))

		assert.Equal(t, 2, c.Size())
		assert.Equal(t, []string{"a.txt", "b.txt"}, c.PathsWithHash("H1"))
		checkInvariant(t, c)
	})

	t.Run("Idempotent", func(t *testing.T) {
		c.SetFingerprint("a.txt", fp("H1"))

		assert.Equal(t, 2, c.Size())
		assert.Equal(t, []string{"a.txt", "b.txt"}, c.PathsWithHash("H1"))
		checkInvariant(t, c)
	})

	t.Run("MovesBucket", func(t *testing.T) {
		c.SetFingerprint("a.txt", fp("H2"))

		assert.Equal(t, []string{"b.txt"}, c.PathsWithHash("H1"))
		assert.Equal(t, []string{"a.txt"}, c.PathsWithHash("H2"))
		checkInvariant(t, c)
	})

	t.Run("PrunesEmptyBucket", func(t *testing.T) {
		c.SetFingerprint("b.txt", fp("H2"))

		_, ok := c.byHash["H1"]
		assert.False(t, ok)
		assert.Equal(t, []string{"a.txt", "b.txt"}, c.PathsWithHash("H2"))
		checkInvariant(t, c)
	})
}

func TestRemovePath(t *testing.T) {
	c := build("/root", map[string]string{"a": "H1", "b": "H1", "c": "H2"})

	c.RemovePath("missing")
	assert.Equal(t, 3, c.Size())

	c.RemovePath("a")
	assert.Equal(t, []string{"b"}, c.PathsWithHash("H1"))
	_, ok := c.Fingerprint("a")
	assert.False(t, ok)
	checkInvariant(t, c)

	c.RemovePath("c")
	_, ok = c.byHash["H2"]
	assert.False(t, ok)
	checkInvariant(t, c)

	c.RemovePath("c")
	assert.Equal(t, 1, c.Size())
}

func TestDuplicates(t *testing.T) {
	c := build("/root", map[string]string{"a": "H1", "b": "H1", "c": "H2"})
	assert.Equal(t, map[string][]string{"H1": {"a", "b"}}, c.Duplicates())
}

func TestCloneIsIndependent(t *testing.T) {
	c := build("/root", map[string]string{"a": "H1", "b": "H1"})
	clone := c.Clone()

	clone.RemovePath("a")
	clone.SetFingerprint("z", fp("H9"))

	assert.Equal(t, []string{"a", "b"}, c.Paths())
	assert.Equal(t, []string{"a", "b"}, c.PathsWithHash("H1"))
	assert.Empty(t, c.PathsWithHash("H9"))
	checkInvariant(t, c)
	checkInvariant(t, clone)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name  string
		left  map[string]string
		right map[string]string
		want  *diff.Result
	}{
		{
			name:  "identical and different",
			left:  map[string]string{"same.txt": "H1", "changed.txt": "H2"},
			right: map[string]string{"same.txt": "H1", "changed.txt": "H3"},
			want: &diff.Result{
				Identical: []string{"same.txt"},
				Different: []string{"changed.txt"},
			},
		},
		{
			name:  "unique on each side",
			left:  map[string]string{"old.txt": "H1"},
			right: map[string]string{"new.txt": "H2"},
			want: &diff.Result{
				UniqueLeft:  []string{"old.txt"},
				UniqueRight: []string{"new.txt"},
			},
		},
		{
			name:  "renamed",
			left:  map[string]string{"a.txt": "H1"},
			right: map[string]string{"b.txt": "H1"},
			want: &diff.Result{
				Renamed: []diff.Renamed{{Hash: "H1", Left: []string{"a.txt"}, Right: []string{"b.txt"}}},
			},
		},
		{
			name:  "duplicates on both sides form one group",
			left:  map[string]string{"a1": "H1", "a2": "H1"},
			right: map[string]string{"b1": "H1", "b2": "H1", "b3": "H1"},
			want: &diff.Result{
				Renamed: []diff.Renamed{{Hash: "H1", Left: []string{"a1", "a2"}, Right: []string{"b1", "b2", "b3"}}},
			},
		},
		{
			name:  "path match wins over content match",
			left:  map[string]string{"x": "H1"},
			right: map[string]string{"x": "H1", "y": "H1"},
			want: &diff.Result{
				Identical:   []string{"x"},
				UniqueRight: []string{"y"},
			},
		},
		{
			name:  "path matched file is withdrawn from its bucket",
			left:  map[string]string{"x": "H1", "copy": "H1"},
			right: map[string]string{"x": "H1", "moved": "H1"},
			want: &diff.Result{
				Identical: []string{"x"},
				Renamed:   []diff.Renamed{{Hash: "H1", Left: []string{"copy"}, Right: []string{"moved"}}},
			},
		},
		{
			name:  "modified file content found elsewhere",
			left:  map[string]string{"x": "H1"},
			right: map[string]string{"x": "H2", "y": "H1"},
			want: &diff.Result{
				Different:   []string{"x"},
				UniqueRight: []string{"y"},
			},
		},
		{
			name:  "empty sides",
			left:  map[string]string{},
			right: map[string]string{},
			want:  &diff.Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := build("/left", tt.left)
			right := build("/right", tt.right)

			got, err := left.Compare(right)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %+v", got)
			assert.Equal(t, "/left", got.RootLeft)
			assert.Equal(t, "/right", got.RootRight)

			swapped, err := right.Compare(left)
			require.NoError(t, err)
			assert.True(t, tt.want.Swap().Equal(swapped), "swapped %+v", swapped)
		})
	}
}

func TestCompareDoesNotMutate(t *testing.T) {
	left := build("/left", map[string]string{"x": "H1", "a": "H2", "b": "H3"})
	right := build("/right", map[string]string{"x": "H1", "c": "H2"})

	_, err := left.Compare(right)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "x"}, left.Paths())
	assert.Equal(t, []string{"c", "x"}, right.Paths())
	checkInvariant(t, left)
	checkInvariant(t, right)
}

func TestCompareRejectsMismatchedAlgorithms(t *testing.T) {
	secure := New("/a", fingerprint.Secure)
	fast := New("/b", fingerprint.Fast)

	_, err := secure.Compare(fast)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.True(t, errors.IsFatal(err))
}

func TestCompareWithItself(t *testing.T) {
	c := build("/root", map[string]string{"a": "H1", "b": "H1", "c": "H2", "d/e": "H3"})

	got, err := c.Compare(c)
	require.NoError(t, err)
	assert.ElementsMatch(t, c.Paths(), got.Identical)
	assert.True(t, got.Clean())

	got, err = c.Compare(c.Clone())
	require.NoError(t, err)
	assert.ElementsMatch(t, c.Paths(), got.Identical)
	assert.True(t, got.Clean())
}

// randomCollection draws paths and hashes from small pools so that path
// matches, duplicates and renames all occur.
func randomCollection(r *rand.Rand, root string) *Collection {
	c := New(root, fingerprint.Secure)
	n := r.Intn(12)
	for i := 0; i < n; i++ {
		c.SetFingerprint(fmt.Sprintf("f%d", r.Intn(10)), fp(fmt.Sprintf("H%d", r.Intn(5))))
	}
	return c
}

func TestCompareProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		a := randomCollection(r, "/a")
		b := randomCollection(r, "/b")
		checkInvariant(t, a)
		checkInvariant(t, b)

		ab, err := a.Compare(b)
		require.NoError(t, err)
		ba, err := b.Compare(a)
		require.NoError(t, err)

		require.True(t, ab.Swap().Equal(ba), "iteration %d: %+v vs %+v", i, ab, ba)

		// Every path of each side is classified exactly once.
		var leftSeen, rightSeen []string
		leftSeen = append(leftSeen, ab.Identical...)
		leftSeen = append(leftSeen, ab.Different...)
		rightSeen = slices.Clone(leftSeen)
		leftSeen = append(leftSeen, ab.UniqueLeft...)
		rightSeen = append(rightSeen, ab.UniqueRight...)
		for _, g := range ab.Renamed {
			leftSeen = append(leftSeen, g.Left...)
			rightSeen = append(rightSeen, g.Right...)
		}
		require.ElementsMatch(t, a.Paths(), leftSeen, "iteration %d", i)
		require.ElementsMatch(t, b.Paths(), rightSeen, "iteration %d", i)

		hashes := make(map[string]bool)
		for _, g := range ab.Renamed {
			require.False(t, hashes[g.Hash], "hash %s grouped twice", g.Hash)
			hashes[g.Hash] = true
		}
	}
}
