package oset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultisetIntDoubleInsertOrdersWithinDepth(t *testing.T) {
	s := NewMultisetIntDouble()

	res, err := s.Insert(1, 9, 0.5)
	require.NoError(t, err)
	assert.Equal(t, Added, res)

	res, err = s.Insert(1, 9, 1.0)
	require.NoError(t, err)
	assert.Equal(t, Duplicate, res)

	_, _ = s.Insert(1, 3, 0.1)
	_, _ = s.Insert(1, 7, 0.2)

	e0, err := s.NthElement(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, e0.Key)

	e2, err := s.NthElement(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 9, e2.Key)
	assert.InDelta(t, 0.5, e2.Value, 1e-12)
}

func TestMultisetIntDoubleRemoveShiftsTail(t *testing.T) {
	s := NewMultisetIntDouble()
	for _, k := range []int{1, 2, 3, 4} {
		_, _ = s.Insert(0, k, float64(k))
	}
	res, err := s.Remove(0, 2)
	require.NoError(t, err)
	assert.Equal(t, Removed, res)
	assert.Equal(t, 3, s.DepthCount(0))
	assert.False(t, s.IsElement(0, 2))

	res, err = s.Remove(0, 99)
	require.NoError(t, err)
	assert.Equal(t, NotFound, res)
}

// TestChooseDepthUniform mirrors the literal spec §8 scenario: insert
// the birth multiset's indices/depths/values, then check
// choose_depth(u, maxdepth) against the documented results.
func TestChooseDepthUniform(t *testing.T) {
	s := NewMultisetIntDouble()
	indices := []int{9, 4, 7, 8, 1, 3, 6}
	depths := []int{3, 1, 2, 2, 1, 1, 2}
	values := []float64{0.5, 0.25, 0.33, 0.11, 0.78, 0.2, 0.6}
	for i := range indices {
		_, err := s.Insert(depths[i], indices[i], values[i])
		require.NoError(t, err)
	}

	type want struct {
		u        float64
		depth    int
		ndepths  int
		maxDepth int
	}
	cases := []want{
		{0.0, 1, 3, 5},
		{0.34, 2, 3, 5},
		{0.67, 3, 3, 5},
		{0.0, 1, 2, 2},
		{0.34, 1, 2, 2},
		{0.67, 2, 2, 2},
	}
	for _, c := range cases {
		d, n, err := s.ChooseDepth(c.u, c.maxDepth)
		require.NoError(t, err)
		assert.Equalf(t, c.depth, d, "u=%v maxDepth=%v", c.u, c.maxDepth)
		assert.Equalf(t, c.ndepths, n, "u=%v maxDepth=%v", c.u, c.maxDepth)
	}
}

// TestMultisetBinaryRoundTrip mirrors the spec §8 "multiset binary
// round-trip" scenario: insert the same entries, write to an
// in-memory buffer (standing in for a file), read back into an empty
// multiset, and confirm every (key, depth) retrieves its original
// value exactly.
func TestMultisetBinaryRoundTrip(t *testing.T) {
	s := NewMultisetIntDouble()
	indices := []int{9, 4, 7, 8, 1, 3, 6}
	depths := []int{3, 1, 2, 2, 1, 1, 2}
	values := []float64{0.5, 0.25, 0.33, 0.11, 0.78, 0.2, 0.6}
	for i := range indices {
		_, err := s.Insert(depths[i], indices[i], values[i])
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, s.WriteBinary(&buf))

	readBack := NewMultisetIntDouble()
	require.NoError(t, readBack.ReadBinary(&buf))

	for i := range indices {
		v, err := readBack.Get(depths[i], indices[i])
		require.NoError(t, err)
		assert.Equal(t, values[i], v)
	}
}

func TestMultisetIntTextRoundTrip(t *testing.T) {
	s := NewMultisetInt()
	_, _ = s.Insert(0, 0)
	_, _ = s.Insert(1, 5)
	_, _ = s.Insert(1, 2)
	_, _ = s.Insert(3, 7)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))

	readBack := NewMultisetInt()
	require.NoError(t, readBack.ReadText(&buf))

	assert.True(t, readBack.IsElement(0, 0))
	assert.True(t, readBack.IsElement(1, 2))
	assert.True(t, readBack.IsElement(1, 5))
	assert.True(t, readBack.IsElement(3, 7))
	assert.Equal(t, 4, readBack.TotalCount())
}

func TestChooseIndexWeightedReverseSymmetry(t *testing.T) {
	s := NewMultisetIntDouble()
	_, _ = s.Insert(0, 0, 1.0)
	_, _ = s.Insert(1, 1, 2.0)
	_, _ = s.Insert(1, 2, 3.0)
	_, _ = s.Insert(2, 5, 4.0)

	key, depth, prob, err := s.ChooseIndexWeighted(0.99, -1, 1.0)
	require.NoError(t, err)

	revProb, err := s.ReverseChooseIndexWeighted(-1, 1.0, key, depth)
	require.NoError(t, err)
	assert.InDelta(t, prob, revProb, 1e-12)
}
