package wavetree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSquareRect2D(t *testing.T, degree int) *Tree {
	t.Helper()
	topo, err := NewRect2D(degree, degree)
	require.NoError(t, err)
	return New(topo)
}

// TestRect2DBirthUndoCommit mirrors the literal spec §8 "Rect2D
// birth/undo/commit" scenario: a degree (7,7) tree, a committed birth,
// an undone birth, and a second committed birth, ending at three
// active coefficients.
func TestRect2DBirthUndoCommit(t *testing.T) {
	tr := newSquareRect2D(t, 7)
	require.NoError(t, tr.Initialize(0))

	require.NoError(t, tr.ProposeBirth(1, 1, 1.0))
	require.NoError(t, tr.Commit())
	require.NoError(t, tr.Valid())

	require.NoError(t, tr.ProposeBirth(2, 2, 2.0))
	require.NoError(t, tr.Undo())
	require.NoError(t, tr.Valid())
	assert.False(t, tr.sv.IsElement(2, 2))

	require.NoError(t, tr.ProposeBirth(3, 2, 3.0))
	require.NoError(t, tr.Commit())
	require.NoError(t, tr.Valid())

	assert.Equal(t, 3, tr.Coefficients())
	v1, err := tr.Value(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v1)
	v3, err := tr.Value(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v3)
}

// TestRect2DImageMapping mirrors the literal spec §8 "Rect2D image
// mapping" scenario.
func TestRect2DImageMapping(t *testing.T) {
	tr := newSquareRect2D(t, 4) // 16x16
	require.NoError(t, tr.Initialize(1.0))
	require.NoError(t, tr.ProposeBirth(1, 1, 0.5))
	require.NoError(t, tr.Commit())
	require.NoError(t, tr.ProposeBirth(16, 1, 0.25))
	require.NoError(t, tr.Commit())

	buf := make([]float64, 256)
	require.NoError(t, tr.MapToArray(buf))

	for i, v := range buf {
		switch i {
		case 0:
			assert.Equal(t, 1.0, v)
		case 1:
			assert.Equal(t, 0.5, v)
		case 16:
			assert.Equal(t, 0.25, v)
		default:
			assert.Equalf(t, 0.0, v, "index %d", i)
		}
	}
}

// TestDyckUniqueness covers spec §8 property 6: two trees with
// different active-index sets must yield different Dyck words, and
// two trees with the same active-index set must yield the same one.
// It does not assert the literal hex constants from spec §8's "Rect2D
// Dyck uniqueness" scenario, since the exact bit-packing convention of
// generate_dyck_binary is an internal choice this port does not claim
// to reproduce byte-for-byte; see DESIGN.md.
func TestDyckUniqueness(t *testing.T) {
	build := func(indices []int) *Tree {
		topo, err := NewRect2D(6, 6)
		require.NoError(t, err)
		tr := New(topo)
		require.NoError(t, tr.Initialize(0))
		for _, idx := range indices {
			if idx == 0 {
				continue
			}
			d := topo.DepthOfIndex(idx)
			require.NoErrorf(t, tr.ProposeBirth(idx, d, float64(idx)), "birth %d", idx)
			require.NoError(t, tr.Commit())
		}
		return tr
	}

	a := build([]int{0, 65, 130, 131})
	b := build([]int{0, 1, 66, 67})
	c := build([]int{0, 65, 130, 131})

	assert.NotEqual(t, a.DyckWord(), b.DyckWord())
	assert.Equal(t, a.DyckWord(), c.DyckWord())
	assert.NotEqual(t, a.DyckFingerprint(), b.DyckFingerprint())
}

// TestArrayRoundTrip covers spec §8 property 5: with threshold 0,
// create_from_array_with_threshold then map_to_array recovers the
// original array pointwise.
func TestArrayRoundTrip(t *testing.T) {
	topo, err := NewRect2D(3, 3) // 8x8
	require.NoError(t, err)
	tr := New(topo)

	a := make([]float64, 64)
	for i := range a {
		a[i] = float64(i%7) - 3
	}

	require.NoError(t, tr.CreateFromArrayWithThreshold(a, 0))
	require.NoError(t, tr.Valid())

	b := make([]float64, 64)
	require.NoError(t, tr.MapToArray(b))
	assert.Equal(t, a, b)
}

// TestChildCoverage covers spec §8 property 9: recursively
// enumerating children from index 0 visits every cell exactly once.
func TestChildCoverage(t *testing.T) {
	topo, err := NewRect2D(3, 3)
	require.NoError(t, err)

	seen := make(map[int]int)
	var walk func(index, depth int)
	walk = func(index, depth int) {
		seen[index]++
		if depth == topo.MaxDepth() {
			return
		}
		for _, c := range topo.ChildIndices(index, depth) {
			walk(c, depth+1)
		}
	}
	seen[0]++
	for _, c := range topo.RootChildren() {
		walk(c, 1)
	}

	assert.Equal(t, topo.Size(), len(seen))
	for idx, count := range seen {
		assert.Equalf(t, 1, count, "index %d visited %d times", idx, count)
	}
}

func TestProposeValueUndoCommit(t *testing.T) {
	tr := newSquareRect2D(t, 3)
	require.NoError(t, tr.Initialize(5.0))

	require.NoError(t, tr.ProposeValue(0, 0, 9.0))
	v, err := tr.Value(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
	require.NoError(t, tr.Undo())
	v, err = tr.Value(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	require.NoError(t, tr.ProposeValue(0, 0, 9.0))
	require.NoError(t, tr.Commit())
	v, err = tr.Value(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
}

func TestProposeBirthRejectsNonAttachable(t *testing.T) {
	tr := newSquareRect2D(t, 3)
	require.NoError(t, tr.Initialize(0))

	err := tr.ProposeBirth(999999, 9, 1.0)
	require.Error(t, err)
}

func TestProposeDeathRequiresLeaf(t *testing.T) {
	tr := newSquareRect2D(t, 3)
	require.NoError(t, tr.Initialize(0))
	require.NoError(t, tr.ProposeBirth(1, 1, 1.0))
	require.NoError(t, tr.Commit())

	// the root now has an active child, so it is not in S_d.
	_, err := tr.ProposeDeath(0, 0)
	require.Error(t, err)

	old, err := tr.ProposeDeath(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, old)
	require.NoError(t, tr.Commit())
	assert.Equal(t, 1, tr.Coefficients())
}

func TestProposeMoveRelocatesLeaf(t *testing.T) {
	tr := newSquareRect2D(t, 4) // 16x16, plenty of siblings
	require.NoError(t, tr.Initialize(0))
	require.NoError(t, tr.ProposeBirth(1, 1, 4.0))
	require.NoError(t, tr.Commit())

	siblings := tr.MoveAvailableSiblings(1, 1)
	require.NotEmpty(t, siblings)
	dest := siblings[0]

	require.NoError(t, tr.ProposeMove(1, dest, 1, 4.0))
	require.NoError(t, tr.Valid())
	require.NoError(t, tr.Commit())

	assert.False(t, tr.sv.IsElement(1, 1))
	v, err := tr.Value(dest, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestTextRoundTrip(t *testing.T) {
	topo, err := NewRect2D(3, 3)
	require.NoError(t, err)
	tr := New(topo)
	require.NoError(t, tr.Initialize(1.5))
	require.NoError(t, tr.ProposeBirth(1, 1, 2.5))
	require.NoError(t, tr.Commit())

	var buf bytes.Buffer
	require.NoError(t, tr.WriteText(&buf))

	topo2, err := NewRect2D(3, 3)
	require.NoError(t, err)
	tr2 := New(topo2)
	require.NoError(t, tr2.ReadText(&buf))

	assert.Equal(t, tr.Coefficients(), tr2.Coefficients())
	v, err := tr2.Value(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
	require.NoError(t, tr2.Valid())
}

func TestBinaryRoundTrip(t *testing.T) {
	topo, err := NewRect2D(3, 3)
	require.NoError(t, err)
	tr := New(topo)
	require.NoError(t, tr.Initialize(1.5))
	require.NoError(t, tr.ProposeBirth(1, 1, 2.5))
	require.NoError(t, tr.Commit())

	var buf bytes.Buffer
	require.NoError(t, tr.WriteBinary(&buf))

	topo2, err := NewRect2D(3, 3)
	require.NoError(t, err)
	tr2 := New(topo2)
	require.NoError(t, tr2.ReadBinary(&buf))

	assert.Equal(t, tr.Coefficients(), tr2.Coefficients())
	v, err := tr2.Value(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestChooserRoundTripsAgreeWithCompanionSets(t *testing.T) {
	tr := newSquareRect2D(t, 4)
	require.NoError(t, tr.Initialize(0))

	depth, _, err := tr.ChooseBirthDepth(0.1, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	idx, _, err := tr.ChooseBirth(depth, 0.0)
	require.NoError(t, err)

	require.NoError(t, tr.ProposeBirth(idx, depth, 1.0))
	require.NoError(t, tr.Commit())

	revProb, err := tr.ReverseBirth(depth, idx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, revProb, 1e-12) // single S_d member at this depth
}
