package wavetree

import "github.com/rhyshawkins/wavetree/internal/werr"

// RectTopology implements Topology for dyadic rectangular grids in 2
// or 3 dimensions (spec §3.2 "Rect2D/Rect3D"), optionally with a
// non-power-of-two "subtile" of base cells at depth 0. It is
// grounded on wavetree2d_sub.c/wavetree3d_sub.c from original_source:
// the coordinate folding in ParentIndex/ChildIndices is a direct,
// dimension-generalised port of those files' 2dindices/from_2dindices/
// parent_index/child_indices logic.
//
// Construction takes one "degree" per axis; axis k has dimension
// 2^degree[k]. When the degrees differ, the smallest becomes
// degreeMin and every axis is subdivided into a base subtile of
// 2^(degree[k]-degreeMin) cells so that the coarsest common
// resolution still has a single synthetic root.
type RectTopology struct {
	nd       int
	degrees  []int
	dims     []int
	baseDims []int
	baseSize int
	maxDepth int
	baseIdx  []int // tree indices of the depth-1 base cells, in canonical (row-major) order
}

// NewRect2D builds a RectTopology over a degreeW x degreeH grid.
func NewRect2D(degreeW, degreeH int) (*RectTopology, error) {
	return newRectTopology([]int{degreeW, degreeH})
}

// NewRect3D builds a RectTopology over a degreeW x degreeH x degreeD grid.
func NewRect3D(degreeW, degreeH, degreeD int) (*RectTopology, error) {
	return newRectTopology([]int{degreeW, degreeH, degreeD})
}

func newRectTopology(degrees []int) (*RectTopology, error) {
	nd := len(degrees)
	degreeMin := degrees[0]
	degreeMax := degrees[0]
	for _, d := range degrees {
		if d < 0 {
			return nil, werr.New(werr.BadArg, "wavetree.NewRectTopology", nil)
		}
		if d < degreeMin {
			degreeMin = d
		}
		if d > degreeMax {
			degreeMax = d
		}
	}

	t := &RectTopology{nd: nd, degrees: append([]int(nil), degrees...), dims: make([]int, nd), baseDims: make([]int, nd)}
	baseSize := 1
	for k, d := range degrees {
		t.dims[k] = 1 << uint(d)
		t.baseDims[k] = 1 << uint(d-degreeMin)
		baseSize *= t.baseDims[k]
	}
	t.baseSize = baseSize
	t.maxDepth = degreeMax

	if baseSize == 1 {
		t.baseIdx = []int{0}
	} else {
		t.baseIdx = make([]int, 0, baseSize)
		t.forEachCoord(t.baseDims, func(coord []int) {
			t.baseIdx = append(t.baseIdx, t.fromCoord(coord))
		})
	}

	return t, nil
}

// forEachCoord enumerates every coordinate in [0,bounds[0])x...
// in row-major order (first axis fastest), matching the original
// source's `for j { for i { ... } }` nesting (last axis outermost).
func (t *RectTopology) forEachCoord(bounds []int, fn func(coord []int)) {
	coord := make([]int, t.nd)
	var rec func(axis int)
	rec = func(axis int) {
		if axis < 0 {
			cp := append([]int(nil), coord...)
			fn(cp)
			return
		}
		for v := 0; v < bounds[axis]; v++ {
			coord[axis] = v
			rec(axis - 1)
		}
	}
	rec(t.nd - 1)
}

func (t *RectTopology) fromCoord(coord []int) int {
	linear := 0
	for k := t.nd - 1; k >= 0; k-- {
		linear = linear*t.dims[k] + coord[k]
	}
	if t.baseSize == 1 {
		return linear
	}
	return linear + 1
}

func (t *RectTopology) toCoord(i int) []int {
	v := i
	if t.baseSize > 1 {
		v = i - 1
	}
	coord := make([]int, t.nd)
	for k := 0; k < t.nd; k++ {
		coord[k] = v % t.dims[k]
		v /= t.dims[k]
	}
	return coord
}

func (t *RectTopology) inBounds(coord []int) bool {
	for k, c := range coord {
		if c < 0 || c >= t.dims[k] {
			return false
		}
	}
	return true
}

// Size implements Topology.
func (t *RectTopology) Size() int {
	n := 1
	for _, d := range t.dims {
		n *= d
	}
	if t.baseSize > 1 {
		n++
	}
	return n
}

// MaxDepth implements Topology.
func (t *RectTopology) MaxDepth() int { return t.maxDepth }

// MaxChildren implements Topology.
func (t *RectTopology) MaxChildren() int {
	n := 1 << uint(t.nd)
	if t.baseSize > n {
		return t.baseSize
	}
	return n
}

// BaseSize implements Topology.
func (t *RectTopology) BaseSize() int { return t.baseSize }

// ParentIndex implements Topology, porting wavetree2d_sub_parent_index
// generalised to nd axes: a coordinate inside the base subtile has the
// root as parent; a coordinate inside the subtile's direct-descendant
// zone (every axis < 2*baseDim) folds back into the subtile by taking
// each axis modulo its baseDim; everything else halves every axis.
func (t *RectTopology) ParentIndex(i int) int {
	if i == 0 {
		return -1
	}
	coord := t.toCoord(i)

	if t.baseSize > 1 {
		inSubtile := true
		inDirectDescendant := true
		for k, c := range coord {
			if c >= t.baseDims[k] {
				inSubtile = false
			}
			if c >= 2*t.baseDims[k] {
				inDirectDescendant = false
			}
		}
		if inSubtile {
			return 0
		}
		if inDirectDescendant {
			folded := make([]int, t.nd)
			for k, c := range coord {
				folded[k] = c % t.baseDims[k]
			}
			return t.fromCoord(folded)
		}
	}

	halved := make([]int, t.nd)
	for k, c := range coord {
		halved[k] = c / 2
	}
	return t.fromCoord(halved)
}

// DepthOfIndex implements Topology by walking ParentIndex to the root.
func (t *RectTopology) DepthOfIndex(i int) int {
	d := 0
	for i != 0 {
		i = t.ParentIndex(i)
		d++
	}
	return d
}

// ChildIndices implements Topology, porting
// wavetree2d_sub_child_indices generalised to nd axes: at depth 0 with
// a subtile, children are every base cell; at depth 1 with a subtile,
// children are the non-zero axis offsets into the direct-descendant
// zone (the node's own position already covers the all-zero offset);
// otherwise children are the 2^nd dyadic sub-cells of doubling every
// coordinate.
func (t *RectTopology) ChildIndices(index, depth int) []int {
	if t.baseSize > 1 && depth == 0 {
		out := make([]int, len(t.baseIdx))
		copy(out, t.baseIdx)
		return out
	}

	coord := t.toCoord(index)

	if t.baseSize > 1 && depth == 1 {
		var out []int
		t.forEachMask(func(mask []bool) {
			allZero := true
			for _, m := range mask {
				if m {
					allZero = false
				}
			}
			if allZero {
				return
			}
			child := make([]int, t.nd)
			for k, c := range coord {
				child[k] = c
				if mask[k] {
					child[k] += t.baseDims[k]
				}
			}
			if t.inBounds(child) {
				out = append(out, t.fromCoord(child))
			}
		})
		return out
	}

	var out []int
	t.forEachMask(func(mask []bool) {
		child := make([]int, t.nd)
		for k, c := range coord {
			child[k] = 2 * c
			if mask[k] {
				child[k]++
			}
		}
		if !t.inBounds(child) {
			return
		}
		ci := t.fromCoord(child)
		// The all-zero coordinate only ever belongs to the synthetic
		// root (index 0): doubling it reproduces itself rather than a
		// genuine child, which only arises when index itself is 0.
		if ci == index {
			return
		}
		out = append(out, ci)
	})
	return out
}

// forEachMask enumerates every combination of true/false across nd axes.
func (t *RectTopology) forEachMask(fn func(mask []bool)) {
	mask := make([]bool, t.nd)
	var rec func(axis int)
	rec = func(axis int) {
		if axis == t.nd {
			fn(mask)
			return
		}
		mask[axis] = false
		rec(axis + 1)
		mask[axis] = true
		rec(axis + 1)
	}
	rec(0)
}

// PhysicalSize implements Topology: the dense array has one cell per
// grid point, independent of the subtile convention.
func (t *RectTopology) PhysicalSize() int {
	n := 1
	for _, d := range t.dims {
		n *= d
	}
	return n
}

// PhysicalIndexOf implements Topology.
func (t *RectTopology) PhysicalIndexOf(treeIndex int) (int, bool) {
	if t.baseSize > 1 && treeIndex == 0 {
		return 0, false
	}
	if t.baseSize > 1 {
		return treeIndex - 1, true
	}
	return treeIndex, true
}

// RootChildren implements Topology.
func (t *RectTopology) RootChildren() []int { return t.ChildIndices(0, 0) }

// SupportsMove implements Topology: move is defined for rectangular
// domains only (spec §9 "move is implemented only for rect2d/3d").
func (t *RectTopology) SupportsMove() bool { return true }

// SiblingCandidates implements Topology: the dyadic 3^nd-1
// neighbours of index at the same depth (spec calls these "the ≤8
// dyadic 8-neighbours at the same depth" for the 2D case; this
// generalises the same idea to nd axes via unit offsets on each axis
// independently, excluding the zero offset).
func (t *RectTopology) SiblingCandidates(index, depth int) []int {
	if index == 0 {
		return nil
	}
	coord := t.toCoord(index)
	var out []int
	t.forEachOffset(func(off []int) {
		allZero := true
		for _, o := range off {
			if o != 0 {
				allZero = false
			}
		}
		if allZero {
			return
		}
		cand := make([]int, t.nd)
		for k, c := range coord {
			cand[k] = c + off[k]
		}
		if !t.inBounds(cand) {
			return
		}
		ci := t.fromCoord(cand)
		if t.DepthOfIndex(ci) == depth {
			out = append(out, ci)
		}
	})
	return out
}

// GeometryDegrees implements Topology.
func (t *RectTopology) GeometryDegrees() []int { return append([]int(nil), t.degrees...) }

// GeometryDims implements Topology.
func (t *RectTopology) GeometryDims() []int { return append([]int(nil), t.dims...) }

// forEachOffset enumerates every combination of {-1,0,1} per axis.
func (t *RectTopology) forEachOffset(fn func(off []int)) {
	off := make([]int, t.nd)
	var rec func(axis int)
	rec = func(axis int) {
		if axis == t.nd {
			fn(off)
			return
		}
		for _, v := range []int{-1, 0, 1} {
			off[axis] = v
			rec(axis + 1)
		}
	}
	rec(0)
}
