package wavetree

import "github.com/rhyshawkins/wavetree/manifold"

type sphereMode int

const (
	sphereFaceMode sphereMode = iota
	sphereVertexMode
)

// SphereTopology implements Topology over a manifold.Manifold, covering
// three of spec §3.2's five variants: Sphere2D-face (shells=1,
// face-based), Sphere3D-face (shells>1, face-based, one independent
// replica of the face hierarchy per shell), and Sphere3D-vertex
// (shells>=1, vertex-based).
//
// Tree index 0 is always the synthetic root; tree index space is then
// divided into shells equal-size blocks, one per shell, each covering
// every node of that shell's subdivision hierarchy across depth 0..
// manifold degree. Wavetree depth is manifold depth + 1 (the root
// consumes the depth-0 slot the manifold's own base faces/vertices
// would otherwise occupy).
//
// Face mode: each depth-d element's children are exactly the 4
// elements manifold's subdivision step produced for it (a contiguous
// run, since the manifold's recursive quartering always emits a
// parent's 4 children together and in order) — a clean, already
// depth-respecting quadtree.
//
// Vertex mode: a midpoint vertex's two edge endpoints are not both one
// level shallower in general (an endpoint already present before the
// most recent subdivision step stays at its original, shallower,
// depth), so the "parent" used for the companion-set tree is chosen as
// whichever endpoint has the greater introduction depth: every edge a
// subdivision step bisects has at least one endpoint introduced at
// exactly the step's source depth (the new vertices from the
// immediately preceding step), which keeps the tree depth-respecting
// (documented in DESIGN.md).
type SphereTopology struct {
	m      *manifold.Manifold
	mode   sphereMode
	shells int

	offsets        []int // offsets[d]: nodes of depth < d within one shell
	shellBlockSize int
	maxChildren    int
	childrenOf     map[int][]int // vertex mode only: canonical parent -> its children (global vertex ids)
}

// NewSphere2DFace builds the pure-2D face-based spherical topology.
func NewSphere2DFace(m *manifold.Manifold) *SphereTopology {
	return newSphereTopology(m, sphereFaceMode, 1)
}

// NewSphere3DFace builds the shell-stacked face-based spherical
// topology: shells independent replicas of m's face hierarchy, one per
// radial layer.
func NewSphere3DFace(m *manifold.Manifold, shells int) *SphereTopology {
	return newSphereTopology(m, sphereFaceMode, shells)
}

// NewSphere3DVertex builds the shell-stacked vertex-based spherical
// topology.
func NewSphere3DVertex(m *manifold.Manifold, shells int) *SphereTopology {
	return newSphereTopology(m, sphereVertexMode, shells)
}

func newSphereTopology(m *manifold.Manifold, mode sphereMode, shells int) *SphereTopology {
	if shells < 1 {
		shells = 1
	}
	t := &SphereTopology{m: m, mode: mode, shells: shells}
	maxDepth := m.Degree()
	t.offsets = make([]int, maxDepth+2)
	for d := 0; d <= maxDepth; d++ {
		t.offsets[d+1] = t.offsets[d] + t.countAtDepth(d)
	}
	t.shellBlockSize = t.offsets[maxDepth+1]

	if mode == sphereVertexMode {
		t.buildVertexChildren()
	}
	t.computeMaxChildren()
	return t
}

func (t *SphereTopology) countAtDepth(d int) int {
	if t.mode == sphereFaceMode {
		return t.m.NTrianglesAtDepth(d)
	}
	if d == 0 {
		return t.m.NVerticesAtDepth(0)
	}
	return t.m.NVerticesAtDepth(d) - t.m.NVerticesAtDepth(d-1)
}

func (t *SphereTopology) depthOf(globalOrLocal int) int {
	for d := 0; d <= t.m.Degree(); d++ {
		if globalOrLocal < t.offsets[d+1] {
			return d
		}
	}
	return t.m.Degree()
}

func (t *SphereTopology) buildVertexChildren() {
	t.childrenOf = make(map[int][]int)
	for v := t.m.NVerticesAtDepth(0); v < t.m.NVerticesAtDepth(t.m.Degree()); v++ {
		a, b, ok := t.m.MidpointParents(v)
		if !ok {
			continue
		}
		da, db := t.depthOf(a), t.depthOf(b)
		var parent int
		switch {
		case da > db:
			parent = a
		case db > da:
			parent = b
		default:
			if a < b {
				parent = a
			} else {
				parent = b
			}
		}
		t.childrenOf[parent] = append(t.childrenOf[parent], v)
	}
}

func (t *SphereTopology) computeMaxChildren() {
	if t.mode == sphereFaceMode {
		t.maxChildren = 4
		return
	}
	max := t.countAtDepth(0)
	for _, kids := range t.childrenOf {
		if len(kids) > max {
			max = len(kids)
		}
	}
	t.maxChildren = max
}

func (t *SphereTopology) localToTree(shell, d, local int) int {
	return 1 + shell*t.shellBlockSize + t.offsets[d] + local
}

func (t *SphereTopology) decode(treeIndex int) (shell, d, local int) {
	rem0 := treeIndex - 1
	shell = rem0 / t.shellBlockSize
	rem := rem0 % t.shellBlockSize
	d = t.depthOf(rem)
	local = rem - t.offsets[d]
	return
}

func (t *SphereTopology) Size() int          { return 1 + t.shells*t.shellBlockSize }
func (t *SphereTopology) MaxDepth() int      { return t.m.Degree() + 1 }
func (t *SphereTopology) MaxChildren() int   { return t.maxChildren }
func (t *SphereTopology) BaseSize() int      { return t.shells * t.countAtDepth(0) }
func (t *SphereTopology) SupportsMove() bool { return false }

func (t *SphereTopology) ParentIndex(i int) int {
	if i == 0 {
		return -1
	}
	shell, d, local := t.decode(i)
	if d == 0 {
		return 0
	}
	if t.mode == sphereFaceMode {
		return t.localToTree(shell, d-1, local/4)
	}
	global := t.offsets[d] + local
	a, b, _ := t.m.MidpointParents(global)
	da, db := t.depthOf(a), t.depthOf(b)
	var parent int
	switch {
	case da > db:
		parent = a
	case db > da:
		parent = b
	default:
		if a < b {
			parent = a
		} else {
			parent = b
		}
	}
	pd := t.depthOf(parent)
	return t.localToTree(shell, pd, parent-t.offsets[pd])
}

func (t *SphereTopology) DepthOfIndex(i int) int {
	if i == 0 {
		return 0
	}
	_, d, _ := t.decode(i)
	return d + 1
}

func (t *SphereTopology) RootChildren() []int {
	n := t.countAtDepth(0)
	out := make([]int, 0, t.shells*n)
	for s := 0; s < t.shells; s++ {
		for j := 0; j < n; j++ {
			out = append(out, t.localToTree(s, 0, j))
		}
	}
	return out
}

func (t *SphereTopology) ChildIndices(index, depth int) []int {
	if depth == 0 {
		return t.RootChildren()
	}
	shell, d, local := t.decode(index)
	if t.mode == sphereFaceMode {
		if d == t.m.Degree() {
			return nil
		}
		out := make([]int, 4)
		for j := 0; j < 4; j++ {
			out[j] = t.localToTree(shell, d+1, 4*local+j)
		}
		return out
	}

	global := t.offsets[d] + local
	kids := t.childrenOf[global]
	if len(kids) == 0 {
		return nil
	}
	out := make([]int, len(kids))
	for i, g := range kids {
		gd := t.depthOf(g)
		out[i] = t.localToTree(shell, gd, g-t.offsets[gd])
	}
	return out
}

func (t *SphereTopology) PhysicalSize() int {
	if t.mode == sphereFaceMode {
		return t.shells * t.m.NTrianglesAtDepth(t.m.Degree())
	}
	return t.shells * t.m.NVerticesAtDepth(t.m.Degree())
}

func (t *SphereTopology) PhysicalIndexOf(treeIndex int) (int, bool) {
	if treeIndex == 0 {
		return 0, false
	}
	shell, d, local := t.decode(treeIndex)
	if t.mode == sphereFaceMode {
		if d != t.m.Degree() {
			return 0, false
		}
		return shell*t.m.NTrianglesAtDepth(t.m.Degree()) + local, true
	}
	global := t.offsets[d] + local
	return shell*t.m.NVerticesAtDepth(t.m.Degree()) + global, true
}

func (t *SphereTopology) SiblingCandidates(index, depth int) []int { return nil }

func (t *SphereTopology) GeometryDegrees() []int {
	if t.shells > 1 {
		return []int{t.m.Degree(), t.shells}
	}
	return []int{t.m.Degree()}
}

func (t *SphereTopology) GeometryDims() []int { return []int{t.PhysicalSize()} }
