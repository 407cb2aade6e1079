package wavetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyshawkins/wavetree/manifold"
)

func TestSphere2DFaceChildCoverage(t *testing.T) {
	m, err := manifold.NewIcosahedron(2)
	require.NoError(t, err)
	topo := NewSphere2DFace(m)

	assert.Equal(t, 20, topo.BaseSize())
	assert.Equal(t, m.NTrianglesAtDepth(2), topo.PhysicalSize())
	assert.Equal(t, 3, topo.MaxDepth())

	visited := make(map[int]bool)
	var walk func(idx, depth int)
	walk = func(idx, depth int) {
		visited[idx] = true
		for _, c := range topo.ChildIndices(idx, depth) {
			assert.Equal(t, idx, topo.ParentIndex(c))
			assert.Equal(t, depth+1, topo.DepthOfIndex(c))
			walk(c, depth+1)
		}
	}
	walk(0, 0)
	// root + every face at every depth (0..2) = 1 + 20+80+320
	assert.Equal(t, 1+20+80+320, len(visited))
}

func TestSphere2DFaceInitializeAndBirth(t *testing.T) {
	m, err := manifold.NewIcosahedron(1)
	require.NoError(t, err)
	topo := NewSphere2DFace(m)
	tr := New(topo)
	require.NoError(t, tr.Initialize(0))
	require.NoError(t, tr.Valid())

	rootChild := topo.RootChildren()[0]
	require.NoError(t, tr.ProposeBirth(rootChild, 1, 2.5))
	require.NoError(t, tr.Commit())
	require.NoError(t, tr.Valid())
	v, err := tr.Value(rootChild, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestSphere3DFaceShellsAreIndependent(t *testing.T) {
	m, err := manifold.NewIcosahedron(1)
	require.NoError(t, err)
	topo := NewSphere3DFace(m, 3)
	assert.Equal(t, 3*20, topo.BaseSize())
	assert.Equal(t, 3*m.NTrianglesAtDepth(1), topo.PhysicalSize())

	roots := topo.RootChildren()
	assert.Equal(t, 60, len(roots))
	for _, r := range roots {
		assert.Equal(t, 0, topo.ParentIndex(r))
	}
}

func TestSphereVertexParentIsOneLevelShallower(t *testing.T) {
	m, err := manifold.NewIcosahedron(3)
	require.NoError(t, err)
	topo := NewSphere3DVertex(m, 1)

	visited := make(map[int]bool)
	var walk func(idx, depth int)
	walk = func(idx, depth int) {
		visited[idx] = true
		for _, c := range topo.ChildIndices(idx, depth) {
			assert.Equal(t, idx, topo.ParentIndex(c))
			assert.Equal(t, depth+1, topo.DepthOfIndex(c))
			walk(c, depth+1)
		}
	}
	walk(0, 0)
	assert.Equal(t, 1+m.NVerticesAtDepth(3), len(visited))
}

func TestSphereVertexPhysicalIndexBijective(t *testing.T) {
	m, err := manifold.NewIcosahedron(2)
	require.NoError(t, err)
	topo := NewSphere3DVertex(m, 1)
	n := m.NVerticesAtDepth(2)
	assert.Equal(t, n, topo.PhysicalSize())

	seen := make(map[int]bool)
	for v := 0; v < n; v++ {
		d := topo.depthOf(v)
		local := v - topo.offsets[d]
		ti := topo.localToTree(0, d, local)
		phys, ok := topo.PhysicalIndexOf(ti)
		require.True(t, ok)
		assert.False(t, seen[phys])
		seen[phys] = true
		assert.Equal(t, v, phys)
	}
}

func TestSphereTopologyDoesNotSupportMove(t *testing.T) {
	m, err := manifold.NewIcosahedron(1)
	require.NoError(t, err)
	topo := NewSphere2DFace(m)
	assert.False(t, topo.SupportsMove())
	assert.Nil(t, topo.SiblingCandidates(1, 1))
}
