package manifold

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcosahedronCounts(t *testing.T) {
	m, err := NewIcosahedron(3)
	require.NoError(t, err)
	require.NoError(t, m.Valid())

	assert.Equal(t, 642, m.NVerticesAtDepth(3))
	assert.Equal(t, 1920, m.NEdgesAtDepth(3))
	assert.Equal(t, 1280, m.NTrianglesAtDepth(3))

	north := m.vertices[0]
	south := m.vertices[11]
	assert.InDelta(t, 0.0, north.X, 1e-9)
	assert.InDelta(t, 0.0, north.Y, 1e-9)
	assert.InDelta(t, 1.0, north.Z, 1e-9)
	assert.InDelta(t, 0.0, south.X, 1e-9)
	assert.InDelta(t, 0.0, south.Y, 1e-9)
	assert.InDelta(t, -1.0, south.Z, 1e-9)
}

func TestIcosahedronCountsAtEveryDepth(t *testing.T) {
	for d := 0; d <= 3; d++ {
		m, err := NewIcosahedron(d)
		require.NoError(t, err)
		assert.Equal(t, len(m.vertices), m.NVerticesAtDepth(d))
		assert.Equal(t, len(m.edgesByDepth[d]), m.NEdgesAtDepth(d))
		assert.Equal(t, len(m.trianglesByDepth[d]), m.NTrianglesAtDepth(d))
	}
}

func TestOctahedronCounts(t *testing.T) {
	m, err := NewOctahedron(2)
	require.NoError(t, err)
	require.NoError(t, m.Valid())
	assert.Equal(t, 4*16+2, m.NVerticesAtDepth(2))
	assert.Equal(t, 12*16, m.NEdgesAtDepth(2))
	assert.Equal(t, 8*16, m.NTrianglesAtDepth(2))
}

func TestAreasSumToFullSphere(t *testing.T) {
	m, err := NewIcosahedron(2)
	require.NoError(t, err)
	for d := 0; d <= 2; d++ {
		assert.InDelta(t, 4*math.Pi, m.TotalArea(d), 1e-6)
	}
}

func TestVerticesLieOnUnitSphere(t *testing.T) {
	m, err := NewIcosahedron(2)
	require.NoError(t, err)
	for _, v := range m.Vertices() {
		assert.InDelta(t, 1.0, v.length(), 1e-12)
	}
}

func TestMidpointParentsResolveToBaseVertices(t *testing.T) {
	m, err := NewIcosahedron(2)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, _, ok := m.MidpointParents(i)
		assert.False(t, ok)
	}
	n0 := m.NVerticesAtDepth(0)
	a, b, ok := m.MidpointParents(n0)
	require.True(t, ok)
	assert.True(t, a >= 0 && a < len(m.vertices))
	assert.True(t, b >= 0 && b < len(m.vertices))
}

func TestFindNearestVertexFindsPole(t *testing.T) {
	m, err := NewIcosahedron(2)
	require.NoError(t, err)
	v, err := m.FindNearestVertex(0, math.Pi/2)
	require.NoError(t, err)
	assert.Equal(t, 0, v) // north pole is vertex 0
}

func TestFindEnclosingTriangleContainsQueryPoint(t *testing.T) {
	m, err := NewIcosahedron(2)
	require.NoError(t, err)
	// the centroid direction of the first finest-depth triangle must
	// resolve to that same triangle.
	tri := m.trianglesByDepth[2][0]
	a, b, c := m.vertices[tri.A], m.vertices[tri.B], m.vertices[tri.C]
	centroid := a.add(b).add(c).scale(1.0 / 3.0).normalized()
	lon, lat := centroid.LonLat()

	ti, ba, bb, bc, err := m.FindEnclosingTriangle(lon, lat)
	require.NoError(t, err)
	assert.Equal(t, 0, ti)
	assert.InDelta(t, 1.0, ba+bb+bc, 1e-9)
	assert.Greater(t, ba, 0.0)
	assert.Greater(t, bb, 0.0)
	assert.Greater(t, bc, 0.0)
}

func TestSaveGeoProducesHeaderAndPrimitives(t *testing.T) {
	m, err := NewIcosahedron(1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.SaveGeo(&buf))
	out := buf.String()
	assert.Contains(t, out, "PGEOMETRY V5")
	assert.Contains(t, out, "NPoints 42 NPrims 80")
}
