package transform

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyshawkins/wavetree/manifold"
)

func uniformField(n int, c float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = c
	}
	return v
}

func randomField(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64()*2 - 1
	}
	return v
}

func TestFaceSubdivisionWaveletConstant(t *testing.T) {
	for depth := 0; depth <= 7; depth++ {
		tr := NewFaceSubdivision(manifold.Icosahedron, depth)
		n := manifold.NTrianglesAtDepth(manifold.Icosahedron, depth)
		field := uniformField(n, 3.5)

		coeffs, err := tr.Forward(field)
		require.NoError(t, err)

		base := manifold.NTrianglesAtDepth(manifold.Icosahedron, 0)
		for i := base; i < len(coeffs); i++ {
			assert.InDelta(t, 0.0, coeffs[i], 1e-9)
		}
		for i := 0; i < base; i++ {
			assert.InDelta(t, 3.5, coeffs[i], 1e-9)
		}

		back, err := tr.Inverse(coeffs)
		require.NoError(t, err)
		for i := range field {
			assert.InDelta(t, field[i], back[i], 1e-9)
		}
	}
}

func TestFaceSubdivisionForwardInverseRoundTrip(t *testing.T) {
	for depth := 0; depth <= 7; depth++ {
		tr := NewFaceSubdivision(manifold.Icosahedron, depth)
		n := manifold.NTrianglesAtDepth(manifold.Icosahedron, depth)
		field := randomField(n, int64(depth)+1)

		coeffs, err := tr.Forward(field)
		require.NoError(t, err)
		back, err := tr.Inverse(coeffs)
		require.NoError(t, err)
		for i := range field {
			assert.InDelta(t, field[i], back[i], 1e-9)
		}
	}
}

func TestFaceBiorthogonalHaarRoundTrip(t *testing.T) {
	m, err := manifold.NewIcosahedron(3)
	require.NoError(t, err)
	tr := NewFaceBiorthogonalHaar(m)
	n := manifold.NTrianglesAtDepth(manifold.Icosahedron, 3)
	field := randomField(n, 7)

	coeffs, err := tr.Forward(field)
	require.NoError(t, err)
	back, err := tr.Inverse(coeffs)
	require.NoError(t, err)
	for i := range field {
		assert.InDelta(t, field[i], back[i], 1e-9)
	}
}

func TestFaceBiorthogonalHaarWaveletConstant(t *testing.T) {
	m, err := manifold.NewIcosahedron(2)
	require.NoError(t, err)
	tr := NewFaceBiorthogonalHaar(m)
	n := manifold.NTrianglesAtDepth(manifold.Icosahedron, 2)
	field := uniformField(n, -2.0)

	coeffs, err := tr.Forward(field)
	require.NoError(t, err)
	base := manifold.NTrianglesAtDepth(manifold.Icosahedron, 0)
	for i := base; i < len(coeffs); i++ {
		assert.InDelta(t, 0.0, coeffs[i], 1e-9)
	}
}

func TestVertexButterflyForwardInverseRoundTrip(t *testing.T) {
	for depth := 0; depth <= 7; depth++ {
		m, err := manifold.NewIcosahedron(depth)
		require.NoError(t, err)
		for _, lifted := range []bool{false, true} {
			tr := NewVertexButterfly(m, lifted)
			n := m.NVerticesAtDepth(depth)
			field := randomField(n, int64(depth*2+1))

			coeffs, err := tr.Forward(field)
			require.NoError(t, err)
			back, err := tr.Inverse(coeffs)
			require.NoError(t, err)
			for i := range field {
				assert.InDeltaf(t, field[i], back[i], 1e-9, "depth=%d lifted=%v index=%d", depth, lifted, i)
			}
		}
	}
}

func TestVertexButterflyWaveletConstant(t *testing.T) {
	m, err := manifold.NewIcosahedron(3)
	require.NoError(t, err)
	for _, lifted := range []bool{false, true} {
		tr := NewVertexButterfly(m, lifted)
		n := m.NVerticesAtDepth(3)
		field := uniformField(n, 1.25)

		coeffs, err := tr.Forward(field)
		require.NoError(t, err)
		base := m.NVerticesAtDepth(0)
		for i := base; i < len(coeffs); i++ {
			assert.InDelta(t, 0.0, coeffs[i], 1e-9)
		}
	}
}

func TestShellForwardInverseRoundTrip(t *testing.T) {
	s, err := NewShell(16)
	require.NoError(t, err)
	field := randomField(16, 99)
	coeffs, err := s.Forward(field)
	require.NoError(t, err)
	back, err := s.Inverse(coeffs)
	require.NoError(t, err)
	for i := range field {
		assert.InDelta(t, field[i], back[i], 1e-9)
	}
}

func TestShellRejectsNonPowerOfTwo(t *testing.T) {
	_, err := NewShell(10)
	assert.Error(t, err)
}
