package manifold

// NewOctahedron builds a spherical manifold from a regular octahedron
// subdivided degree times. Like the icosahedron it is built vertex-up,
// so its two 4-fold poles also land exactly at (0, 0, ±1).
//
// Grounded on original_source/sphericalwavelet/octahedron.c: used where
// a coarser base resolution than the icosahedron's 20 faces is wanted.
func NewOctahedron(degree int) (*Manifold, error) {
	verts, faces := octahedronBase()
	return build(Octahedron, degree, verts, faces), nil
}

func octahedronBase() ([]Vertex3, []Triangle) {
	verts := []Vertex3{
		{1, 0, 0},  // 0 +X
		{0, 1, 0},  // 1 +Y
		{-1, 0, 0}, // 2 -X
		{0, -1, 0}, // 3 -Y
		{0, 0, 1},  // 4 north pole
		{0, 0, -1}, // 5 south pole
	}
	faces := []Triangle{
		{4, 0, 1}, {4, 1, 2}, {4, 2, 3}, {4, 3, 0},
		{5, 1, 0}, {5, 2, 1}, {5, 3, 2}, {5, 0, 3},
	}
	return verts, faces
}

// OctahedronNVertices, OctahedronNEdges and OctahedronNTriangles are the
// closed-form per-depth counts octahedron.h exposes.
func OctahedronNVertices(depth int) int  { return NVerticesAtDepth(Octahedron, depth) }
func OctahedronNEdges(depth int) int     { return NEdgesAtDepth(Octahedron, depth) }
func OctahedronNTriangles(depth int) int { return NTrianglesAtDepth(Octahedron, depth) }
