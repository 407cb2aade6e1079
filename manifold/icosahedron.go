package manifold

import "math"

// NewIcosahedron builds a spherical manifold from a regular icosahedron
// subdivided degree times, oriented so its two 5-fold poles sit exactly
// at (0, 0, ±1) (spec §8 "Icosahedron counts": icosahedron_create(3)
// must produce nvertices=642, nedges=1920, ntriangles=1280 with poles
// at (0, 0, ±1) within 1e-9).
//
// Grounded on original_source/sphericalwavelet/icosahedron.c: the base
// solid is the "vertex-up" icosahedron (one vertex at each pole, two
// pentagonal rings of five vertices between them) rather than the
// "edge-up" orientation, since only the vertex-up form has vertices
// sitting exactly on the poles.
func NewIcosahedron(degree int) (*Manifold, error) {
	verts, faces := icosahedronBase()
	return build(Icosahedron, degree, verts, faces), nil
}

func icosahedronBase() ([]Vertex3, []Triangle) {
	const ringZ = 1.0 / 2.23606797749978969641 // 1/sqrt(5)
	ringR := math.Sqrt(1 - ringZ*ringZ)

	verts := make([]Vertex3, 12)
	verts[0] = Vertex3{0, 0, 1}  // north pole
	verts[11] = Vertex3{0, 0, -1} // south pole
	for i := 0; i < 5; i++ {
		upperLon := float64(i) * 2 * math.Pi / 5
		lowerLon := upperLon + math.Pi/5
		verts[1+i] = Vertex3{ringR * math.Cos(upperLon), ringR * math.Sin(upperLon), ringZ}
		verts[6+i] = Vertex3{ringR * math.Cos(lowerLon), ringR * math.Sin(lowerLon), -ringZ}
	}

	faces := make([]Triangle, 0, 20)
	for i := 0; i < 5; i++ {
		next := (i + 1) % 5
		// north fan
		faces = append(faces, Triangle{0, 1 + i, 1 + next})
		// south fan
		faces = append(faces, Triangle{11, 6 + next, 6 + i})
		// middle band: one up-pointing, one down-pointing triangle per sector
		faces = append(faces, Triangle{1 + i, 1 + next, 6 + i})
		faces = append(faces, Triangle{1 + next, 6 + next, 6 + i})
	}
	return verts, faces
}

// IcosahedronNVertices, IcosahedronNEdges and IcosahedronNTriangles are
// the closed-form per-depth counts icosahedron.h exposes as
// icosahedron_nvertices/nedges/ntriangles.
func IcosahedronNVertices(depth int) int  { return NVerticesAtDepth(Icosahedron, depth) }
func IcosahedronNEdges(depth int) int     { return NEdgesAtDepth(Icosahedron, depth) }
func IcosahedronNTriangles(depth int) int { return NTrianglesAtDepth(Icosahedron, depth) }

// IcosahedronAngle returns the angular resolution (radians) of an edge
// at depth: the base icosahedron's edge-subtended angle halved once per
// subdivision step, grounded on icosahedron_angle.
func IcosahedronAngle(depth int) float64 {
	const baseAngle = 1.1071487177940904 // acos(1/sqrt5), base edge angle
	return baseAngle / math.Pow(2, float64(depth))
}
