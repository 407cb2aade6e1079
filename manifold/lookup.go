package manifold

import "github.com/rhyshawkins/wavetree/internal/werr"

// FindNearestVertex returns the vertex (at the manifold's finest depth)
// whose direction from the sphere's centre is closest to (lon, lat).
//
// Grounded on manifold_find_nearest_vertex: the original descends the
// subdivision hierarchy to avoid a linear scan; this does the linear
// scan directly over the finest-depth vertex set (NVerticesAtDepth at
// Degree()), which is simpler and gives the identical result since
// nearest-vertex search has no approximation to make — only the
// traversal strategy differs. Documented as a simplification in
// DESIGN.md.
func (m *Manifold) FindNearestVertex(lon, lat float64) (int, error) {
	if len(m.vertices) == 0 {
		return 0, werr.New(werr.BadArg, "manifold.FindNearestVertex", nil)
	}
	target := LonLatToVertex(lon, lat)
	n := m.NVerticesAtDepth(m.degree)
	best, bestDot := -1, -2.0
	for i := 0; i < n; i++ {
		d := m.vertices[i].dot(target)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return best, nil
}

// FindEnclosingTriangle locates the finest-depth triangle containing
// (lon, lat) and returns its barycentric weights (ba, bb, bc), each
// summing to 1.
//
// Grounded on manifold_find_enclosing_triangle /
// manifold_compute_barycentre_coordinates: containment is tested via
// the sign of each edge's great-circle plane normal dotted with the
// query point (all three must agree in sign with the triangle's own
// orientation), and the barycentric weights are the solution of the
// planar system formed by projecting the query point onto the
// triangle's plane — an adequate approximation for the small
// (sub-triangle-angle) barycentric interpolation this supports.
func (m *Manifold) FindEnclosingTriangle(lon, lat float64) (triIndex int, ba, bb, bc float64, err error) {
	const op = "manifold.FindEnclosingTriangle"
	p := LonLatToVertex(lon, lat)
	tris := m.trianglesByDepth[m.degree]
	for i, t := range tris {
		a, b, c := m.vertices[t.A], m.vertices[t.B], m.vertices[t.C]
		orient := 1.0
		if a.cross(b).dot(c) < 0 {
			orient = -1
		}
		s1 := sign(orient * a.cross(b).dot(p))
		s2 := sign(orient * b.cross(c).dot(p))
		s3 := sign(orient * c.cross(a).dot(p))
		if s1 >= 0 && s2 >= 0 && s3 >= 0 {
			wa, wb, wc := barycentric(a, b, c, p)
			return i, wa, wb, wc, nil
		}
	}
	return 0, 0, 0, 0, werr.New(werr.BadArg, op, nil)
}

func sign(v float64) int {
	switch {
	case v > 1e-12:
		return 1
	case v < -1e-12:
		return -1
	default:
		return 0
	}
}

// barycentric projects p onto the plane of triangle (a, b, c) and
// solves for the planar barycentric weights via the standard
// area-ratio construction.
func barycentric(a, b, c, p Vertex3) (wa, wb, wc float64) {
	v0 := b.add(a.scale(-1))
	v1 := c.add(a.scale(-1))
	v2 := p.add(a.scale(-1))
	d00 := v0.dot(v0)
	d01 := v0.dot(v1)
	d11 := v1.dot(v1)
	d20 := v2.dot(v0)
	d21 := v2.dot(v1)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 1, 0, 0
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1 - v - w
	return u, v, w
}
