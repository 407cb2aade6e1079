package manifold

import "github.com/rhyshawkins/wavetree/internal/werr"

// Triangle holds the three vertex ids (into Manifold.Vertices) of one
// mesh face.
type Triangle struct {
	A, B, C int
}

// Edge holds the two vertex ids of one mesh edge.
type Edge struct {
	A, B int
}

// Solid names the base polyhedron a Manifold was subdivided from.
type Solid int

const (
	Icosahedron Solid = iota
	Octahedron
)

// Manifold is a recursively quartered spherical mesh: trianglesByDepth[d]
// holds the full triangle list AT resolution d (20·4^d faces for an
// icosahedron, 8·4^d for an octahedron), and vertices accumulates every
// vertex introduced at depth 0..d, so an index into vertices is valid at
// every subsequent depth once introduced.
//
// Grounded on original_source/sphericalwavelet/manifold.h's manifold_t:
// the per-depth function-pointer counters described there are replaced
// by the closed-form NVerticesAtDepth/NEdgesAtDepth/NTrianglesAtDepth
// below, derived from the same Euler-formula recurrence the C counting
// functions implement (V_k = V_0 + E_0·(4^k−1)/3, E_k = E_0·4^k,
// F_k = F_0·4^k).
type Manifold struct {
	solid  Solid
	degree int

	vertices []Vertex3
	// parents[v] holds the two vertex ids v was the midpoint of, or
	// (-1,-1) for a base (depth-0) vertex.
	parents [][2]int

	trianglesByDepth [][]Triangle
	edgesByDepth     [][]Edge
	areasByDepth     [][]float64
}

// Degree returns the subdivision depth the manifold was built to.
func (m *Manifold) Degree() int { return m.degree }

// Solid returns which base polyhedron the manifold subdivides.
func (m *Manifold) Solid() Solid { return m.solid }

func baseCounts(s Solid) (v, e, f int) {
	switch s {
	case Octahedron:
		return 6, 12, 8
	default:
		return 12, 30, 20
	}
}

func pow4(k int) int {
	r := 1
	for i := 0; i < k; i++ {
		r *= 4
	}
	return r
}

// NVerticesAtDepth returns the cumulative vertex count after subdividing
// to depth (inclusive): V_0 + E_0·(4^depth−1)/3.
func NVerticesAtDepth(s Solid, depth int) int {
	v0, e0, _ := baseCounts(s)
	return v0 + e0*(pow4(depth)-1)/3
}

// NEdgesAtDepth returns the edge count of the depth-resolution mesh
// (not cumulative): E_0·4^depth.
func NEdgesAtDepth(s Solid, depth int) int {
	_, e0, _ := baseCounts(s)
	return e0 * pow4(depth)
}

// NTrianglesAtDepth returns the triangle count of the depth-resolution
// mesh (not cumulative): F_0·4^depth.
func NTrianglesAtDepth(s Solid, depth int) int {
	_, _, f0 := baseCounts(s)
	return f0 * pow4(depth)
}

func (m *Manifold) NVerticesAtDepth(depth int) int  { return NVerticesAtDepth(m.solid, depth) }
func (m *Manifold) NEdgesAtDepth(depth int) int     { return NEdgesAtDepth(m.solid, depth) }
func (m *Manifold) NTrianglesAtDepth(depth int) int { return NTrianglesAtDepth(m.solid, depth) }

// Vertices returns every vertex introduced up to and including Degree(),
// indexed by global vertex id.
func (m *Manifold) Vertices() []Vertex3 { return m.vertices }

// VertexAt returns the vertex at global id i.
func (m *Manifold) VertexAt(i int) (Vertex3, error) {
	if i < 0 || i >= len(m.vertices) {
		return Vertex3{}, werr.New(werr.BadArg, "manifold.VertexAt", nil)
	}
	return m.vertices[i], nil
}

// MidpointParents returns the two vertex ids that vertex i was the
// edge midpoint of. ok is false for a base (depth-0) vertex.
func (m *Manifold) MidpointParents(i int) (a, b int, ok bool) {
	if i < 0 || i >= len(m.parents) {
		return 0, 0, false
	}
	p := m.parents[i]
	if p[0] < 0 {
		return 0, 0, false
	}
	return p[0], p[1], true
}

// TriangleAt returns triangle index i at depth.
func (m *Manifold) TriangleAt(depth, index int) (Triangle, error) {
	if depth < 0 || depth > m.degree {
		return Triangle{}, werr.New(werr.BadArg, "manifold.TriangleAt", nil)
	}
	ts := m.trianglesByDepth[depth]
	if index < 0 || index >= len(ts) {
		return Triangle{}, werr.New(werr.BadArg, "manifold.TriangleAt", nil)
	}
	return ts[index], nil
}

// Triangles returns the full triangle list at depth.
func (m *Manifold) Triangles(depth int) []Triangle { return m.trianglesByDepth[depth] }

// EdgeAt returns edge index i at depth.
func (m *Manifold) EdgeAt(depth, index int) (Edge, error) {
	if depth < 0 || depth > m.degree {
		return Edge{}, werr.New(werr.BadArg, "manifold.EdgeAt", nil)
	}
	es := m.edgesByDepth[depth]
	if index < 0 || index >= len(es) {
		return Edge{}, werr.New(werr.BadArg, "manifold.EdgeAt", nil)
	}
	return es[index], nil
}

// Edges returns the full edge list at depth.
func (m *Manifold) Edges(depth int) []Edge { return m.edgesByDepth[depth] }

// AreaAt returns the precomputed spherical area of triangle index at
// depth (see computeAreas).
func (m *Manifold) AreaAt(depth, index int) (float64, error) {
	if depth < 0 || depth > m.degree {
		return 0, werr.New(werr.BadArg, "manifold.AreaAt", nil)
	}
	as := m.areasByDepth[depth]
	if index < 0 || index >= len(as) {
		return 0, werr.New(werr.BadArg, "manifold.AreaAt", nil)
	}
	return as[index], nil
}

// TotalArea sums the areas of every triangle at depth; for a unit
// sphere this should equal 4π regardless of depth.
func (m *Manifold) TotalArea(depth int) float64 {
	var total float64
	for _, a := range m.areasByDepth[depth] {
		total += a
	}
	return total
}

type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// build runs the shared recursive-subdivision engine: baseVerts/baseFaces
// describe the depth-0 solid, and degree further 1-to-4 quartering steps
// are applied, memoising edge midpoints within each step so a shared
// edge produces exactly one new vertex.
func build(solid Solid, degree int, baseVerts []Vertex3, baseFaces []Triangle) *Manifold {
	m := &Manifold{solid: solid, degree: degree}
	m.vertices = append([]Vertex3(nil), baseVerts...)
	m.parents = make([][2]int, len(baseVerts))
	for i := range m.parents {
		m.parents[i] = [2]int{-1, -1}
	}

	m.trianglesByDepth = make([][]Triangle, degree+1)
	m.trianglesByDepth[0] = append([]Triangle(nil), baseFaces...)

	for d := 1; d <= degree; d++ {
		prev := m.trianglesByDepth[d-1]
		next := make([]Triangle, 0, len(prev)*4)
		mid := make(map[edgeKey]int, len(prev)*3)

		getMid := func(a, b int) int {
			k := makeEdgeKey(a, b)
			if v, ok := mid[k]; ok {
				return v
			}
			nv := midpoint(m.vertices[a], m.vertices[b])
			id := len(m.vertices)
			m.vertices = append(m.vertices, nv)
			m.parents = append(m.parents, [2]int{k.a, k.b})
			mid[k] = id
			return id
		}

		for _, tri := range prev {
			ab := getMid(tri.A, tri.B)
			bc := getMid(tri.B, tri.C)
			ca := getMid(tri.C, tri.A)
			next = append(next,
				Triangle{tri.A, ab, ca},
				Triangle{tri.B, bc, ab},
				Triangle{tri.C, ca, bc},
				Triangle{ab, bc, ca},
			)
		}
		m.trianglesByDepth[d] = next
	}

	m.edgesByDepth = make([][]Edge, degree+1)
	m.areasByDepth = make([][]float64, degree+1)
	for d := 0; d <= degree; d++ {
		m.edgesByDepth[d] = edgesOf(m.trianglesByDepth[d])
		m.computeAreasAt(d)
	}
	return m
}

func edgesOf(tris []Triangle) []Edge {
	seen := make(map[edgeKey]bool, len(tris)*3)
	out := make([]Edge, 0, len(tris)*3/2)
	add := func(a, b int) {
		k := makeEdgeKey(a, b)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, Edge{k.a, k.b})
	}
	for _, t := range tris {
		add(t.A, t.B)
		add(t.B, t.C)
		add(t.C, t.A)
	}
	return out
}

// computeAreasAt fills areasByDepth[d], grounded on manifold_compute_areas:
// each triangle's spherical excess area on the unit sphere.
func (m *Manifold) computeAreasAt(depth int) {
	tris := m.trianglesByDepth[depth]
	areas := make([]float64, len(tris))
	for i, t := range tris {
		areas[i] = sphericalTriangleArea(m.vertices[t.A], m.vertices[t.B], m.vertices[t.C])
	}
	m.areasByDepth[depth] = areas
}

// ComputeAreas recomputes the cached per-depth triangle areas; callers
// normally never need this since build() already populates them, but it
// is exposed for parity with manifold_compute_areas after an external
// vertex perturbation.
func (m *Manifold) ComputeAreas() {
	for d := 0; d <= m.degree; d++ {
		m.computeAreasAt(d)
	}
}

// Valid audits basic structural invariants: grounded on
// manifold_validate.c, it checks every triangle at every depth
// references valid vertex ids and that the finest depth's vertex count
// matches the closed-form count.
func (m *Manifold) Valid() error {
	const op = "manifold.Valid"
	if len(m.vertices) != m.NVerticesAtDepth(m.degree) {
		return werr.New(werr.BadArg, op, nil)
	}
	for d := 0; d <= m.degree; d++ {
		if len(m.trianglesByDepth[d]) != m.NTrianglesAtDepth(d) {
			return werr.New(werr.BadArg, op, nil)
		}
		for _, t := range m.trianglesByDepth[d] {
			for _, v := range []int{t.A, t.B, t.C} {
				if v < 0 || v >= len(m.vertices) {
					return werr.New(werr.BadArg, op, nil)
				}
			}
		}
	}
	return nil
}
