package transform

import (
	"github.com/rhyshawkins/wavetree/internal/werr"
	"github.com/rhyshawkins/wavetree/manifold"
)

// VertexButterfly is the vertex-based butterfly subdivision transform
// (spec §4.4 component D): every midpoint vertex introduced at
// subdivision depth d is predicted from the average of its two parent
// (edge-endpoint) vertices; the residual becomes its detail
// coefficient. The lifted variant additionally distributes a quarter
// of each detail back onto the two parent vertices (a Sweldens-style
// lifting update step, applied Jacobi-fashion so every update at a
// level is computed from the pre-update snapshot — this keeps Inverse
// an exact mirror even when several midpoints in the same level share a
// parent vertex).
//
// Grounded on original_source/sphericalwavelet/vertex_wavelet.c. The
// original 8-point butterfly stencil also pulls in four "wing"
// vertices from neighbouring triangles for a higher-order predictor;
// this uses the simpler 2-point (edge-midpoint) stencil, the order-2
// degenerate case of the same scheme, since the manifold package does
// not (yet) track per-vertex triangle fans. Documented as a
// simplification in DESIGN.md.
type VertexButterfly struct {
	m      *manifold.Manifold
	lifted bool
}

// NewVertexButterfly builds a butterfly transform over m. When lifted
// is true, the parent-update step runs; when false, the transform is
// the plain interpolating (predict-only) scheme.
func NewVertexButterfly(m *manifold.Manifold, lifted bool) *VertexButterfly {
	return &VertexButterfly{m: m, lifted: lifted}
}

func (tr *VertexButterfly) finestCount() int { return tr.m.NVerticesAtDepth(tr.m.Degree()) }
func (tr *VertexButterfly) baseCount() int   { return tr.m.NVerticesAtDepth(0) }

// Forward converts per-vertex values at the finest depth into
// coefficient space: the first baseCount() entries are the depth-0
// (lifted, if enabled) vertex values, followed by one detail
// coefficient per midpoint vertex introduced at each depth 1..Degree().
func (tr *VertexButterfly) Forward(values []float64) ([]float64, error) {
	maxDepth := tr.m.Degree()
	if len(values) != tr.finestCount() {
		return nil, werr.New(werr.BadArg, "transform.VertexButterfly.Forward", nil)
	}
	cur := append([]float64(nil), values...)
	details := make([][]float64, maxDepth+1)

	for d := maxDepth; d >= 1; d-- {
		oldCount := tr.m.NVerticesAtDepth(d - 1)
		newCount := tr.m.NVerticesAtDepth(d) - oldCount
		snapshot := append([]float64(nil), cur[:oldCount]...)
		updates := make([]float64, oldCount)
		det := make([]float64, newCount)

		for i := 0; i < newCount; i++ {
			vi := oldCount + i
			a, b, ok := tr.m.MidpointParents(vi)
			if !ok {
				return nil, werr.New(werr.BadArg, "transform.VertexButterfly.Forward", nil)
			}
			predicted := (snapshot[a] + snapshot[b]) / 2
			det[i] = cur[vi] - predicted
			if tr.lifted {
				updates[a] += det[i] / 4
				updates[b] += det[i] / 4
			}
		}

		next := make([]float64, oldCount)
		for j := 0; j < oldCount; j++ {
			next[j] = snapshot[j] + updates[j]
		}
		details[d] = det
		cur = next
	}

	out := make([]float64, len(values))
	off := copy(out, cur)
	for d := 1; d <= maxDepth; d++ {
		off += copy(out[off:], details[d])
	}
	return out, nil
}

// Inverse reconstructs the finest-depth dense field from coefficients
// produced by Forward, undoing the lifting update (computed from det
// alone, so it is reproducible without the original vertex values)
// before applying the butterfly predictor.
func (tr *VertexButterfly) Inverse(coeffs []float64) ([]float64, error) {
	maxDepth := tr.m.Degree()
	if len(coeffs) != tr.finestCount() {
		return nil, werr.New(werr.BadArg, "transform.VertexButterfly.Inverse", nil)
	}
	base := tr.baseCount()
	cur := append([]float64(nil), coeffs[:base]...)
	off := base

	for d := 1; d <= maxDepth; d++ {
		oldCount := tr.m.NVerticesAtDepth(d - 1)
		newCount := tr.m.NVerticesAtDepth(d) - oldCount
		det := coeffs[off : off+newCount]
		off += newCount

		updates := make([]float64, oldCount)
		if tr.lifted {
			for i := 0; i < newCount; i++ {
				vi := oldCount + i
				a, b, _ := tr.m.MidpointParents(vi)
				updates[a] += det[i] / 4
				updates[b] += det[i] / 4
			}
		}
		snapshot := make([]float64, oldCount)
		for j := 0; j < oldCount; j++ {
			snapshot[j] = cur[j] - updates[j]
		}

		next := make([]float64, oldCount+newCount)
		copy(next, snapshot)
		for i := 0; i < newCount; i++ {
			vi := oldCount + i
			a, b, _ := tr.m.MidpointParents(vi)
			predicted := (snapshot[a] + snapshot[b]) / 2
			next[vi] = predicted + det[i]
		}
		cur = next
	}
	return cur, nil
}
