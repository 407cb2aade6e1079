package transform

import (
	"github.com/rhyshawkins/wavetree/internal/werr"
	"github.com/rhyshawkins/wavetree/manifold"
)

// FaceSubdivision is the face subdivision Haar-like transform (spec
// §4.4 component D): it treats every group of 4 sibling triangles
// produced by one subdivision step (manifold's build() always emits
// children of a parent as a contiguous run of 4, in order) as one Haar
// block, replacing them with their mean plus three detail
// coefficients. Grounded on face_subdivision.c.
type FaceSubdivision struct {
	solid    manifold.Solid
	maxDepth int
}

// NewFaceSubdivision builds a face subdivision transform for a manifold
// of the given solid and maximum depth.
func NewFaceSubdivision(solid manifold.Solid, maxDepth int) *FaceSubdivision {
	return &FaceSubdivision{solid: solid, maxDepth: maxDepth}
}

func (tr *FaceSubdivision) baseCount() int {
	return manifold.NTrianglesAtDepth(tr.solid, 0)
}

func (tr *FaceSubdivision) finestCount() int {
	return manifold.NTrianglesAtDepth(tr.solid, tr.maxDepth)
}

// Forward converts a dense field of per-triangle values at the finest
// depth into coefficient space: the first baseCount() entries of the
// result are the depth-0 (coarsest) averages, followed by 3 detail
// values per parent group for each depth 1..maxDepth in turn.
func (tr *FaceSubdivision) Forward(values []float64) ([]float64, error) {
	if len(values) != tr.finestCount() {
		return nil, werr.New(werr.BadArg, "transform.FaceSubdivision.Forward", nil)
	}
	cur := append([]float64(nil), values...)
	details := make([][]float64, tr.maxDepth+1)
	for d := tr.maxDepth; d >= 1; d-- {
		groups := len(cur) / 4
		next := make([]float64, groups)
		det := make([]float64, groups*3)
		for k := 0; k < groups; k++ {
			v0, v1, v2, v3 := cur[4*k], cur[4*k+1], cur[4*k+2], cur[4*k+3]
			avg := (v0 + v1 + v2 + v3) / 4
			next[k] = avg
			det[3*k] = v0 - avg
			det[3*k+1] = v1 - avg
			det[3*k+2] = v2 - avg
		}
		details[d] = det
		cur = next
	}

	out := make([]float64, len(values))
	off := copy(out, cur)
	for d := 1; d <= tr.maxDepth; d++ {
		off += copy(out[off:], details[d])
	}
	return out, nil
}

// Inverse reconstructs the finest-depth dense field from coefficients
// produced by Forward.
func (tr *FaceSubdivision) Inverse(coeffs []float64) ([]float64, error) {
	if len(coeffs) != tr.finestCount() {
		return nil, werr.New(werr.BadArg, "transform.FaceSubdivision.Inverse", nil)
	}
	base := tr.baseCount()
	cur := append([]float64(nil), coeffs[:base]...)
	off := base
	for d := 1; d <= tr.maxDepth; d++ {
		groups := len(cur)
		det := coeffs[off : off+groups*3]
		off += groups * 3
		next := make([]float64, groups*4)
		for k := 0; k < groups; k++ {
			avg := cur[k]
			d0, d1, d2 := det[3*k], det[3*k+1], det[3*k+2]
			next[4*k] = avg + d0
			next[4*k+1] = avg + d1
			next[4*k+2] = avg + d2
			next[4*k+3] = avg - d0 - d1 - d2
		}
		cur = next
	}
	return cur, nil
}

// FaceBiorthogonalHaar is the area-weighted counterpart of
// FaceSubdivision: on a sphere, sibling triangles spanned by one
// subdivision step are not equal-area, so a plain arithmetic mean is
// not the biorthogonal dual of the detail coefficients. Weighting the
// parent average by each child's share of the parent's area restores
// that duality; the detail residuals are each child's value minus that
// weighted average, and Inverse recovers the fourth child through the
// same weights. Grounded on face_wavelet.c.
type FaceBiorthogonalHaar struct {
	solid    manifold.Solid
	maxDepth int
	weights  [][]float64 // weights[d][4*k+j] = area(child j of group k at depth d) / area(parent)
}

// NewFaceBiorthogonalHaar precomputes area weights from m at every
// depth up to m.Degree().
func NewFaceBiorthogonalHaar(m *manifold.Manifold) *FaceBiorthogonalHaar {
	tr := &FaceBiorthogonalHaar{solid: m.Solid(), maxDepth: m.Degree()}
	tr.weights = make([][]float64, tr.maxDepth+1)
	for d := 1; d <= tr.maxDepth; d++ {
		tris := m.Triangles(d)
		w := make([]float64, len(tris))
		groups := len(tris) / 4
		for k := 0; k < groups; k++ {
			var sum float64
			var areas [4]float64
			for j := 0; j < 4; j++ {
				a, _ := m.AreaAt(d, 4*k+j)
				areas[j] = a
				sum += a
			}
			for j := 0; j < 4; j++ {
				if sum > 0 {
					w[4*k+j] = areas[j] / sum
				} else {
					w[4*k+j] = 0.25
				}
			}
		}
		tr.weights[d] = w
	}
	return tr
}

func (tr *FaceBiorthogonalHaar) baseCount() int   { return manifold.NTrianglesAtDepth(tr.solid, 0) }
func (tr *FaceBiorthogonalHaar) finestCount() int { return manifold.NTrianglesAtDepth(tr.solid, tr.maxDepth) }

// Forward mirrors FaceSubdivision.Forward but computes each group's
// parent value as the area-weighted mean of its four children.
func (tr *FaceBiorthogonalHaar) Forward(values []float64) ([]float64, error) {
	if len(values) != tr.finestCount() {
		return nil, werr.New(werr.BadArg, "transform.FaceBiorthogonalHaar.Forward", nil)
	}
	cur := append([]float64(nil), values...)
	details := make([][]float64, tr.maxDepth+1)
	for d := tr.maxDepth; d >= 1; d-- {
		w := tr.weights[d]
		groups := len(cur) / 4
		next := make([]float64, groups)
		det := make([]float64, groups*3)
		for k := 0; k < groups; k++ {
			v0, v1, v2, v3 := cur[4*k], cur[4*k+1], cur[4*k+2], cur[4*k+3]
			w0, w1, w2, w3 := w[4*k], w[4*k+1], w[4*k+2], w[4*k+3]
			avg := v0*w0 + v1*w1 + v2*w2 + v3*w3
			next[k] = avg
			det[3*k] = v0 - avg
			det[3*k+1] = v1 - avg
			det[3*k+2] = v2 - avg
		}
		details[d] = det
		cur = next
	}
	out := make([]float64, len(values))
	off := copy(out, cur)
	for d := 1; d <= tr.maxDepth; d++ {
		off += copy(out[off:], details[d])
	}
	return out, nil
}

// Inverse undoes Forward. Given avg = Σ wj·vj and dj = vj − avg for
// j=0,1,2, the fourth child is recovered from Σ wj·vj = avg:
// v3 = (avg − w0·(avg+d0) − w1·(avg+d1) − w2·(avg+d2)) / w3.
func (tr *FaceBiorthogonalHaar) Inverse(coeffs []float64) ([]float64, error) {
	if len(coeffs) != tr.finestCount() {
		return nil, werr.New(werr.BadArg, "transform.FaceBiorthogonalHaar.Inverse", nil)
	}
	base := tr.baseCount()
	cur := append([]float64(nil), coeffs[:base]...)
	off := base
	for d := 1; d <= tr.maxDepth; d++ {
		w := tr.weights[d]
		groups := len(cur)
		det := coeffs[off : off+groups*3]
		off += groups * 3
		next := make([]float64, groups*4)
		for k := 0; k < groups; k++ {
			avg := cur[k]
			d0, d1, d2 := det[3*k], det[3*k+1], det[3*k+2]
			w0, w1, w2, w3 := w[4*k], w[4*k+1], w[4*k+2], w[4*k+3]
			v0, v1, v2 := avg+d0, avg+d1, avg+d2
			v3 := (avg - w0*v0 - w1*v1 - w2*v2) / w3
			next[4*k] = v0
			next[4*k+1] = v1
			next[4*k+2] = v2
			next[4*k+3] = v3
		}
		cur = next
	}
	return cur, nil
}
