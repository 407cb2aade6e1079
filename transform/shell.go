package transform

import "github.com/rhyshawkins/wavetree/internal/werr"

// Shell is a 1-D dyadic Haar transform along a radial/shell dimension
// (spec §4.4 component D "shell transforms"): used independently of the
// spherical face/vertex transforms when a 3-D model stacks several
// concentric spherical shells and needs a coefficient decomposition
// across that radial axis too. Grounded on transform.c's shell-wise
// recursive halving of a radial sample count.
type Shell struct {
	n int // number of shells; must be a power of two
}

// NewShell builds a shell transform over n radial samples. n must be a
// power of two.
func NewShell(n int) (*Shell, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, werr.New(werr.BadArg, "transform.NewShell", nil)
	}
	return &Shell{n: n}, nil
}

// Forward performs the 1-D Haar decomposition: each pass pairs adjacent
// samples, replacing them with their average (kept for the next,
// coarser pass) and their half-difference (a detail coefficient,
// written to the tail of the output in coarse-to-fine order).
func (s *Shell) Forward(values []float64) ([]float64, error) {
	if len(values) != s.n {
		return nil, werr.New(werr.BadArg, "transform.Shell.Forward", nil)
	}
	cur := append([]float64(nil), values...)
	out := make([]float64, s.n)
	writeFrom := s.n
	for len(cur) > 1 {
		half := len(cur) / 2
		next := make([]float64, half)
		det := make([]float64, half)
		for i := 0; i < half; i++ {
			a, b := cur[2*i], cur[2*i+1]
			next[i] = (a + b) / 2
			det[i] = (a - b) / 2
		}
		writeFrom -= half
		copy(out[writeFrom:], det)
		cur = next
	}
	out[0] = cur[0]
	return out, nil
}

// Inverse undoes Forward.
func (s *Shell) Inverse(coeffs []float64) ([]float64, error) {
	if len(coeffs) != s.n {
		return nil, werr.New(werr.BadArg, "transform.Shell.Inverse", nil)
	}
	cur := []float64{coeffs[0]}
	readFrom := 1
	for len(cur) < s.n {
		det := coeffs[readFrom : readFrom+len(cur)]
		readFrom += len(cur)
		next := make([]float64, len(cur)*2)
		for i, avg := range cur {
			d := det[i]
			next[2*i] = avg + d
			next[2*i+1] = avg - d
		}
		cur = next
	}
	return cur, nil
}
