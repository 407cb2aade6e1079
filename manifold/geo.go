package manifold

import (
	"bufio"
	"fmt"
	"io"
)

// SaveGeo writes the finest-depth mesh as a Houdini classic ASCII
// geometry file (spec §6.5 geometry export), grounded on
// manifold_save_geo: a point list followed by a closed polygon run for
// every finest-depth triangle.
func (m *Manifold) SaveGeo(w io.Writer) error {
	bw := bufio.NewWriter(w)

	npoints := len(m.vertices)
	tris := m.trianglesByDepth[m.degree]
	nprims := len(tris)

	if _, err := fmt.Fprintf(bw, "PGEOMETRY V5\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "NPoints %d NPrims %d\n", npoints, nprims); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "NPointGroups 0 NPrimGroups 0\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "NPointAttrib 0 NVertexAttrib 0 NPrimAttrib 0 NAttrib 0\n"); err != nil {
		return err
	}

	for _, v := range m.vertices {
		if _, err := fmt.Fprintf(bw, "%.17g %.17g %.17g 1\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(bw, "Run %d Poly\n", nprims); err != nil {
		return err
	}
	for _, t := range tris {
		if _, err := fmt.Fprintf(bw, " 3 < %d %d %d\n", t.A, t.B, t.C); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "beginExtra\nendExtra\n"); err != nil {
		return err
	}
	return bw.Flush()
}
