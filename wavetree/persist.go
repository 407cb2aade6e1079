package wavetree

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/rhyshawkins/wavetree/internal/werr"
)

// WriteText serialises the active coefficients in the text format of
// spec §6.1: a geometry header line, a total-coefficient count, then
// one "<depth> <index> <value>" line per active coefficient in
// depth-then-index order.
func (t *Tree) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, t.topo); err != nil {
		return err
	}
	maxDepth := t.topo.MaxDepth()
	if _, err := fmt.Fprintf(bw, "%d\n", t.sv.TotalCount()); err != nil {
		return err
	}
	for d := 0; d <= maxDepth; d++ {
		n := t.sv.DepthCount(d)
		for i := 0; i < n; i++ {
			e, err := t.sv.NthElement(d, i)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(bw, "%d %d %.17g\n", d, e.Key, e.Value); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadText replaces the tree's active set by parsing the text format
// written by WriteText, rebuilding S_b/S_d from scratch via addNode.
// Records are applied in file order, so every parent has to precede
// its children (WriteText's depth-major order does); a child listed
// before its parent leaves the companion sets inconsistent.
func (t *Tree) ReadText(r io.Reader) error {
	const op = "wavetree.ReadText"
	br := bufio.NewReader(r)
	if err := readHeader(br, t.topo); err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	var count int
	if _, err := fmt.Fscanf(br, "%d\n", &count); err != nil {
		return werr.New(werr.FormatError, op, err)
	}

	t.sv.Clear()
	t.sb.Clear()
	t.sd.Clear()
	t.pending = nil
	t.lastStep = Step{}

	for i := 0; i < count; i++ {
		var depth, index int
		var value float64
		if _, err := fmt.Fscanf(br, "%d %d %g\n", &depth, &index, &value); err != nil {
			return werr.New(werr.FormatError, op, err)
		}
		if err := t.addNode(index, depth, value); err != nil {
			return err
		}
	}
	t.ready = true
	return nil
}

// WriteBinary serialises the active coefficients in the little-endian
// binary format of spec §6.2: a geometry header, an int32 total
// count, then that many (int32 depth, int32 index, float64 value)
// records.
func (t *Tree) WriteBinary(w io.Writer) error {
	if err := writeHeaderBinary(w, t.topo); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(t.sv.TotalCount())); err != nil {
		return err
	}
	maxDepth := t.topo.MaxDepth()
	for d := 0; d <= maxDepth; d++ {
		n := t.sv.DepthCount(d)
		for i := 0; i < n; i++ {
			e, err := t.sv.NthElement(d, i)
			if err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, int32(d)); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, int32(e.Key)); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadBinary replaces the tree's active set by decoding the binary
// format written by WriteBinary.
func (t *Tree) ReadBinary(r io.Reader) error {
	const op = "wavetree.ReadBinary"
	if err := readHeaderBinary(r, t.topo); err != nil {
		return werr.New(werr.FormatError, op, err)
	}
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return werr.New(werr.FormatError, op, err)
	}

	t.sv.Clear()
	t.sb.Clear()
	t.sd.Clear()
	t.pending = nil
	t.lastStep = Step{}

	for i := int32(0); i < count; i++ {
		var depth, index int32
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &depth); err != nil {
			return werr.New(werr.FormatError, op, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &index); err != nil {
			return werr.New(werr.FormatError, op, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return werr.New(werr.FormatError, op, err)
		}
		if err := t.addNode(int(index), int(depth), value); err != nil {
			return err
		}
	}
	t.ready = true
	return nil
}

func writeHeader(w io.Writer, topo Topology) error {
	degrees := topo.GeometryDegrees()
	for _, d := range degrees {
		if _, err := fmt.Fprintf(w, "%d ", d); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	dims := topo.GeometryDims()
	for _, d := range dims {
		if _, err := fmt.Fprintf(w, "%d ", d); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%d\n", topo.PhysicalSize()); err != nil {
		return err
	}
	return nil
}

func readHeader(r *bufio.Reader, topo Topology) error {
	degreeLine, err := r.ReadString('\n')
	if err != nil {
		return err
	}
	dimLine, err := r.ReadString('\n')
	if err != nil {
		return err
	}
	wantDegrees := topo.GeometryDegrees()
	gotDegrees := parseInts(degreeLine)
	if len(gotDegrees) != len(wantDegrees) {
		return fmt.Errorf("wavetree: degree header mismatch: got %v want %v", gotDegrees, wantDegrees)
	}
	for i := range wantDegrees {
		if gotDegrees[i] != wantDegrees[i] {
			return fmt.Errorf("wavetree: degree header mismatch: got %v want %v", gotDegrees, wantDegrees)
		}
	}
	gotDims := parseInts(dimLine)
	if len(gotDims) == 0 {
		return fmt.Errorf("wavetree: empty dimension header")
	}
	if gotDims[len(gotDims)-1] != topo.PhysicalSize() {
		return fmt.Errorf("wavetree: physical size mismatch: got %d want %d", gotDims[len(gotDims)-1], topo.PhysicalSize())
	}
	return nil
}

func parseInts(line string) []int {
	fields := strings.Fields(line)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		var v int
		if _, err := fmt.Sscanf(f, "%d", &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func writeHeaderBinary(w io.Writer, topo Topology) error {
	degrees := topo.GeometryDegrees()
	if err := binary.Write(w, binary.LittleEndian, int32(len(degrees))); err != nil {
		return err
	}
	for _, d := range degrees {
		if err := binary.Write(w, binary.LittleEndian, int32(d)); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, int32(topo.PhysicalSize())); err != nil {
		return err
	}
	return nil
}

func readHeaderBinary(r io.Reader, topo Topology) error {
	var ndegrees int32
	if err := binary.Read(r, binary.LittleEndian, &ndegrees); err != nil {
		return err
	}
	want := topo.GeometryDegrees()
	if int(ndegrees) != len(want) {
		return fmt.Errorf("wavetree: degree count mismatch: got %d want %d", ndegrees, len(want))
	}
	for i := int32(0); i < ndegrees; i++ {
		var d int32
		if err := binary.Read(r, binary.LittleEndian, &d); err != nil {
			return err
		}
		if int(d) != want[i] {
			return fmt.Errorf("wavetree: degree mismatch at axis %d: got %d want %d", i, d, want[i])
		}
	}
	var physSize int32
	if err := binary.Read(r, binary.LittleEndian, &physSize); err != nil {
		return err
	}
	if int(physSize) != topo.PhysicalSize() {
		return fmt.Errorf("wavetree: physical size mismatch: got %d want %d", physSize, topo.PhysicalSize())
	}
	return nil
}

// DyckWord returns the canonical parenthesisation of the active tree
// (spec §6.4): starting at the root, an active interior node emits
// "(" before recursing into its children in canonical order and ")"
// after; a node that is not active emits "()" and does not recurse,
// since invariant 2 guarantees nothing below an inactive node can
// itself be active. Two trees produce identical words if and only if
// they have the same active-node shape, independent of coefficient
// values.
func (t *Tree) DyckWord() string {
	var sb strings.Builder
	t.dyck(0, 0, &sb)
	return sb.String()
}

func (t *Tree) dyck(index, depth int, sb *strings.Builder) {
	if !t.sv.IsElement(depth, index) {
		sb.WriteString("()")
		return
	}
	sb.WriteByte('(')
	for _, c := range t.topo.ChildIndices(index, depth) {
		t.dyck(c, depth+1, sb)
	}
	sb.WriteByte(')')
}

// DyckFingerprint packs DyckWord into a uint64 bitstream, one bit per
// token ('(' -> 1, ')' -> 0), most-significant token first, truncated
// to the first 64 tokens of the word. It is meant for cheap
// topology-equality checks (two trees with the same shape always
// produce the same fingerprint); it is not a substitute for DyckWord
// when the shape might exceed 64 tokens, since truncation can then
// collide.
func (t *Tree) DyckFingerprint() uint64 {
	word := t.DyckWord()
	var fp uint64
	limit := len(word)
	if limit > 64 {
		limit = 64
	}
	for i := 0; i < limit; i++ {
		fp <<= 1
		if word[i] == '(' {
			fp |= 1
		}
	}
	return fp
}
