package oset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// EntryIntDouble is one (key, value) pair of a MultisetIntDouble.
type EntryIntDouble struct {
	Key   int
	Value float64
}

// MultisetIntDouble is a depth-indexed ordered set of unique
// non-negative integer keys, each carrying a float64 payload. It is
// the container S_v (active coefficients) is built on.
type MultisetIntDouble struct {
	depths [][]EntryIntDouble
}

// NewMultisetIntDouble returns an empty MultisetIntDouble.
func NewMultisetIntDouble() *MultisetIntDouble {
	return &MultisetIntDouble{}
}

// Clear removes every entry from every depth, without shrinking the
// number of depth slots.
func (s *MultisetIntDouble) Clear() {
	for i := range s.depths {
		s.depths[i] = s.depths[i][:0]
	}
}

// Clone returns a deep copy of s.
func (s *MultisetIntDouble) Clone() *MultisetIntDouble {
	out := &MultisetIntDouble{depths: make([][]EntryIntDouble, len(s.depths))}
	for d, row := range s.depths {
		out.depths[d] = append([]EntryIntDouble(nil), row...)
	}
	return out
}

func (s *MultisetIntDouble) ensureDepth(depth int) {
	for len(s.depths) <= depth {
		s.depths = append(s.depths, nil)
	}
}

func (s *MultisetIntDouble) search(row []EntryIntDouble, key int) int {
	return sort.Search(len(row), func(i int) bool { return row[i].Key >= key })
}

// Insert adds (key, value) at depth, growing the depth dimension as
// needed. Returns Added if key was not already present, Duplicate
// (no-op) otherwise.
func (s *MultisetIntDouble) Insert(depth, key int, value float64) (InsertResult, error) {
	if depth < 0 {
		return 0, badDepth("oset.MultisetIntDouble.Insert")
	}
	s.ensureDepth(depth)
	row := s.depths[depth]
	i := s.search(row, key)
	if i < len(row) && row[i].Key == key {
		return Duplicate, nil
	}
	row = append(row, EntryIntDouble{})
	copy(row[i+1:], row[i:])
	row[i] = EntryIntDouble{Key: key, Value: value}
	s.depths[depth] = row
	return Added, nil
}

// Remove deletes key from depth if present.
func (s *MultisetIntDouble) Remove(depth, key int) (RemoveResult, error) {
	if depth < 0 || depth >= len(s.depths) {
		return NotFound, nil
	}
	row := s.depths[depth]
	i := s.search(row, key)
	if i >= len(row) || row[i].Key != key {
		return NotFound, nil
	}
	copy(row[i:], row[i+1:])
	s.depths[depth] = row[:len(row)-1]
	return Removed, nil
}

// Get looks up the value stored for key at depth.
func (s *MultisetIntDouble) Get(depth, key int) (float64, error) {
	if depth < 0 || depth >= len(s.depths) {
		return 0, notFound("oset.MultisetIntDouble.Get")
	}
	row := s.depths[depth]
	i := s.search(row, key)
	if i >= len(row) || row[i].Key != key {
		return 0, notFound("oset.MultisetIntDouble.Get")
	}
	return row[i].Value, nil
}

// Set replaces the value stored for key at depth, failing if key is
// not present.
func (s *MultisetIntDouble) Set(depth, key int, value float64) error {
	if depth < 0 || depth >= len(s.depths) {
		return notFound("oset.MultisetIntDouble.Set")
	}
	row := s.depths[depth]
	i := s.search(row, key)
	if i >= len(row) || row[i].Key != key {
		return notFound("oset.MultisetIntDouble.Set")
	}
	row[i].Value = value
	return nil
}

// IsElement reports whether key is present at depth.
func (s *MultisetIntDouble) IsElement(depth, key int) bool {
	if depth < 0 || depth >= len(s.depths) {
		return false
	}
	row := s.depths[depth]
	i := s.search(row, key)
	return i < len(row) && row[i].Key == key
}

// DepthCount returns the number of entries at depth, or -1 if depth
// is out of range.
func (s *MultisetIntDouble) DepthCount(depth int) int {
	if depth < 0 || depth >= len(s.depths) {
		return -1
	}
	return len(s.depths[depth])
}

func (s *MultisetIntDouble) depthLimit(maxDepth int) int {
	limit := len(s.depths) - 1
	if maxDepth >= 0 && maxDepth < limit {
		limit = maxDepth
	}
	return limit
}

// TotalCount returns the number of entries across every depth.
func (s *MultisetIntDouble) TotalCount() int {
	return s.RestrictedTotalCount(-1)
}

// RestrictedTotalCount returns the number of entries at depths
// [0, maxDepth], or every depth when maxDepth < 0.
func (s *MultisetIntDouble) RestrictedTotalCount(maxDepth int) int {
	c := 0
	for d := 0; d <= s.depthLimit(maxDepth); d++ {
		c += len(s.depths[d])
	}
	return c
}

// NonemptyCount returns the number of non-empty depths in
// [0, maxDepth] (every depth when maxDepth < 0).
func (s *MultisetIntDouble) NonemptyCount(maxDepth int) int {
	c := 0
	for d := 0; d <= s.depthLimit(maxDepth); d++ {
		if len(s.depths[d]) > 0 {
			c++
		}
	}
	return c
}

// NthElement returns the i-th smallest (key, value) pair at depth.
func (s *MultisetIntDouble) NthElement(depth, i int) (EntryIntDouble, error) {
	if depth < 0 || depth >= len(s.depths) {
		return EntryIntDouble{}, badDepth("oset.MultisetIntDouble.NthElement")
	}
	row := s.depths[depth]
	if i < 0 || i >= len(row) {
		return EntryIntDouble{}, badDepth("oset.MultisetIntDouble.NthElement")
	}
	return row[i], nil
}

// ChooseDepth picks one of the non-empty depths in [0, maxDepth]
// uniformly via u in [0,1).
func (s *MultisetIntDouble) ChooseDepth(u float64, maxDepth int) (depth, ndepths int, err error) {
	limit := s.depthLimit(maxDepth)
	cdepths := 0
	for d := 0; d <= limit; d++ {
		if len(s.depths[d]) > 0 {
			cdepths++
		}
	}
	if cdepths == 0 {
		return 0, 0, allEmpty("oset.MultisetIntDouble.ChooseDepth")
	}
	j := int(u * float64(cdepths))
	for d := 0; d <= limit; d++ {
		if len(s.depths[d]) > 0 {
			if j == 0 {
				return d, cdepths, nil
			}
			j--
		}
	}
	return 0, 0, allEmpty("oset.MultisetIntDouble.ChooseDepth")
}

// ChooseIndex picks the floor(u*n_d)-th entry at depth.
func (s *MultisetIntDouble) ChooseIndex(depth int, u float64) (key, n int, err error) {
	if depth < 0 || depth >= len(s.depths) {
		return 0, 0, emptyDepth("oset.MultisetIntDouble.ChooseIndex")
	}
	row := s.depths[depth]
	if len(row) == 0 {
		return 0, 0, emptyDepth("oset.MultisetIntDouble.ChooseIndex")
	}
	j := int(u * float64(len(row)))
	if j >= len(row) {
		j = len(row) - 1
	}
	return row[j].Key, len(row), nil
}

// ChooseIndexGlobally picks the floor(u*N)-th entry scanning depths
// [0, maxDepth] in order.
func (s *MultisetIntDouble) ChooseIndexGlobally(u float64, maxDepth int) (key, depth, total int, err error) {
	limit := s.depthLimit(maxDepth)
	cindices := 0
	for d := 0; d <= limit; d++ {
		cindices += len(s.depths[d])
	}
	if cindices == 0 {
		return 0, 0, 0, allEmpty("oset.MultisetIntDouble.ChooseIndexGlobally")
	}
	j := int(u * float64(cindices))
	for d := 0; d <= limit; d++ {
		row := s.depths[d]
		if len(row) > j {
			return row[j].Key, d, cindices, nil
		}
		j -= len(row)
	}
	return 0, 0, 0, allEmpty("oset.MultisetIntDouble.ChooseIndexGlobally")
}

// ChooseIndexWeighted picks a depth with probability proportional to
// n_d*(d+1)^alpha, then a uniform entry within it.
func (s *MultisetIntDouble) ChooseIndexWeighted(u float64, maxDepth int, alpha float64) (key, depth int, prob float64, err error) {
	limit := s.depthLimit(maxDepth)
	sum := 0.0
	for d := 0; d <= limit; d++ {
		sum += float64(len(s.depths[d])) * math.Pow(float64(d+1), alpha)
	}
	if sum == 0 {
		return 0, 0, 0, allEmpty("oset.MultisetIntDouble.ChooseIndexWeighted")
	}
	v := sum * u
	for d := 0; d <= limit; d++ {
		dv := float64(len(s.depths[d])) * math.Pow(float64(d+1), alpha)
		if v < dv {
			j := int(v / dv * float64(len(s.depths[d])))
			if j >= len(s.depths[d]) {
				j = len(s.depths[d]) - 1
			}
			return s.depths[d][j].Key, d, math.Pow(float64(d+1), alpha) / sum, nil
		}
		v -= dv
	}
	return 0, 0, 0, allEmpty("oset.MultisetIntDouble.ChooseIndexWeighted")
}

// ReverseChooseIndexWeighted returns the probability with which
// ChooseIndexWeighted would have produced (key, depth).
func (s *MultisetIntDouble) ReverseChooseIndexWeighted(maxDepth int, alpha float64, key, depth int) (float64, error) {
	if !s.IsElement(depth, key) {
		return 0, notFound("oset.MultisetIntDouble.ReverseChooseIndexWeighted")
	}
	limit := s.depthLimit(maxDepth)
	sum := 0.0
	for d := 0; d <= limit; d++ {
		sum += float64(len(s.depths[d])) * math.Pow(float64(d+1), alpha)
	}
	return math.Pow(float64(depth+1), alpha) / sum, nil
}

// WriteText serialises s in the text format of spec §6.1.
func (s *MultisetIntDouble) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", len(s.depths)); err != nil {
		return err
	}
	for d, row := range s.depths {
		if _, err := fmt.Fprintf(bw, "%d %d\n", d, len(row)); err != nil {
			return err
		}
		for _, e := range row {
			if _, err := fmt.Fprintf(bw, "%d %.9g\n", e.Key, e.Value); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadText replaces s's contents by parsing the text format written
// by WriteText.
func (s *MultisetIntDouble) ReadText(r io.Reader) error {
	s.Clear()
	s.depths = nil
	br := bufio.NewReader(r)
	var depthSize int
	if _, err := fmt.Fscanf(br, "%d\n", &depthSize); err != nil {
		return fmt.Errorf("oset.MultisetIntDouble.ReadText: header: %w", err)
	}
	s.depths = make([][]EntryIntDouble, depthSize)
	for d := 0; d < depthSize; d++ {
		var di, n int
		if _, err := fmt.Fscanf(br, "%d %d\n", &di, &n); err != nil {
			return fmt.Errorf("oset.MultisetIntDouble.ReadText: depth header: %w", err)
		}
		if di != d {
			return fmt.Errorf("oset.MultisetIntDouble.ReadText: depth mismatch %d != %d", di, d)
		}
		row := make([]EntryIntDouble, n)
		for i := 0; i < n; i++ {
			if _, err := fmt.Fscanf(br, "%d %g\n", &row[i].Key, &row[i].Value); err != nil {
				return fmt.Errorf("oset.MultisetIntDouble.ReadText: entry: %w", err)
			}
		}
		s.depths[d] = row
	}
	return nil
}

// WriteBinary encodes s in little-endian binary form: an int32 depth
// count, then per depth an int32 depth index, an int32 entry count,
// and that many (int32 key, float64 value) pairs. The file and memory
// backings of the original C library become, in this port, any
// io.Writer (an *os.File or a *bytes.Buffer alike).
func (s *MultisetIntDouble) WriteBinary(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s.depths))); err != nil {
		return fmt.Errorf("oset.MultisetIntDouble.WriteBinary: header: %w", err)
	}
	for d, row := range s.depths {
		if err := binary.Write(w, binary.LittleEndian, int32(d)); err != nil {
			return fmt.Errorf("oset.MultisetIntDouble.WriteBinary: depth: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(len(row))); err != nil {
			return fmt.Errorf("oset.MultisetIntDouble.WriteBinary: count: %w", err)
		}
		for _, e := range row {
			if err := binary.Write(w, binary.LittleEndian, int32(e.Key)); err != nil {
				return fmt.Errorf("oset.MultisetIntDouble.WriteBinary: key: %w", err)
			}
			if err := binary.Write(w, binary.LittleEndian, e.Value); err != nil {
				return fmt.Errorf("oset.MultisetIntDouble.WriteBinary: value: %w", err)
			}
		}
	}
	return nil
}

// ReadBinary replaces s's contents by decoding the binary form
// written by WriteBinary.
func (s *MultisetIntDouble) ReadBinary(r io.Reader) error {
	s.Clear()
	s.depths = nil
	var depthSize int32
	if err := binary.Read(r, binary.LittleEndian, &depthSize); err != nil {
		return fmt.Errorf("oset.MultisetIntDouble.ReadBinary: header: %w", err)
	}
	s.depths = make([][]EntryIntDouble, depthSize)
	for d := int32(0); d < depthSize; d++ {
		var di, n int32
		if err := binary.Read(r, binary.LittleEndian, &di); err != nil {
			return fmt.Errorf("oset.MultisetIntDouble.ReadBinary: depth: %w", err)
		}
		if di != d {
			return fmt.Errorf("oset.MultisetIntDouble.ReadBinary: depth mismatch %d != %d", di, d)
		}
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return fmt.Errorf("oset.MultisetIntDouble.ReadBinary: count: %w", err)
		}
		row := make([]EntryIntDouble, n)
		for i := int32(0); i < n; i++ {
			var key int32
			if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
				return fmt.Errorf("oset.MultisetIntDouble.ReadBinary: key: %w", err)
			}
			var value float64
			if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
				return fmt.Errorf("oset.MultisetIntDouble.ReadBinary: value: %w", err)
			}
			row[i] = EntryIntDouble{Key: int(key), Value: value}
		}
		s.depths[d] = row
	}
	return nil
}
