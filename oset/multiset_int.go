package oset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
)

// MultisetInt is a depth-indexed ordered set of unique non-negative
// integers. Each depth's entries are kept sorted so lookups and
// insertions use binary search.
type MultisetInt struct {
	depths [][]int
}

// NewMultisetInt returns an empty MultisetInt.
func NewMultisetInt() *MultisetInt {
	return &MultisetInt{}
}

// Clear removes every entry from every depth, without shrinking the
// number of depth slots.
func (s *MultisetInt) Clear() {
	for i := range s.depths {
		s.depths[i] = s.depths[i][:0]
	}
}

// Clone returns a deep copy of s.
func (s *MultisetInt) Clone() *MultisetInt {
	out := &MultisetInt{depths: make([][]int, len(s.depths))}
	for d, row := range s.depths {
		out.depths[d] = append([]int(nil), row...)
	}
	return out
}

func (s *MultisetInt) ensureDepth(depth int) {
	for len(s.depths) <= depth {
		s.depths = append(s.depths, nil)
	}
}

// Insert adds key at depth, growing the depth dimension as needed.
// It returns Added if key was not already present, Duplicate if it
// was (in which case Insert is a no-op).
func (s *MultisetInt) Insert(depth, key int) (InsertResult, error) {
	if depth < 0 {
		return 0, badDepth("oset.MultisetInt.Insert")
	}
	s.ensureDepth(depth)
	row := s.depths[depth]
	i := sort.SearchInts(row, key)
	if i < len(row) && row[i] == key {
		return Duplicate, nil
	}
	row = append(row, 0)
	copy(row[i+1:], row[i:])
	row[i] = key
	s.depths[depth] = row
	return Added, nil
}

// Remove deletes key from depth if present.
func (s *MultisetInt) Remove(depth, key int) (RemoveResult, error) {
	if depth < 0 || depth >= len(s.depths) {
		return NotFound, nil
	}
	row := s.depths[depth]
	i := sort.SearchInts(row, key)
	if i >= len(row) || row[i] != key {
		return NotFound, nil
	}
	copy(row[i:], row[i+1:])
	s.depths[depth] = row[:len(row)-1]
	return Removed, nil
}

// IsElement reports whether key is present at depth. It never fails:
// an invalid depth simply reports false.
func (s *MultisetInt) IsElement(depth, key int) bool {
	if depth < 0 || depth >= len(s.depths) {
		return false
	}
	row := s.depths[depth]
	i := sort.SearchInts(row, key)
	return i < len(row) && row[i] == key
}

// DepthCount returns the number of entries at depth, or -1 if depth
// is out of range.
func (s *MultisetInt) DepthCount(depth int) int {
	if depth < 0 || depth >= len(s.depths) {
		return -1
	}
	return len(s.depths[depth])
}

func (s *MultisetInt) depthLimit(maxDepth int) int {
	limit := len(s.depths) - 1
	if maxDepth >= 0 && maxDepth < limit {
		limit = maxDepth
	}
	return limit
}

// TotalCount returns the number of entries across every depth.
func (s *MultisetInt) TotalCount() int {
	return s.RestrictedTotalCount(-1)
}

// RestrictedTotalCount returns the number of entries at depths
// [0, maxDepth], or every depth when maxDepth < 0.
func (s *MultisetInt) RestrictedTotalCount(maxDepth int) int {
	c := 0
	for d := 0; d <= s.depthLimit(maxDepth); d++ {
		c += len(s.depths[d])
	}
	return c
}

// NonemptyCount returns the number of non-empty depths in
// [0, maxDepth] (every depth when maxDepth < 0).
func (s *MultisetInt) NonemptyCount(maxDepth int) int {
	c := 0
	for d := 0; d <= s.depthLimit(maxDepth); d++ {
		if len(s.depths[d]) > 0 {
			c++
		}
	}
	return c
}

// NthElement returns the i-th smallest key at depth.
func (s *MultisetInt) NthElement(depth, i int) (int, error) {
	if depth < 0 || depth >= len(s.depths) {
		return 0, badDepth("oset.MultisetInt.NthElement")
	}
	row := s.depths[depth]
	if i < 0 || i >= len(row) {
		return 0, badDepth("oset.MultisetInt.NthElement")
	}
	return row[i], nil
}

// ChooseDepth picks one of the non-empty depths in [0, maxDepth]
// uniformly via u in [0,1), returning the chosen depth and the count
// of non-empty depths it was chosen from.
func (s *MultisetInt) ChooseDepth(u float64, maxDepth int) (depth, ndepths int, err error) {
	limit := s.depthLimit(maxDepth)
	cdepths := 0
	for d := 0; d <= limit; d++ {
		if len(s.depths[d]) > 0 {
			cdepths++
		}
	}
	if cdepths == 0 {
		return 0, 0, allEmpty("oset.MultisetInt.ChooseDepth")
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
	return 0, 0, allEmpty("oset.MultisetInt.ChooseDepth")
}

// ChooseIndex picks the floor(u*n_d)-th entry at depth, returning it
// and n_d, the depth's entry count.
func (s *MultisetInt) ChooseIndex(depth int, u float64) (key, n int, err error) {
	if depth < 0 || depth >= len(s.depths) {
		return 0, 0, emptyDepth("oset.MultisetInt.ChooseIndex")
	}
	row := s.depths[depth]
	if len(row) == 0 {
		return 0, 0, emptyDepth("oset.MultisetInt.ChooseIndex")
	}
	j := int(u * float64(len(row)))
	if j >= len(row) {
		j = len(row) - 1
	}
	return row[j], len(row), nil
}

// ChooseIndexGlobally picks the floor(u*N)-th entry scanning depths
// [0, maxDepth] in order, where N is the total entry count over that
// range.
func (s *MultisetInt) ChooseIndexGlobally(u float64, maxDepth int) (key, depth, total int, err error) {
	limit := s.depthLimit(maxDepth)
	cindices := 0
	for d := 0; d <= limit; d++ {
		cindices += len(s.depths[d])
	}
	if cindices == 0 {
		return 0, 0, 0, allEmpty("oset.MultisetInt.ChooseIndexGlobally")
	}
	j := int(u * float64(cindices))
	for d := 0; d <= limit; d++ {
		row := s.depths[d]
		if len(row) > j {
			return row[j], d, cindices, nil
		}
		j -= len(row)
	}
	return 0, 0, 0, allEmpty("oset.MultisetInt.ChooseIndexGlobally")
}

// ChooseIndexWeighted picks a depth with probability proportional to
// n_d*(d+1)^alpha then a uniform entry within it, returning the entry,
// its depth, and the probability with which that entry was chosen.
func (s *MultisetInt) ChooseIndexWeighted(u float64, maxDepth int, alpha float64) (key, depth int, prob float64, err error) {
	limit := s.depthLimit(maxDepth)
	sum := 0.0
	for d := 0; d <= limit; d++ {
		sum += float64(len(s.depths[d])) * math.Pow(float64(d+1), alpha)
	}
	if sum == 0 {
		return 0, 0, 0, allEmpty("oset.MultisetInt.ChooseIndexWeighted")
	}
	v := sum * u
	for d := 0; d <= limit; d++ {
		dv := float64(len(s.depths[d])) * math.Pow(float64(d+1), alpha)
		if v < dv {
			j := int(v / dv * float64(len(s.depths[d])))
			if j >= len(s.depths[d]) {
				j = len(s.depths[d]) - 1
			}
			return s.depths[d][j], d, math.Pow(float64(d+1), alpha) / sum, nil
		}
		v -= dv
	}
	return 0, 0, 0, allEmpty("oset.MultisetInt.ChooseIndexWeighted")
}

// ReverseChooseIndexWeighted returns the probability with which
// ChooseIndexWeighted would have produced (key, depth), failing if
// that entry is not present.
func (s *MultisetInt) ReverseChooseIndexWeighted(maxDepth int, alpha float64, key, depth int) (float64, error) {
	if !s.IsElement(depth, key) {
		return 0, notFound("oset.MultisetInt.ReverseChooseIndexWeighted")
	}
	limit := s.depthLimit(maxDepth)
	sum := 0.0
	for d := 0; d <= limit; d++ {
		sum += float64(len(s.depths[d])) * math.Pow(float64(d+1), alpha)
	}
	return math.Pow(float64(depth+1), alpha) / sum, nil
}

// WriteText serialises s in the text format of spec §6.1: a depth
// count, then per depth a "<d> <n_d>" header followed by n_d "<k>"
// lines.
func (s *MultisetInt) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", len(s.depths)); err != nil {
		return err
	}
	for d, row := range s.depths {
		if _, err := fmt.Fprintf(bw, "%d %d\n", d, len(row)); err != nil {
			return err
		}
		for _, k := range row {
			if _, err := fmt.Fprintf(bw, "%d\n", k); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadText replaces s's contents by parsing the text format written
// by WriteText.
func (s *MultisetInt) ReadText(r io.Reader) error {
	s.Clear()
	s.depths = nil
	br := bufio.NewReader(r)
	var depthSize int
	if _, err := fmt.Fscanf(br, "%d\n", &depthSize); err != nil {
		return fmt.Errorf("oset.MultisetInt.ReadText: header: %w", err)
	}
	s.depths = make([][]int, depthSize)
	for d := 0; d < depthSize; d++ {
		var di, n int
		if _, err := fmt.Fscanf(br, "%d %d\n", &di, &n); err != nil {
			return fmt.Errorf("oset.MultisetInt.ReadText: depth header: %w", err)
		}
		if di != d {
			return fmt.Errorf("oset.MultisetInt.ReadText: depth mismatch %d != %d", di, d)
		}
		row := make([]int, n)
		for i := 0; i < n; i++ {
			if _, err := fmt.Fscanf(br, "%d\n", &row[i]); err != nil {
				return fmt.Errorf("oset.MultisetInt.ReadText: entry: %w", err)
			}
		}
		s.depths[d] = row
	}
	return nil
}
