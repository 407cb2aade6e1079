package wavetree

import "math"

// MapToArray fills buf, which must have length Topology.PhysicalSize(),
// with the dense representation of the active tree. Grounded on
// wavetree2d.c/wavetree2d_sub.c's map_to_array: when the topology has
// no subtile (BaseSize()==1) every active coefficient overwrites its
// physical cell directly; when a subtile exists, the root's value is
// replicated across every base cell, each depth-1 coefficient adds a
// delta on top of that replication, and every depth >= 2 coefficient
// overwrites its cell outright.
func (t *Tree) MapToArray(buf []float64) error {
	const op = "wavetree.MapToArray"
	n := t.topo.PhysicalSize()
	if len(buf) != n {
		return errBadArg(op)
	}
	for i := range buf {
		buf[i] = 0
	}

	if t.topo.BaseSize() == 1 {
		maxDepth := t.topo.MaxDepth()
		for d := 0; d <= maxDepth; d++ {
			c := t.sv.DepthCount(d)
			for i := 0; i < c; i++ {
				e, err := t.sv.NthElement(d, i)
				if err != nil {
					return err
				}
				phys, ok := t.topo.PhysicalIndexOf(e.Key)
				if ok {
					buf[phys] = e.Value
				}
			}
		}
		return nil
	}

	rootValue, err := t.sv.Get(0, 0)
	if err != nil {
		return err
	}
	for _, c := range t.topo.RootChildren() {
		if phys, ok := t.topo.PhysicalIndexOf(c); ok {
			buf[phys] = rootValue
		}
	}

	if n1 := t.sv.DepthCount(1); n1 > 0 {
		for i := 0; i < n1; i++ {
			e, err := t.sv.NthElement(1, i)
			if err != nil {
				return err
			}
			if phys, ok := t.topo.PhysicalIndexOf(e.Key); ok {
				buf[phys] += e.Value
			}
		}
	}

	maxDepth := t.topo.MaxDepth()
	for d := 2; d <= maxDepth; d++ {
		c := t.sv.DepthCount(d)
		for i := 0; i < c; i++ {
			e, err := t.sv.NthElement(d, i)
			if err != nil {
				return err
			}
			if phys, ok := t.topo.PhysicalIndexOf(e.Key); ok {
				buf[phys] = e.Value
			}
		}
	}
	return nil
}

// MapFromArray rebuilds the tree structure from buf with a zero
// sparsification threshold, i.e. every physical cell becomes an
// active coefficient. Grounded on wavetree2d_sub_map_from_array,
// which calls create_from_array_with_threshold with threshold 0.0.
func (t *Tree) MapFromArray(buf []float64) error {
	return t.CreateFromArrayWithThreshold(buf, 0.0)
}

// CreateFromArrayWithThreshold rebuilds the tree from a dense array,
// pruning any depth >= 2 coefficient whose magnitude falls below
// threshold and which ends up with no active children of its own.
// Grounded on wavetree2d_sub_create_from_array: the root is the mean
// of the base cells (or simply A[0] when there is no subtile), each
// depth-1 child stores the delta from that mean (its raw value when
// there is no subtile), and depth >= 2
// coefficients store the raw array value and are pruned bottom-up.
func (t *Tree) CreateFromArrayWithThreshold(buf []float64, threshold float64) error {
	const op = "wavetree.CreateFromArrayWithThreshold"
	if len(buf) != t.topo.PhysicalSize() {
		return errBadArg(op)
	}

	t.sv.Clear()
	t.sb.Clear()
	t.sd.Clear()
	t.pending = nil
	t.lastStep = Step{}

	rootChildren := t.topo.RootChildren()
	var mean float64
	if t.topo.BaseSize() == 1 {
		phys, ok := t.topo.PhysicalIndexOf(0)
		if ok {
			mean = buf[phys]
		} else if len(rootChildren) > 0 {
			if p, ok := t.topo.PhysicalIndexOf(rootChildren[0]); ok {
				mean = buf[p]
			}
		}
	} else {
		sum := 0.0
		count := 0
		for _, c := range rootChildren {
			if phys, ok := t.topo.PhysicalIndexOf(c); ok {
				sum += buf[phys]
				count++
			}
		}
		if count > 0 {
			mean = sum / float64(count)
		}
	}

	if err := t.addNode(0, 0, mean); err != nil {
		return err
	}
	t.ready = true

	for _, c := range rootChildren {
		var val float64
		if phys, ok := t.topo.PhysicalIndexOf(c); ok {
			val = buf[phys]
		}
		delta := val - mean
		if t.topo.BaseSize() == 1 {
			// Direct topologies have no synthetic root cell; depth-1
			// coefficients store the raw value, not a delta.
			delta = val
		}
		if err := t.addNode(c, 1, delta); err != nil {
			return err
		}
		if err := t.buildDescendants(c, 1, buf, threshold); err != nil {
			return err
		}
	}
	return nil
}

// buildDescendants recurses to full resolution before pruning on the
// way back up, so a node's prune decision always sees its children's
// final (possibly already-pruned) state.
func (t *Tree) buildDescendants(parent, depth int, buf []float64, threshold float64) error {
	for _, c := range t.topo.ChildIndices(parent, depth) {
		// A node with no physical cell (a coarser face-mode triangle)
		// is kept with value 0 so its finer descendants stay reachable.
		var val float64
		if phys, ok := t.topo.PhysicalIndexOf(c); ok {
			val = buf[phys]
		}
		if err := t.addNode(c, depth+1, val); err != nil {
			return err
		}
		if err := t.buildDescendants(c, depth+1, buf, threshold); err != nil {
			return err
		}
		if depth+1 >= 2 && math.Abs(val) < threshold {
			hasChild := false
			for _, cc := range t.topo.ChildIndices(c, depth+1) {
				if t.sv.IsElement(depth+2, cc) {
					hasChild = true
					break
				}
			}
			if !hasChild {
				if err := t.removeNode(c, depth+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
