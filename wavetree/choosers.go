package wavetree

// This file is the forward/reverse proposal-probability API spec §4.2
// lists for birth/death/value/move: each forward chooser draws from
// the companion set that models "where a proposal of this kind can
// land", and its matching reverse query returns the probability mass
// the opposite-kind proposal would need to exactly undo it, without
// ever constructing the opposite proposal itself.

// ChooseBirthDepth picks a depth in [0,maxDepth] uniformly from the
// depths S_b currently has attachable nodes at.
func (t *Tree) ChooseBirthDepth(u float64, maxDepth int) (depth int, prob float64, err error) {
	d, n, err := t.sb.ChooseDepth(u, maxDepth)
	if err != nil {
		return 0, 0, err
	}
	return d, 1.0 / float64(n), nil
}

// ReverseBirthDepth returns the probability ChooseDeathDepth would
// have picked depth, i.e. 1/(number of non-empty S_d depths).
func (t *Tree) ReverseBirthDepth(depth, maxDepth int) (float64, error) {
	n := t.sd.NonemptyCount(maxDepth)
	if n == 0 {
		return 0, errAllEmpty("wavetree.ReverseBirthDepth")
	}
	return 1.0 / float64(n), nil
}

// ChooseBirth picks an attachable node uniformly within depth.
func (t *Tree) ChooseBirth(depth int, u float64) (index int, prob float64, err error) {
	key, n, err := t.sb.ChooseIndex(depth, u)
	if err != nil {
		return 0, 0, err
	}
	return key, 1.0 / float64(n), nil
}

// ReverseBirth returns the probability ChooseDeath would have picked
// index within depth, i.e. 1/|S_d at depth|.
func (t *Tree) ReverseBirth(depth, index int) (float64, error) {
	n := t.sd.DepthCount(depth)
	if n <= 0 {
		return 0, errEmptyDepth("wavetree.ReverseBirth")
	}
	return 1.0 / float64(n), nil
}

// ChooseBirthGlobal picks an attachable node across every depth in
// [0,maxDepth], weighted by n_d*(d+1)^alpha using the tree's alpha.
func (t *Tree) ChooseBirthGlobal(u float64, maxDepth int) (index, depth int, prob float64, err error) {
	return t.sb.ChooseIndexWeighted(u, maxDepth, t.alpha)
}

// ReverseBirthGlobal returns the probability ChooseDeathGlobal would
// have picked (index, depth) out of S_d.
func (t *Tree) ReverseBirthGlobal(maxDepth, depth, index int) (float64, error) {
	return t.sd.ReverseChooseIndexWeighted(maxDepth, t.alpha, index, depth)
}

// ChooseDeathDepth picks a depth in [0,maxDepth] uniformly from the
// depths S_d currently has prunable leaves at.
func (t *Tree) ChooseDeathDepth(u float64, maxDepth int) (depth int, prob float64, err error) {
	d, n, err := t.sd.ChooseDepth(u, maxDepth)
	if err != nil {
		return 0, 0, err
	}
	return d, 1.0 / float64(n), nil
}

// ReverseDeathDepth returns the probability ChooseBirthDepth would
// have picked depth, i.e. 1/(number of non-empty S_b depths).
func (t *Tree) ReverseDeathDepth(depth, maxDepth int) (float64, error) {
	n := t.sb.NonemptyCount(maxDepth)
	if n == 0 {
		return 0, errAllEmpty("wavetree.ReverseDeathDepth")
	}
	return 1.0 / float64(n), nil
}

// ChooseDeath picks a prunable leaf uniformly within depth.
func (t *Tree) ChooseDeath(depth int, u float64) (index int, prob float64, err error) {
	key, n, err := t.sd.ChooseIndex(depth, u)
	if err != nil {
		return 0, 0, err
	}
	return key, 1.0 / float64(n), nil
}

// ReverseDeath returns the probability ChooseBirth would have picked
// index within depth, i.e. 1/|S_b at depth|.
func (t *Tree) ReverseDeath(depth, index int) (float64, error) {
	n := t.sb.DepthCount(depth)
	if n <= 0 {
		return 0, errEmptyDepth("wavetree.ReverseDeath")
	}
	return 1.0 / float64(n), nil
}

// ChooseDeathGlobal picks a prunable leaf across every depth in
// [0,maxDepth], weighted by n_d*(d+1)^alpha using the tree's alpha.
func (t *Tree) ChooseDeathGlobal(u float64, maxDepth int) (index, depth int, prob float64, err error) {
	return t.sd.ChooseIndexWeighted(u, maxDepth, t.alpha)
}

// ReverseDeathGlobal returns the probability ChooseBirthGlobal would
// have picked (index, depth) out of S_b.
func (t *Tree) ReverseDeathGlobal(maxDepth, depth, index int) (float64, error) {
	return t.sb.ReverseChooseIndexWeighted(maxDepth, t.alpha, index, depth)
}

// ChooseValueDepth picks a depth in [0,maxDepth] uniformly from the
// depths S_v currently has active coefficients at.
func (t *Tree) ChooseValueDepth(u float64, maxDepth int) (depth int, prob float64, err error) {
	d, n, err := t.sv.ChooseDepth(u, maxDepth)
	if err != nil {
		return 0, 0, err
	}
	return d, 1.0 / float64(n), nil
}

// ChooseValue picks an active coefficient uniformly within depth.
func (t *Tree) ChooseValue(depth int, u float64) (index int, prob float64, err error) {
	e, n, err := t.sv.ChooseIndex(depth, u)
	if err != nil {
		return 0, 0, err
	}
	return e, 1.0 / float64(n), nil
}

// ChooseValueGlobal picks an active coefficient across every depth in
// [0,maxDepth], weighted by n_d*(d+1)^alpha using the tree's alpha.
// Value proposals are symmetric (the same coefficient is always
// available to re-propose), so there is no reverse query to pair with
// this one.
func (t *Tree) ChooseValueGlobal(u float64, maxDepth int) (index, depth int, prob float64, err error) {
	return t.sv.ChooseIndexWeighted(u, maxDepth, t.alpha)
}

// MoveAvailableSiblings returns the dyadic neighbour positions of
// (index, depth) that a move could relocate it to: same-depth
// candidates from the topology whose parent is active and whose slot
// is currently empty.
func (t *Tree) MoveAvailableSiblings(index, depth int) []int {
	var out []int
	for _, cand := range t.topo.SiblingCandidates(index, depth) {
		parent := t.topo.ParentIndex(cand)
		if !t.sv.IsElement(depth-1, parent) {
			continue
		}
		if t.sv.IsElement(depth, cand) {
			continue
		}
		out = append(out, cand)
	}
	return out
}

// ChooseMoveDepth picks a depth in [0,maxDepth] uniformly from the
// depths S_d has prunable (hence move-eligible) leaves at.
func (t *Tree) ChooseMoveDepth(u float64, maxDepth int) (depth int, prob float64, err error) {
	d, n, err := t.sd.ChooseDepth(u, maxDepth)
	if err != nil {
		return 0, 0, err
	}
	return d, 1.0 / float64(n), nil
}

// ChooseMove picks a move-eligible leaf uniformly within depth.
func (t *Tree) ChooseMove(depth int, u float64) (index int, prob float64, err error) {
	key, n, err := t.sd.ChooseIndex(depth, u)
	if err != nil {
		return 0, 0, err
	}
	return key, 1.0 / float64(n), nil
}

// ChooseMoveSibling picks one of index's available move destinations
// uniformly via u in [0,1).
func (t *Tree) ChooseMoveSibling(index, depth int, u float64) (newIndex int, prob float64, err error) {
	siblings := t.MoveAvailableSiblings(index, depth)
	if len(siblings) == 0 {
		return 0, 0, errEmptyDepth("wavetree.ChooseMoveSibling")
	}
	j := int(u * float64(len(siblings)))
	if j >= len(siblings) {
		j = len(siblings) - 1
	}
	return siblings[j], 1.0 / float64(len(siblings)), nil
}

// ReverseChooseMoveSibling returns the probability that moving
// newIndex back would have chosen index as its destination: 1 over
// one more than the number of siblings newIndex can see, the "+1"
// accounting for the slot index itself becoming available again once
// the reverse move vacates newIndex.
func (t *Tree) ReverseChooseMoveSibling(index, newIndex, depth int) float64 {
	n := len(t.MoveAvailableSiblings(newIndex, depth))
	return 1.0 / float64(n+1)
}
