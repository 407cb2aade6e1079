// Package wavetree implements the trans-dimensional coefficient tree
// that a reversible-jump MCMC sampler perturbs: a sparse set of active
// coefficients over a multi-resolution domain, maintained alongside
// the two companion sets (attachable children, prunable leaves) that
// make birth/death/move proposals O(1) to generate and score.
//
// Tree itself holds no knowledge of which of the five domain variants
// (Rect2D, Rect3D, Sphere2D-face, Sphere3D-face, Sphere3D-vertex) it
// runs over; that is entirely captured by the Topology it is built
// with. This mirrors wavetree2d_sub.c/wavetree3d_sub.c in
// original_source, generalised so one engine serves every variant
// instead of duplicating S_v/S_b/S_d bookkeeping per dimension.
package wavetree

import (
	"github.com/rhyshawkins/wavetree/internal/werr"
	"github.com/rhyshawkins/wavetree/oset"
)

// Option configures a Tree at construction time.
type Option func(*Tree)

// WithAlpha sets the depth-weighting exponent used by every *Global
// chooser (spec §4.1's "weight n_d*(d+1)^alpha"). The default is 0,
// i.e. uniform over all entries regardless of depth.
func WithAlpha(alpha float64) Option {
	return func(t *Tree) { t.alpha = alpha }
}

// Tree is one trans-dimensional coefficient tree: the active set S_v,
// the two companion sets S_b/S_d, and the single pending edit a
// propose/undo/commit cycle operates on.
type Tree struct {
	topo  Topology
	alpha float64

	sv *oset.MultisetIntDouble
	sb *oset.MultisetInt
	sd *oset.MultisetInt

	pending  *pendingEdit
	lastStep Step
	ready    bool
}

type pendingEdit struct {
	kind     Kind
	index    int
	newIndex int // KindMove only
	depth    int
	oldValue float64
	newValue float64
}

// New constructs an empty, uninitialised Tree over topo. Call
// Initialize before proposing any edit.
func New(topo Topology, opts ...Option) *Tree {
	t := &Tree{
		topo: topo,
		sv:   oset.NewMultisetIntDouble(),
		sb:   oset.NewMultisetInt(),
		sd:   oset.NewMultisetInt(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Topology returns the domain topology this Tree was built over.
func (t *Tree) Topology() Topology { return t.topo }

// Alpha returns the depth-weighting exponent used by *Global choosers.
func (t *Tree) Alpha() float64 { return t.alpha }

// Initialize resets the tree to its single-coefficient state: the
// root active with value dc, S_b holding the root's children, S_d
// holding just the root (spec §4.2's "reset to {(0,0,dc)}").
func (t *Tree) Initialize(dc float64) error {
	t.sv.Clear()
	t.sb.Clear()
	t.sd.Clear()
	t.pending = nil
	t.lastStep = Step{}

	if _, err := t.sv.Insert(0, 0, dc); err != nil {
		return err
	}
	if _, err := t.sd.Insert(0, 0); err != nil {
		return err
	}
	for _, c := range t.topo.RootChildren() {
		if _, err := t.sb.Insert(1, c); err != nil {
			return err
		}
	}
	t.ready = true
	return nil
}

func (t *Tree) requireReady(op string) error {
	if !t.ready {
		return werr.New(werr.BadArg, op, nil)
	}
	return nil
}

func (t *Tree) requireNoPending(op string) error {
	if t.pending != nil {
		return werr.New(werr.BadArg, op, nil)
	}
	return nil
}

// addNode activates (depth, index) with value, maintaining S_b/S_d:
// the node leaves S_b (if present), its parent leaves S_d (it now has
// a child), its own children enter S_b, and it enters S_d as a
// currently-childless leaf.
func (t *Tree) addNode(index, depth int, value float64) error {
	if _, err := t.sv.Insert(depth, index, value); err != nil {
		return err
	}
	if _, err := t.sb.Remove(depth, index); err != nil {
		return err
	}
	if index != 0 {
		parent := t.topo.ParentIndex(index)
		if _, err := t.sd.Remove(depth-1, parent); err != nil {
			return err
		}
	}
	for _, c := range t.topo.ChildIndices(index, depth) {
		if _, err := t.sb.Insert(depth+1, c); err != nil {
			return err
		}
	}
	if _, err := t.sd.Insert(depth, index); err != nil {
		return err
	}
	return nil
}

// removeNode deactivates (depth, index), the exact inverse of
// addNode: it leaves S_v/S_d, re-enters S_b, its children leave S_b,
// and its parent re-enters S_d if it has no other active child.
func (t *Tree) removeNode(index, depth int) error {
	if _, err := t.sv.Remove(depth, index); err != nil {
		return err
	}
	if _, err := t.sd.Remove(depth, index); err != nil {
		return err
	}
	if _, err := t.sb.Insert(depth, index); err != nil {
		return err
	}
	for _, c := range t.topo.ChildIndices(index, depth) {
		if _, err := t.sb.Remove(depth+1, c); err != nil {
			return err
		}
	}
	if index != 0 {
		parent := t.topo.ParentIndex(index)
		hasOtherChild := false
		for _, sib := range t.topo.ChildIndices(parent, depth-1) {
			if sib != index && t.sv.IsElement(depth, sib) {
				hasOtherChild = true
				break
			}
		}
		if !hasOtherChild {
			if _, err := t.sd.Insert(depth-1, parent); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProposeValue stages a value change for an already-active
// coefficient. Commit or Undo must follow before any other propose.
func (t *Tree) ProposeValue(index, depth int, newValue float64) error {
	const op = "wavetree.ProposeValue"
	if err := t.requireReady(op); err != nil {
		return err
	}
	if err := t.requireNoPending(op); err != nil {
		return err
	}
	if !t.sv.IsElement(depth, index) {
		return werr.New(werr.NotActive, op, nil)
	}
	old, err := t.sv.Get(depth, index)
	if err != nil {
		return err
	}
	if err := t.sv.Set(depth, index, newValue); err != nil {
		return err
	}
	t.pending = &pendingEdit{kind: KindValue, index: index, depth: depth, oldValue: old, newValue: newValue}
	t.lastStep = Step{Kind: KindValue, Depth: depth, Index: index, OldValue: old, NewValue: newValue}
	return nil
}

// ProposeBirth stages the activation of an attachable coefficient
// (index, depth) in S_b with value newValue.
func (t *Tree) ProposeBirth(index, depth int, newValue float64) error {
	const op = "wavetree.ProposeBirth"
	if err := t.requireReady(op); err != nil {
		return err
	}
	if err := t.requireNoPending(op); err != nil {
		return err
	}
	if !t.sb.IsElement(depth, index) {
		return werr.New(werr.NotAttachable, op, nil)
	}
	if err := t.addNode(index, depth, newValue); err != nil {
		return err
	}
	t.pending = &pendingEdit{kind: KindBirth, index: index, depth: depth, newValue: newValue}
	t.lastStep = Step{Kind: KindBirth, Depth: depth, Index: index, NewValue: newValue}
	return nil
}

// ProposeDeath stages the deactivation of a prunable leaf (index,
// depth) in S_d, returning the value it held so the caller can score
// the reverse proposal.
func (t *Tree) ProposeDeath(index, depth int) (float64, error) {
	const op = "wavetree.ProposeDeath"
	if err := t.requireReady(op); err != nil {
		return 0, err
	}
	if err := t.requireNoPending(op); err != nil {
		return 0, err
	}
	if !t.sd.IsElement(depth, index) {
		return 0, werr.New(werr.NotActive, op, nil)
	}
	old, err := t.sv.Get(depth, index)
	if err != nil {
		return 0, err
	}
	if err := t.removeNode(index, depth); err != nil {
		return 0, err
	}
	t.pending = &pendingEdit{kind: KindDeath, index: index, depth: depth, oldValue: old}
	t.lastStep = Step{Kind: KindDeath, Depth: depth, Index: index, OldValue: old}
	return old, nil
}

// ProposeMove stages the relocation of an active leaf (index, depth)
// to an empty sibling slot newIndex carrying newValue. Only
// topologies with SupportsMove() true allow this (spec §9: rect
// domains only).
func (t *Tree) ProposeMove(index, newIndex, depth int, newValue float64) error {
	const op = "wavetree.ProposeMove"
	if err := t.requireReady(op); err != nil {
		return err
	}
	if err := t.requireNoPending(op); err != nil {
		return err
	}
	if !t.topo.SupportsMove() {
		return werr.New(werr.BadArg, op, nil)
	}
	if !t.sd.IsElement(depth, index) {
		return werr.New(werr.NotActive, op, nil)
	}
	if t.sv.IsElement(depth, newIndex) {
		return werr.New(werr.Occupied, op, nil)
	}
	newParent := t.topo.ParentIndex(newIndex)
	if !t.sv.IsElement(depth-1, newParent) {
		return werr.New(werr.NotAttachable, op, nil)
	}
	old, err := t.sv.Get(depth, index)
	if err != nil {
		return err
	}
	if err := t.removeNode(index, depth); err != nil {
		return err
	}
	if err := t.addNode(newIndex, depth, newValue); err != nil {
		return err
	}
	t.pending = &pendingEdit{kind: KindMove, index: index, newIndex: newIndex, depth: depth, oldValue: old, newValue: newValue}
	t.lastStep = Step{Kind: KindMove, Depth: depth, Index: index, NewIndex: newIndex, OldValue: old, NewValue: newValue}
	return nil
}

// Undo reverses the pending edit, restoring the tree to the state it
// had before the last Propose* call. Fails with NothingPending if
// there is no pending edit.
func (t *Tree) Undo() error {
	const op = "wavetree.Undo"
	if t.pending == nil {
		return werr.New(werr.NothingPending, op, nil)
	}
	p := t.pending
	var err error
	switch p.kind {
	case KindValue:
		err = t.sv.Set(p.depth, p.index, p.oldValue)
	case KindBirth:
		err = t.removeNode(p.index, p.depth)
	case KindDeath:
		err = t.addNode(p.index, p.depth, p.oldValue)
	case KindMove:
		if err = t.removeNode(p.newIndex, p.depth); err == nil {
			err = t.addNode(p.index, p.depth, p.oldValue)
		}
	}
	t.pending = nil
	t.lastStep = Step{}
	return err
}

// Commit accepts the pending edit permanently. Fails with
// NothingPending if there is no pending edit.
func (t *Tree) Commit() error {
	const op = "wavetree.Commit"
	if t.pending == nil {
		return werr.New(werr.NothingPending, op, nil)
	}
	t.pending = nil
	t.lastStep.Accepted = true
	return nil
}

// GetLastPerturbation returns the most recently proposed (and possibly
// committed) edit. Its zero value (Kind == KindValue with every other
// field zero) after Undo or before any proposal is indistinguishable
// from a genuine zero-valued value-change; callers that need to tell
// "no history yet" from "the history is a value change to zero" should
// track that themselves, matching the upstream library's equally
// stateless last_step slot.
func (t *Tree) GetLastPerturbation() Step { return t.lastStep }

// SetLastPerturbationContext fills in the sampler-supplied fields
// (likelihood, temperature, hierarchical scale) the host MCMC driver
// attaches to the current step before handing it to a ChainHistory.
func (t *Tree) SetLastPerturbationContext(likelihood, temperature, hierarchical float64) {
	t.lastStep.Likelihood = likelihood
	t.lastStep.Temperature = temperature
	t.lastStep.Hierarchical = hierarchical
}

// Coefficients returns the number of active coefficients, i.e. |S_v|.
func (t *Tree) Coefficients() int { return t.sv.TotalCount() }

// Value returns the coefficient stored at (index, depth), failing
// with NotActive if it is not in S_v.
func (t *Tree) Value(index, depth int) (float64, error) {
	v, err := t.sv.Get(depth, index)
	if err != nil {
		return 0, werr.New(werr.NotActive, "wavetree.Value", err)
	}
	return v, nil
}

// Valid audits the six companion-set invariants spec §3.3 requires to
// hold after every successful public call:
//  1. S_b is disjoint from S_v (and so from S_d).
//  2. every non-root member of S_v has its parent in S_v.
//  3. every member of S_b has its parent in S_v, and every child of a
//     member of S_v that is not itself in S_v is in S_b.
//  4. every member of S_d is in S_v.
//  5. every member of S_d has no child in S_v, and every member of S_v
//     with no child in S_v is in S_d.
//  6. the root is in S_v whenever S_v is non-empty.
func (t *Tree) Valid() error {
	const op = "wavetree.Valid"
	maxDepth := t.topo.MaxDepth()

	for d := 0; d <= maxDepth; d++ {
		n := t.sv.DepthCount(d)
		for i := 0; i < n; i++ {
			e, err := t.sv.NthElement(d, i)
			if err != nil {
				return err
			}
			if t.sb.IsElement(d, e.Key) {
				return werr.New(werr.BadArg, op, nil)
			}
			if d > 0 {
				if !t.sv.IsElement(d-1, t.topo.ParentIndex(e.Key)) {
					return werr.New(werr.BadArg, op, nil)
				}
			}
			hasActiveChild := false
			for _, c := range t.topo.ChildIndices(e.Key, d) {
				if t.sv.IsElement(d+1, c) {
					hasActiveChild = true
				} else if !t.sb.IsElement(d+1, c) {
					return werr.New(werr.BadArg, op, nil)
				}
			}
			if !hasActiveChild && !t.sd.IsElement(d, e.Key) {
				return werr.New(werr.BadArg, op, nil)
			}
		}

		bn := t.sb.DepthCount(d)
		for i := 0; i < bn; i++ {
			key, err := t.sb.NthElement(d, i)
			if err != nil {
				return err
			}
			if t.sv.IsElement(d, key) {
				return werr.New(werr.BadArg, op, nil)
			}
			if d > 0 && !t.sv.IsElement(d-1, t.topo.ParentIndex(key)) {
				return werr.New(werr.BadArg, op, nil)
			}
		}

		dn := t.sd.DepthCount(d)
		for i := 0; i < dn; i++ {
			key, err := t.sd.NthElement(d, i)
			if err != nil {
				return err
			}
			if !t.sv.IsElement(d, key) {
				return werr.New(werr.BadArg, op, nil)
			}
			for _, c := range t.topo.ChildIndices(key, d) {
				if t.sv.IsElement(d+1, c) {
					return werr.New(werr.BadArg, op, nil)
				}
			}
		}
	}

	if t.sv.TotalCount() > 0 && !t.sv.IsElement(0, 0) {
		return werr.New(werr.BadArg, op, nil)
	}
	return nil
}
