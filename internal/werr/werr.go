// Package werr defines the shared failure-kind enum used across every
// public package in this module (oset, manifold, transform, wavetree,
// history, histogram).
//
// Spec §4.7 requires one discriminated result vocabulary shared by the
// whole library rather than one sentinel error per package, so that a
// caller can distinguish e.g. "a chooser was asked to pick from an
// empty set" from "a mutation targeted a non-active coefficient" with a
// single errors.Is/errors.As check regardless of which component raised
// it. Every exported constructor in this module returns either nil or
// a *werr.Error built with New.
package werr

import "fmt"

// Kind tags the category of failure, mirroring spec §4.7 one-for-one.
type Kind int

const (
	// BadArg marks an illegal index, out-of-range depth, or nil receiver.
	BadArg Kind = iota
	// NotActive marks a value-change or death requested for a coefficient
	// that is not currently in S_v.
	NotActive
	// NotAttachable marks a birth requested for a node not in S_b.
	NotAttachable
	// Occupied marks a move whose destination is already active.
	Occupied
	// NothingPending marks a commit/undo call with no pending edit.
	NothingPending
	// Full marks a chain history whose capacity is exhausted.
	Full
	// IoFailure marks a user-supplied read/write that returned a short count.
	IoFailure
	// FormatError marks persisted data that did not match the expected schema.
	FormatError
	// AllEmpty marks a chooser invoked against a fully empty multiset.
	AllEmpty
	// EmptyDepth marks a chooser invoked against an empty depth.
	EmptyDepth
)

// String renders the Kind for diagnostics and %v formatting.
func (k Kind) String() string {
	switch k {
	case BadArg:
		return "BadArg"
	case NotActive:
		return "NotActive"
	case NotAttachable:
		return "NotAttachable"
	case Occupied:
		return "Occupied"
	case NothingPending:
		return "NothingPending"
	case Full:
		return "Full"
	case IoFailure:
		return "IoFailure"
	case FormatError:
		return "FormatError"
	case AllEmpty:
		return "AllEmpty"
	case EmptyDepth:
		return "EmptyDepth"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every public operation
// in this module that can fail. Op identifies the failing call
// (e.g. "wavetree.ProposeBirth") so logs and test failures read the
// same way the teacher's sentinel errors do, without losing the
// machine-checkable Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error // wrapped cause, nil for pure validation failures
}

// New constructs an *Error. err may be nil when the failure is a pure
// validation condition with no underlying cause to wrap.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, werr.Kind) work by comparing against a
// sentinel *Error carrying only a Kind, in addition to the usual
// exact-Kind comparison used internally.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel returns a comparison target for errors.Is(err, werr.Sentinel(k)).
func Sentinel(k Kind) error { return &Error{Kind: k} }
