package oset

import (
	"github.com/rhyshawkins/wavetree/internal/werr"
)

// InsertResult reports whether Insert added a new entry or found the
// key already present.
type InsertResult int

const (
	// Added indicates the key was not previously present and now is.
	Added InsertResult = iota
	// Duplicate indicates the key was already present; Insert was a no-op.
	Duplicate
)

func (r InsertResult) String() string {
	if r == Added {
		return "Added"
	}
	return "Duplicate"
}

// RemoveResult reports whether Remove deleted an entry.
type RemoveResult int

const (
	// Removed indicates the key was present and has been deleted.
	Removed RemoveResult = iota
	// NotFound indicates the key was not present.
	NotFound
)

func (r RemoveResult) String() string {
	if r == Removed {
		return "Removed"
	}
	return "NotFound"
}

func badDepth(op string) error { return werr.New(werr.BadArg, op, nil) }
func notFound(op string) error { return werr.New(werr.BadArg, op, nil) }
func allEmpty(op string) error { return werr.New(werr.AllEmpty, op, nil) }
func emptyDepth(op string) error { return werr.New(werr.EmptyDepth, op, nil) }
