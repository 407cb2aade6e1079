package wavetree

// Topology abstracts the parent/child/physical-index relations a
// Tree is built over. The five wavetree variants of spec §2 (Rect2D,
// Rect3D, Sphere2D-face, Sphere3D-face, Sphere3D-vertex) are five
// implementations of this interface; Tree itself never branches on
// which variant it holds.
//
// This is the Go reading of the design note's "One Wavetree<T:
// Topology> type parameterised by a trait": rather than a generic
// type parameter, Tree holds a Topology value, since none of this
// module's domain needs compile-time specialisation and an interface
// keeps the five variants as ordinary, independently testable types.
type Topology interface {
	// Size returns N_total, the size of the dense tree-index space.
	Size() int

	// MaxDepth returns the deepest depth any valid index can have.
	MaxDepth() int

	// MaxChildren returns the scratch bound used for child-index buffers.
	MaxChildren() int

	// BaseSize returns B, the subtile size. When B > 1 it is the
	// number of base cells directly under the synthetic root; B == 1
	// means there is no subtile: the root occupies physical cell 0 and
	// its depth-1 children are ordinary dyadic cells.
	BaseSize() int

	// ParentIndex returns p(i), or -1 if i is the root.
	ParentIndex(i int) int

	// DepthOfIndex walks parent links from i up to the root and
	// returns the number of links walked.
	DepthOfIndex(i int) int

	// ChildIndices returns the children of index at depth, in
	// canonical order. The canonical order is fixed per topology and
	// is what the Dyck-word encoding (spec §6.4) relies on for its
	// duplicate-detection guarantee.
	ChildIndices(index, depth int) []int

	// PhysicalSize returns N_physical, the size of the dense array
	// map_to_array/map_from_array operate on.
	PhysicalSize() int

	// PhysicalIndexOf maps a tree index to its physical array index.
	// ok is false for the synthetic root when BaseSize() > 1 (the
	// root has no single physical cell).
	PhysicalIndexOf(treeIndex int) (physIdx int, ok bool)

	// RootChildren returns the depth-1 node indices, i.e. ChildIndices(0, 0).
	RootChildren() []int

	// SiblingCandidates returns the dyadic neighbour positions at the
	// same depth as index that are valid move destinations (their
	// parent is active and they are themselves empty is checked by
	// the caller, not here). Returns nil for topologies that do not
	// support move (every variant except Rect2D/Rect3D, per spec §9).
	SiblingCandidates(index, depth int) []int

	// SupportsMove reports whether this topology implements move.
	SupportsMove() bool

	// GeometryDegrees and GeometryDims describe the domain's shape for
	// the persistence header of spec §6.1/§6.2 ("<degree_w> <degree_h>
	// [<degree_d>]" followed by "<W> <H> [<Z>] <N_total>"). Rect
	// topologies return one degree/dimension per axis; spherical
	// topologies return the subdivision degree (followed by the shell
	// count when there is more than one shell) and the physical cell
	// count.
	GeometryDegrees() []int
	GeometryDims() []int
}
