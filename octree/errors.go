package octree

import (
	"fmt"

	"github.com/pkg/errors"
)

// Structural errors. These report an operation that does not fit the shape of the tree.
var (
	// ErrLeaf is returned when a child is requested from a node that has none.
	ErrLeaf = errors.New("octree node is a leaf")
	// ErrNotLeaf is returned when children are added to a node that already has them.
	ErrNotLeaf = errors.New("octree node already has children")
	// ErrMaxDepth is returned when children would be added below the tree's depth bound.
	ErrMaxDepth = errors.New("octree node is at the maximum depth")
	// ErrStaleNode is returned when a handle refers to a node that has since been removed.
	ErrStaleNode = errors.New("octree node has been removed")
)

// Navigation errors. These report a cursor move past the edge of the tree.
var (
	// ErrAtRoot is returned when a cursor at the root is asked to move up or sideways.
	ErrAtRoot = errors.New("octree cursor is at the root")
	// ErrDifferentRoot is returned when two paths that do not share a root are combined.
	ErrDifferentRoot = errors.New("octree paths have different roots")
)

// ChildIndexError is returned when a child index falls outside [0, NumChildren).
type ChildIndexError struct {
	Index       int
	NumChildren int
}

func (e *ChildIndexError) Error() string {
	return fmt.Sprintf("child index %d out of range [0, %d)", e.Index, e.NumChildren)
}

// AxisError is returned when an axis falls outside [0, Dimension).
type AxisError struct {
	Axis      int
	Dimension int
}

func (e *AxisError) Error() string {
	return fmt.Sprintf("axis %d out of range [0, %d)", e.Axis, e.Dimension)
}

// IsStructural reports whether err, or anything it wraps, is a structural violation.
func IsStructural(err error) bool {
	var indexErr *ChildIndexError
	return errors.Is(err, ErrLeaf) ||
		errors.Is(err, ErrNotLeaf) ||
		errors.Is(err, ErrMaxDepth) ||
		errors.Is(err, ErrStaleNode) ||
		errors.As(err, &indexErr)
}

// IsNavigation reports whether err, or anything it wraps, is a navigation boundary violation.
func IsNavigation(err error) bool {
	var axisErr *AxisError
	return errors.Is(err, ErrAtRoot) ||
		errors.Is(err, ErrDifferentRoot) ||
		errors.As(err, &axisErr)
}
