// Package octree implements a depth bounded 2^d-ary spatial subdivision tree. Nodes live in a
// flat arena whose child blocks are handed out by a freerange.Allocator, and are reached either
// directly through Node handles or by moving a Cursor up and down from a root.
//
// A Tree is not safe for concurrent mutation. Any number of paths and cursors may read a tree
// at once as long as nothing adds or removes children meanwhile; moving a cursor only changes
// the cursor.
package octree

import (
	"slices"

	"github.com/pkg/errors"

	"go.viam.com/octree/freerange"
	"go.viam.com/octree/logging"
)

const (
	noParent   = -1
	noChildren = -1
)

// slot is one arena cell. A block of 2^d sibling slots is always allocated and freed together.
type slot[T any] struct {
	data     T
	parent   int32
	children int32
	level    int32
	gen      uint32
	live     bool
}

// Tree owns the root node and the arena every node is stored in.
type Tree[T any] struct {
	logger   logging.Logger
	dim      int
	fanout   int
	maxDepth int

	slots    []slot[T]
	alloc    *freerange.Allocator
	nodes    int
	internal int
}

// New returns a tree holding a single root leaf with the given value.
func New[T any](cfg *Config, rootValue T, logger logging.Logger) (*Tree[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate("octree"); err != nil {
		return nil, err
	}

	t := &Tree[T]{
		logger:   logger,
		dim:      cfg.Dimension,
		fanout:   1 << cfg.Dimension,
		maxDepth: cfg.MaxDepth,
		slots:    make([]slot[T], 0, cfg.InitialCapacity),
		alloc:    freerange.New(),
	}

	// a fresh allocator always hands out slot 0 first
	t.alloc.Grab(1)
	t.ensureCapacity(1)
	t.slots[0] = slot[T]{data: rootValue, parent: noParent, children: noChildren, live: true}
	t.nodes = 1
	return t, nil
}

// Root returns the root node.
func (t *Tree[T]) Root() Node[T] {
	return t.node(0)
}

// Dimension returns d.
func (t *Tree[T]) Dimension() int {
	return t.dim
}

// NumChildrenPerNode returns 2^d, the child count of every internal node.
func (t *Tree[T]) NumChildrenPerNode() int {
	return t.fanout
}

// MaxDepth returns the depth bound, or zero when the tree is unbounded.
func (t *Tree[T]) MaxDepth() int {
	return t.maxDepth
}

// Cursor returns a cursor positioned at the root.
func (t *Tree[T]) Cursor() *Cursor[T] {
	return NewCursor(t.Root())
}

// Path returns a path positioned at the root.
func (t *Tree[T]) Path() Path[T] {
	return NewPath(t.Root())
}

// PathTo returns the path reached by descending from the root through indices.
func (t *Tree[T]) PathTo(indices ...int) (Path[T], error) {
	return NewPathTo(t.Root(), indices...)
}

// NumNodes returns the number of live nodes, the root included.
func (t *Tree[T]) NumNodes() int {
	return t.nodes
}

// NumLeaves returns the number of live nodes without children.
func (t *Tree[T]) NumLeaves() int {
	return t.nodes - t.internal
}

// NumLevels returns one more than the deepest level holding a node.
func (t *Tree[T]) NumLevels() int {
	deepest := int32(0)
	for i := range t.slots {
		if t.slots[i].live && t.slots[i].level > deepest {
			deepest = t.slots[i].level
		}
	}
	return int(deepest) + 1
}

// ArenaStats reports the arena length, the slots holding live nodes and the free holes.
func (t *Tree[T]) ArenaStats() (slots, inUse, holes int) {
	return len(t.slots), t.alloc.Size(), t.alloc.NumHoles()
}

// Clone returns a tree with the same shape, payloads and arena layout that shares no nodes with
// t. Payloads are copied by assignment, so reference types end up shared. Handles, paths and
// cursors stay bound to the tree they were taken from.
func (t *Tree[T]) Clone() *Tree[T] {
	clone := *t
	clone.slots = slices.Clone(t.slots)
	clone.alloc = t.alloc.Clone()
	return &clone
}

// Clear removes every descendant of the root.
func (t *Tree[T]) Clear() {
	t.Root().RemoveChildren()
}

func (t *Tree[T]) node(index int32) Node[T] {
	return Node[T]{tree: t, index: index, gen: t.slots[index].gen}
}

func (t *Tree[T]) ensureCapacity(n int) {
	if n <= len(t.slots) {
		return
	}
	oldCap := cap(t.slots)
	t.slots = append(t.slots, make([]slot[T], n-len(t.slots))...)
	if oldCap > 0 && cap(t.slots) != oldCap && t.logger != nil {
		t.logger.Debugw("octree arena grown", "slots", len(t.slots), "capacity", cap(t.slots))
	}
}

func (t *Tree[T]) addChildren(index int32, prototype T) error {
	level := t.slots[index].level
	if t.slots[index].children != noChildren {
		return ErrNotLeaf
	}
	if t.maxDepth > 0 && int(level) >= t.maxDepth {
		return errors.Wrapf(ErrMaxDepth, "cannot split node at level %d of %d", level, t.maxDepth)
	}

	start := t.alloc.Grab(t.fanout)
	t.ensureCapacity(start + t.fanout)
	for i := start; i < start+t.fanout; i++ {
		s := &t.slots[i]
		s.data = prototype
		s.parent = index
		s.children = noChildren
		s.level = level + 1
		s.live = true
	}
	t.slots[index].children = int32(start)
	t.nodes += t.fanout
	t.internal++
	return nil
}

func (t *Tree[T]) removeChildren(index int32) bool {
	first := t.slots[index].children
	if first == noChildren {
		return false
	}

	var zero T
	for i := first; i < first+int32(t.fanout); i++ {
		t.removeChildren(i)
		s := &t.slots[i]
		s.data = zero
		s.parent = noParent
		s.live = false
		s.gen++
	}
	t.alloc.Free(int(first), t.fanout)
	t.slots[index].children = noChildren
	t.nodes -= t.fanout
	t.internal--
	return true
}
