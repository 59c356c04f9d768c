package octree

// Node is a handle on one node of a Tree. Handles are small values: copy them freely and compare
// them with == to test node identity. A handle goes stale once its node is removed; every
// method then reports the node as a leaf with a zero value, and mutations fail with
// ErrStaleNode.
//
// Child index i is read as a d-bit vector where bit k selects the lower (0) or upper (1) half
// of axis k within the parent's region.
type Node[T any] struct {
	tree  *Tree[T]
	index int32
	gen   uint32
}

// Valid reports whether the node is still part of its tree.
func (n Node[T]) Valid() bool {
	if n.tree == nil || int(n.index) >= len(n.tree.slots) {
		return false
	}
	s := &n.tree.slots[n.index]
	return s.live && s.gen == n.gen
}

// Tree returns the tree the node belongs to.
func (n Node[T]) Tree() *Tree[T] {
	return n.tree
}

// IsLeaf reports whether the node has no children.
func (n Node[T]) IsLeaf() bool {
	return !n.Valid() || n.tree.slots[n.index].children == noChildren
}

// NumChildren returns 0 for a leaf and 2^d otherwise.
func (n Node[T]) NumChildren() int {
	if n.IsLeaf() {
		return 0
	}
	return n.tree.fanout
}

// IsTerminal reports whether the node has children and all of them are leaves.
func (n Node[T]) IsTerminal() bool {
	if n.IsLeaf() {
		return false
	}
	first := n.tree.slots[n.index].children
	for i := first; i < first+int32(n.tree.fanout); i++ {
		if n.tree.slots[i].children != noChildren {
			return false
		}
	}
	return true
}

// AddChildren turns a leaf into an internal node with 2^d children holding the zero value.
func (n Node[T]) AddChildren() error {
	var zero T
	return n.AddChildrenWith(zero)
}

// AddChildrenWith turns a leaf into an internal node with 2^d children, each holding a copy of
// prototype. The copy is a plain assignment, so reference types end up shared.
func (n Node[T]) AddChildrenWith(prototype T) error {
	if !n.Valid() {
		return ErrStaleNode
	}
	return n.tree.addChildren(n.index, prototype)
}

// RemoveChildren removes the node's whole subtree, leaving it a leaf. Handles to removed nodes
// go stale and their arena slots are recycled. It returns false when the node was already a leaf.
func (n Node[T]) RemoveChildren() bool {
	if !n.Valid() {
		return false
	}
	before := n.tree.nodes
	if !n.tree.removeChildren(n.index) {
		return false
	}
	if n.tree.logger != nil {
		n.tree.logger.Debugw("octree subtree removed", "level", n.Level(), "nodes", before-n.tree.nodes)
	}
	return true
}

// Child returns child i of an internal node.
func (n Node[T]) Child(i int) (Node[T], error) {
	if !n.Valid() {
		return Node[T]{}, ErrStaleNode
	}
	first := n.tree.slots[n.index].children
	if first == noChildren {
		return Node[T]{}, ErrLeaf
	}
	if i < 0 || i >= n.tree.fanout {
		return Node[T]{}, &ChildIndexError{Index: i, NumChildren: n.tree.fanout}
	}
	return n.tree.node(first + int32(i)), nil
}

// Children returns all children in index order, or nil for a leaf.
func (n Node[T]) Children() []Node[T] {
	if n.IsLeaf() {
		return nil
	}
	first := n.tree.slots[n.index].children
	children := make([]Node[T], n.tree.fanout)
	for i := range children {
		children[i] = n.tree.node(first + int32(i))
	}
	return children
}

// Parent returns the node's parent. This is a back reference only: parents own their children,
// never the other way around. It returns false for the root and for stale handles.
func (n Node[T]) Parent() (Node[T], bool) {
	if !n.Valid() || n.tree.slots[n.index].parent == noParent {
		return Node[T]{}, false
	}
	return n.tree.node(n.tree.slots[n.index].parent), true
}

// ChildIndex returns which child of its parent the node is, or -1 for the root.
func (n Node[T]) ChildIndex() int {
	if !n.Valid() {
		return -1
	}
	parent := n.tree.slots[n.index].parent
	if parent == noParent {
		return -1
	}
	return int(n.index - n.tree.slots[parent].children)
}

// Level returns the node's depth below the tree root.
func (n Node[T]) Level() int {
	if !n.Valid() {
		return 0
	}
	return int(n.tree.slots[n.index].level)
}

// Value returns the node's payload.
func (n Node[T]) Value() T {
	if !n.Valid() {
		var zero T
		return zero
	}
	return n.tree.slots[n.index].data
}

// SetValue replaces the node's payload.
func (n Node[T]) SetValue(v T) error {
	if !n.Valid() {
		return ErrStaleNode
	}
	n.tree.slots[n.index].data = v
	return nil
}

// Ptr returns a pointer to the node's payload for in-place updates. The arena may move when
// children are added anywhere in the tree, so the pointer must not be held across AddChildren.
func (n Node[T]) Ptr() *T {
	if !n.Valid() {
		return nil
	}
	return &n.tree.slots[n.index].data
}
