package octree

// Order selects the sequence in which Walk visits nodes.
type Order int

const (
	// PreOrder visits a node before its children.
	PreOrder Order = iota
	// PostOrder visits a node after its children.
	PostOrder
	// BreadthFirst visits every node of a level before the next level.
	BreadthFirst
)

func (o Order) String() string {
	switch o {
	case PreOrder:
		return "pre-order"
	case PostOrder:
		return "post-order"
	case BreadthFirst:
		return "breadth-first"
	default:
		return "unknown"
	}
}

// Walk visits every node of the tree in the given order. fn receives a cursor at the visited
// node; it may read through it or Clone it but must not move it. Returning false stops the walk.
func (t *Tree[T]) Walk(order Order, fn func(c *Cursor[T]) bool) {
	WalkFrom(t.Root(), order, fn)
}

// WalkFrom is Walk over the subtree rooted at root. Cursors handed to fn are rooted at root.
func WalkFrom[T any](root Node[T], order Order, fn func(c *Cursor[T]) bool) {
	if !root.Valid() {
		return
	}
	switch order {
	case PreOrder:
		walkPreOrder(NewCursor(root), fn)
	case PostOrder:
		walkPostOrder(NewCursor(root), fn)
	case BreadthFirst:
		walkBreadthFirst(NewCursor(root), fn)
	}
}

// nextSibling climbs until some ancestor-or-self has a following sibling and moves onto it. It
// returns false once the climb reaches the root.
func nextSibling[T any](c *Cursor[T]) bool {
	fanout := c.root.tree.fanout
	for c.Level() > 0 {
		if w := c.Where(); w+1 < fanout {
			return c.Over(w+1) == nil
		}
		if c.Up() != nil {
			return false
		}
	}
	return false
}

func walkPreOrder[T any](c *Cursor[T], fn func(c *Cursor[T]) bool) {
	for {
		if !fn(c) {
			return
		}
		if c.Down(0) == nil {
			continue
		}
		if !nextSibling(c) {
			return
		}
	}
}

func walkPostOrder[T any](c *Cursor[T], fn func(c *Cursor[T]) bool) {
	descend := func() {
		for !c.Node().IsLeaf() {
			if c.Down(0) != nil {
				return
			}
		}
	}

	descend()
	for {
		if !fn(c) {
			return
		}
		if c.Level() == 0 {
			return
		}
		if w := c.Where(); w+1 < c.root.tree.fanout {
			if c.Over(w+1) != nil {
				return
			}
			descend()
			continue
		}
		if c.Up() != nil {
			return
		}
	}
}

func walkBreadthFirst[T any](c *Cursor[T], fn func(c *Cursor[T]) bool) {
	queue := []*Cursor[T]{c}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if !fn(next) {
			return
		}
		for i := 0; i < next.current.NumChildren(); i++ {
			child := next.Clone()
			if child.Down(i) != nil {
				return
			}
			queue = append(queue, child)
		}
	}
}

// Leaves returns the paths of every leaf in pre-order.
func (t *Tree[T]) Leaves() []Path[T] {
	var leaves []Path[T]
	t.Walk(PreOrder, func(c *Cursor[T]) bool {
		if c.Node().IsLeaf() {
			leaves = append(leaves, c.Path.Clone())
		}
		return true
	})
	return leaves
}
