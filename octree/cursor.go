package octree

// Cursor is a Path that can move. Up and Down are the primitives every traversal order is built
// from; Over, AxisPartner and Visit are conveniences on top of them. A move that fails returns
// an error (or false) and leaves the cursor exactly where it was.
type Cursor[T any] struct {
	Path[T]
}

// NewCursor returns a cursor at root, treating it as the root.
func NewCursor[T any](root Node[T]) *Cursor[T] {
	return &Cursor[T]{Path: NewPath(root)}
}

// NewCursorFromPath returns a cursor positioned where p is. The cursor does not share state with p.
func NewCursorFromPath[T any](p Path[T]) *Cursor[T] {
	return &Cursor[T]{Path: p.Clone()}
}

// Clone returns an independent cursor at the same position.
func (c *Cursor[T]) Clone() *Cursor[T] {
	return NewCursorFromPath(c.Path)
}

// Up moves to the parent of the current node.
func (c *Cursor[T]) Up() error {
	if c.Level() == 0 {
		return ErrAtRoot
	}
	c.pop()
	return nil
}

// Down moves to child i of the current node.
func (c *Cursor[T]) Down(i int) error {
	child, err := c.current.Child(i)
	if err != nil {
		return err
	}
	c.push(i, child)
	return nil
}

// Where returns the child index that led from the parent to the current node, or -1 at the root.
func (c *Cursor[T]) Where() int {
	if c.Level() == 0 {
		return -1
	}
	return c.indices[len(c.indices)-1]
}

// Over moves to sibling i of the current node; it is Up followed by Down(i).
func (c *Cursor[T]) Over(i int) error {
	last := c.Level() - 1
	if last < 0 {
		return ErrAtRoot
	}
	sibling, err := c.parents[last].Child(i)
	if err != nil {
		return err
	}
	c.replaceLast(i, sibling)
	return nil
}

// AxisPartner moves to the sibling whose child index differs from Where only in bit axis, i.e.
// the mirror of the current node across the parent's midplane on that axis. Applying it twice
// returns to the starting node.
func (c *Cursor[T]) AxisPartner(axis int) error {
	if c.Level() == 0 {
		return ErrAtRoot
	}
	if axis < 0 || axis >= c.dimension() {
		return &AxisError{Axis: axis, Dimension: c.dimension()}
	}
	return c.Over(c.Where() ^ (1 << axis))
}

// AxisBit reports whether the current node lies in the upper half of its parent along axis.
// It is false at the root and for an axis outside [0, d).
func (c *Cursor[T]) AxisBit(axis int) bool {
	if c.Level() == 0 || axis < 0 || axis >= c.dimension() {
		return false
	}
	return (c.Where()>>axis)&1 == 1
}

// Visit descends through indices in order. If any step is invalid the cursor returns to where it
// started and Visit reports false.
func (c *Cursor[T]) Visit(indices ...int) bool {
	start := c.Level()
	for _, i := range indices {
		if err := c.Down(i); err != nil {
			c.truncate(start)
			return false
		}
	}
	return true
}

// ToRoot moves back to the root of the path.
func (c *Cursor[T]) ToRoot() {
	c.truncate(0)
}

// MoveTo positions the cursor where p is. Both must share a root.
func (c *Cursor[T]) MoveTo(p Path[T]) error {
	if c.root != p.root {
		return ErrDifferentRoot
	}
	c.Path = p.Clone()
	return nil
}

// GridIndex returns the coordinate of the current node along axis when its level is seen as a
// uniform grid of 2^Level cells per axis. It returns -1 for an axis outside [0, d).
func (c *Cursor[T]) GridIndex(axis int) int {
	if axis < 0 || axis >= c.dimension() {
		return -1
	}
	index := 0
	for _, child := range c.indices {
		index = index<<1 | (child>>axis)&1
	}
	return index
}
