package octree

// MoveToCell moves from the root towards the cell at coords in the uniform grid of 2^level cells
// per axis, stopping early at a leaf. It reports whether a node at level was reached; when not,
// the cursor rests on the deepest existing ancestor of that cell. If the coordinates do not name
// a cell of that grid the cursor does not move and false is returned.
func (c *Cursor[T]) MoveToCell(level int, coords ...int) bool {
	dim := c.dimension()
	if level < 0 || len(coords) != dim || level >= 63 {
		return false
	}
	for _, coord := range coords {
		if coord < 0 || coord >= 1<<level {
			return false
		}
	}

	c.ToRoot()
	for depth := 0; depth < level; depth++ {
		if c.current.IsLeaf() {
			return false
		}
		shift := level - 1 - depth
		child := 0
		for axis := dim - 1; axis >= 0; axis-- {
			child = child<<1 | (coords[axis]>>shift)&1
		}
		if err := c.Down(child); err != nil {
			return false
		}
	}
	return true
}

// Neighbor moves to the node at the same level that shares a face with the current node on the
// upper (or lower) side of axis. It climbs until an ancestor has an axis partner in the wanted
// direction, crosses over, then descends mirroring the steps it climbed. If no such node exists,
// because the face is on the root's boundary or the neighboring region is not subdivided that
// deep, the cursor does not move and false is returned.
func (c *Cursor[T]) Neighbor(axis int, upper bool) bool {
	if axis < 0 || axis >= c.dimension() {
		return false
	}

	start := c.Level()
	saved := c.Clone()
	var climbed []int
	for {
		if c.Level() == 0 {
			c.Path = saved.Path
			return false
		}
		if c.AxisBit(axis) != upper {
			if err := c.AxisPartner(axis); err != nil {
				c.Path = saved.Path
				return false
			}
			break
		}
		climbed = append(climbed, c.Where())
		if err := c.Up(); err != nil {
			c.Path = saved.Path
			return false
		}
	}

	for i := len(climbed) - 1; i >= 0; i-- {
		if err := c.Down(climbed[i] ^ (1 << axis)); err != nil {
			c.Path = saved.Path
			return false
		}
	}
	if c.Level() != start {
		c.Path = saved.Path
		return false
	}
	return true
}
