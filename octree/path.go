package octree

import (
	"slices"

	"github.com/pkg/errors"
)

// Path records how a traversal got from a root to its current node: every parent passed on the
// way down, root first, and the child index taken below each one. A path holds no ownership of
// the tree and is only meaningful while the nodes it names are alive.
//
// Paths are values. A path never writes into backing storage that a copy could also see, so a
// copy made by plain assignment stays valid however the original moves afterwards.
type Path[T any] struct {
	root    Node[T]
	parents []Node[T]
	indices []int
	current Node[T]
}

// NewPath returns a path at level 0 that treats root as the root, whatever its depth in the tree.
func NewPath[T any](root Node[T]) Path[T] {
	return Path[T]{root: root, current: root}
}

// NewPathTo returns the path reached by descending from root through indices. If any step is
// invalid no path is returned and the error names the step.
func NewPathTo[T any](root Node[T], indices ...int) (Path[T], error) {
	p := NewPath(root)
	for step, i := range indices {
		child, err := p.current.Child(i)
		if err != nil {
			return Path[T]{}, errors.Wrapf(err, "cannot follow path at step %d", step)
		}
		p.push(i, child)
	}
	return p, nil
}

// Level returns the number of steps from the root to the current node.
func (p Path[T]) Level() int {
	return len(p.indices)
}

// Node returns the current node.
func (p Path[T]) Node() Node[T] {
	return p.current
}

// Root returns the node the path starts from.
func (p Path[T]) Root() Node[T] {
	return p.root
}

// Indices returns a copy of the child indices taken from the root, root first.
func (p Path[T]) Indices() []int {
	return slices.Clone(p.indices)
}

// Parents returns a copy of the ancestors of the current node, root first.
func (p Path[T]) Parents() []Node[T] {
	return slices.Clone(p.parents)
}

// Equal reports whether both paths share a root and designate the same node. How each got
// there is not compared.
func (p Path[T]) Equal(other Path[T]) bool {
	return p.root == other.root && p.current == other.current
}

// Clone returns a copy of the path that shares no state with p.
func (p Path[T]) Clone() Path[T] {
	return Path[T]{
		root:    p.root,
		parents: slices.Clone(p.parents),
		indices: slices.Clone(p.indices),
		current: p.current,
	}
}

// push appends to clipped slices, so the append always lands in fresh storage.
func (p *Path[T]) push(index int, child Node[T]) {
	p.parents = append(slices.Clip(p.parents), p.current)
	p.indices = append(slices.Clip(p.indices), index)
	p.current = child
}

func (p *Path[T]) pop() {
	last := len(p.indices) - 1
	p.current = p.parents[last]
	p.parents = p.parents[:last:last]
	p.indices = p.indices[:last:last]
}

// replaceLast swaps the final step for index, ending at node.
func (p *Path[T]) replaceLast(index int, node Node[T]) {
	last := len(p.indices) - 1
	p.indices = append(p.indices[:last:last], index)
	p.current = node
}

// truncate moves the path back up to level, which must not exceed the current level.
func (p *Path[T]) truncate(level int) {
	if level >= len(p.indices) {
		return
	}
	p.current = p.parents[level]
	p.parents = p.parents[:level:level]
	p.indices = p.indices[:level:level]
}

func (p Path[T]) dimension() int {
	if p.root.tree == nil {
		return 0
	}
	return p.root.tree.dim
}
