package spatial

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/octree/octree"
)

// ErrOutOfBounds is returned for a point outside the root region.
var ErrOutOfBounds = errors.New("error point is outside the bounds of this octree")

// Locate returns a cursor at the leaf whose region holds p, where root is the region of the
// tree's root.
func Locate[T any](tree *octree.Tree[T], root Box, p r3.Vector) (*octree.Cursor[T], error) {
	if err := checkDimension(tree.Dimension()); err != nil {
		return nil, err
	}
	if !root.Contains(p) {
		return nil, ErrOutOfBounds
	}

	dim := tree.Dimension()
	c := tree.Cursor()
	box := root
	for !c.Node().IsLeaf() {
		i := box.Octant(dim, p)
		if err := c.Down(i); err != nil {
			return nil, err
		}
		box = box.Child(dim, i)
	}
	return c, nil
}

// Refine subdivides the tree along the way to p until the node holding p sits at level, and
// returns a cursor there. New children take the zero value of T.
func Refine[T any](tree *octree.Tree[T], root Box, p r3.Vector, level int) (*octree.Cursor[T], error) {
	c, err := Locate(tree, root, p)
	if err != nil {
		return nil, err
	}

	dim := tree.Dimension()
	box := BoxOf(c.Path, root)
	for c.Level() < level {
		if err := c.Node().AddChildren(); err != nil {
			return nil, errors.Wrapf(err, "cannot refine towards %v", p)
		}
		i := box.Octant(dim, p)
		if err := c.Down(i); err != nil {
			return nil, err
		}
		box = box.Child(dim, i)
	}
	return c, nil
}
