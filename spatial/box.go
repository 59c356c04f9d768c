// Package spatial gives octree nodes a place in space. The tree itself stores no geometry; the
// region of every node follows from a root box and the child indices on the path down to it.
package spatial

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/octree/octree"
)

// MaxDimension is the highest tree dimension that maps onto r3 axes (0=X, 1=Y, 2=Z).
const MaxDimension = 3

// Box is an axis aligned region [Min, Max].
type Box struct {
	Min r3.Vector
	Max r3.Vector
}

// NewBox returns the cube with the given center and side length.
func NewBox(center r3.Vector, sideLength float64) (Box, error) {
	if sideLength <= 0 {
		return Box{}, errors.Errorf("invalid side length (%.2f) for octree", sideLength)
	}
	half := r3.Vector{X: sideLength / 2, Y: sideLength / 2, Z: sideLength / 2}
	return Box{Min: center.Sub(half), Max: center.Add(half)}, nil
}

// Center returns the midpoint of the box.
func (b Box) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box) Size() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside the box, faces included.
func (b Box) Contains(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Child returns the region of child i of a node covering b in a tree of dimension dim. Bit k of
// i picks the upper half of axis k; axes at or beyond dim are not split.
func (b Box) Child(dim, i int) Box {
	center := b.Center()
	child := b
	for axis := 0; axis < dim && axis < MaxDimension; axis++ {
		upper := (i>>axis)&1 == 1
		switch axis {
		case 0:
			if upper {
				child.Min.X = center.X
			} else {
				child.Max.X = center.X
			}
		case 1:
			if upper {
				child.Min.Y = center.Y
			} else {
				child.Max.Y = center.Y
			}
		case 2:
			if upper {
				child.Min.Z = center.Z
			} else {
				child.Max.Z = center.Z
			}
		}
	}
	return child
}

// Octant returns the index of the child of b that holds p. Points on a midplane go to the upper half.
func (b Box) Octant(dim int, p r3.Vector) int {
	center := b.Center()
	i := 0
	if dim > 0 && p.X >= center.X {
		i |= 1
	}
	if dim > 1 && p.Y >= center.Y {
		i |= 2
	}
	if dim > 2 && p.Z >= center.Z {
		i |= 4
	}
	return i
}

func (b Box) String() string {
	return fmt.Sprintf("box from %v to %v", b.Min, b.Max)
}

// BoxOf returns the region of the node a path designates, given the region of the path's root.
func BoxOf[T any](p octree.Path[T], root Box) Box {
	dim := p.Root().Tree().Dimension()
	box := root
	for _, i := range p.Indices() {
		box = box.Child(dim, i)
	}
	return box
}

func checkDimension(dim int) error {
	if dim < 1 || dim > MaxDimension {
		return errors.Errorf("spatial regions need a tree dimension between 1 and %d, got %d", MaxDimension, dim)
	}
	return nil
}
