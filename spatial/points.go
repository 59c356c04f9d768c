package spatial

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/octree/logging"
	"go.viam.com/octree/octree"
)

// DefaultPointDepth bounds how deep a PointOctree splits to separate nearby points.
const DefaultPointDepth = 16

// PointAndData is a point and the data stored with it.
type PointAndData[D any] struct {
	P r3.Vector `json:"p"`
	D D         `json:"d"`
}

// Cell is the payload of a PointOctree node. Only leaves hold points.
type Cell[D any] struct {
	Points []PointAndData[D] `json:"points,omitempty"`
}

// PointOctree stores points in a three dimensional octree. A leaf holds at most one point unless
// it sits at the depth bound; inserting a second point splits the leaf into octants.
type PointOctree[D any] struct {
	logger logging.Logger
	tree   *octree.Tree[Cell[D]]
	bounds Box
	size   int
}

var _ octree.Marshaler = (*PointOctree[int])(nil)

// NewPointOctree creates an empty point octree covering the cube with the given center and side.
// maxDepth zero picks DefaultPointDepth.
func NewPointOctree[D any](center r3.Vector, sideLength float64, maxDepth int, logger logging.Logger) (*PointOctree[D], error) {
	bounds, err := NewBox(center, sideLength)
	if err != nil {
		return nil, err
	}
	if maxDepth == 0 {
		maxDepth = DefaultPointDepth
	}
	tree, err := octree.New(&octree.Config{Dimension: 3, MaxDepth: maxDepth}, Cell[D]{}, logger)
	if err != nil {
		return nil, err
	}
	return &PointOctree[D]{logger: logger, tree: tree, bounds: bounds}, nil
}

// UnmarshalPointOctree restores a point octree written by MarshalOctree. The bounds are not part
// of the encoding and must match those it was built with.
func UnmarshalPointOctree[D any](data []byte, bounds Box, logger logging.Logger) (*PointOctree[D], error) {
	tree, err := octree.Unmarshal[Cell[D]](data, octree.JSONCodec[Cell[D]]{}, logger)
	if err != nil {
		return nil, err
	}
	if tree.Dimension() != 3 {
		return nil, errors.Errorf("point octree needs dimension 3, got %d", tree.Dimension())
	}
	o := &PointOctree[D]{logger: logger, tree: tree, bounds: bounds}
	o.Iterate(func(r3.Vector, D) bool {
		o.size++
		return true
	})
	return o, nil
}

// Tree returns the underlying tree.
func (o *PointOctree[D]) Tree() *octree.Tree[Cell[D]] {
	return o.tree
}

// Bounds returns the region covered by the root.
func (o *PointOctree[D]) Bounds() Box {
	return o.bounds
}

// Size returns the number of points stored.
func (o *PointOctree[D]) Size() int {
	return o.size
}

// Set stores d at p, replacing the data of a point already there. A leaf that already holds a
// different point is split into octants until the two points part ways or the depth bound is hit.
func (o *PointOctree[D]) Set(p r3.Vector, d D) error {
	c, err := Locate(o.tree, o.bounds, p)
	if err != nil {
		return err
	}

	for {
		cell := c.Node().Ptr()
		for i := range cell.Points {
			if cell.Points[i].P.ApproxEqual(p) {
				cell.Points[i].D = d
				return nil
			}
		}
		if len(cell.Points) == 0 || c.Node().Level() >= o.tree.MaxDepth() {
			cell.Points = append(cell.Points, PointAndData[D]{P: p, D: d})
			o.size++
			return nil
		}

		box := BoxOf(c.Path, o.bounds)
		if err := o.splitIntoOctants(c.Node(), box); err != nil {
			return errors.Wrap(err, "error in splitting octree into new octants")
		}
		if err := c.Down(box.Octant(3, p)); err != nil {
			return err
		}
	}
}

// At returns the data stored at the point (x, y, z), if any.
func (o *PointOctree[D]) At(x, y, z float64) (D, bool) {
	var zero D
	p := r3.Vector{X: x, Y: y, Z: z}
	c, err := Locate(o.tree, o.bounds, p)
	if err != nil {
		return zero, false
	}
	for _, pd := range c.Node().Value().Points {
		if pd.P.ApproxEqual(p) {
			return pd.D, true
		}
	}
	return zero, false
}

// Unset removes the point at (x, y, z) and reports whether there was one. Octants left with no
// points at all are collapsed back into their parent.
func (o *PointOctree[D]) Unset(x, y, z float64) bool {
	p := r3.Vector{X: x, Y: y, Z: z}
	c, err := Locate(o.tree, o.bounds, p)
	if err != nil {
		return false
	}
	cell := c.Node().Ptr()
	found := -1
	for i := range cell.Points {
		if cell.Points[i].P.ApproxEqual(p) {
			found = i
			break
		}
	}
	if found < 0 {
		return false
	}
	cell.Points = append(cell.Points[:found], cell.Points[found+1:]...)
	o.size--

	for c.Up() == nil {
		if !c.Node().IsTerminal() || !allEmpty(c.Node().Children()) {
			break
		}
		c.Node().RemoveChildren()
	}
	return true
}

// Iterate calls fn for every point until it returns false.
func (o *PointOctree[D]) Iterate(fn func(p r3.Vector, d D) bool) {
	o.tree.Walk(octree.PreOrder, func(c *octree.Cursor[Cell[D]]) bool {
		for _, pd := range c.Node().Value().Points {
			if !fn(pd.P, pd.D) {
				return false
			}
		}
		return true
	})
}

// MarshalOctree serializes the octree with JSON payloads and snappy compression.
func (o *PointOctree[D]) MarshalOctree() ([]byte, error) {
	return octree.Marshal[Cell[D]](o.tree, octree.JSONCodec[Cell[D]]{}, octree.MarshalOptions{Compress: true})
}

// splitIntoOctants turns a filled leaf into an internal node and moves its points into the
// children that contain them.
func (o *PointOctree[D]) splitIntoOctants(n octree.Node[Cell[D]], box Box) error {
	if !n.IsLeaf() {
		return octree.ErrNotLeaf
	}
	points := n.Value().Points
	if len(points) == 0 {
		return errors.New("error attempted to split empty leaf node")
	}
	if err := n.SetValue(Cell[D]{}); err != nil {
		return err
	}
	if err := n.AddChildren(); err != nil {
		return err
	}
	for _, pd := range points {
		child, err := n.Child(box.Octant(3, pd.P))
		if err != nil {
			return err
		}
		cell := child.Ptr()
		cell.Points = append(cell.Points, pd)
	}
	if o.logger != nil {
		o.logger.Debugw("split octree node", "level", n.Level(), "points", len(points))
	}
	return nil
}

func allEmpty[D any](nodes []octree.Node[Cell[D]]) bool {
	for _, n := range nodes {
		if len(n.Value().Points) > 0 {
			return false
		}
	}
	return true
}
