package octree

import (
	"fmt"
	"testing"

	"go.viam.com/test"
)

// newLabeledTree builds a binary tree (d=1) labeled by the path to each node:
//
//	root
//	├── 0
//	│   ├── 00
//	│   └── 01
//	└── 1
func newLabeledTree(t *testing.T) *Tree[string] {
	t.Helper()
	tree, err := New(&Config{Dimension: 1}, "root", nil)
	test.That(t, err, test.ShouldBeNil)
	root := tree.Root()
	test.That(t, root.AddChildren(), test.ShouldBeNil)
	for i, child := range root.Children() {
		test.That(t, child.SetValue(fmt.Sprint(i)), test.ShouldBeNil)
	}
	left := root.Children()[0]
	test.That(t, left.AddChildren(), test.ShouldBeNil)
	for i, child := range left.Children() {
		test.That(t, child.SetValue(fmt.Sprint("0", i)), test.ShouldBeNil)
	}
	return tree
}

func collect(tree *Tree[string], order Order) []string {
	var visited []string
	tree.Walk(order, func(c *Cursor[string]) bool {
		visited = append(visited, c.Node().Value())
		return true
	})
	return visited
}

func TestWalkOrders(t *testing.T) {
	tree := newLabeledTree(t)

	test.That(t, collect(tree, PreOrder), test.ShouldResemble, []string{"root", "0", "00", "01", "1"})
	test.That(t, collect(tree, PostOrder), test.ShouldResemble, []string{"00", "01", "0", "1", "root"})
	test.That(t, collect(tree, BreadthFirst), test.ShouldResemble, []string{"root", "0", "1", "00", "01"})
	test.That(t, collect(tree, Order(42)), test.ShouldBeEmpty)
	test.That(t, PostOrder.String(), test.ShouldEqual, "post-order")
}

func TestWalkSingleNode(t *testing.T) {
	tree, err := New(&Config{Dimension: 2}, "only", nil)
	test.That(t, err, test.ShouldBeNil)
	for _, order := range []Order{PreOrder, PostOrder, BreadthFirst} {
		test.That(t, collect(tree, order), test.ShouldResemble, []string{"only"})
	}
}

func TestWalkStops(t *testing.T) {
	tree := newLabeledTree(t)
	for _, order := range []Order{PreOrder, PostOrder, BreadthFirst} {
		count := 0
		tree.Walk(order, func(c *Cursor[string]) bool {
			count++
			return count < 2
		})
		test.That(t, count, test.ShouldEqual, 2)
	}
}

func TestWalkFromSubtree(t *testing.T) {
	tree := newLabeledTree(t)
	left := tree.Root().Children()[0]

	var visited []string
	var levels []int
	WalkFrom(left, PreOrder, func(c *Cursor[string]) bool {
		visited = append(visited, c.Node().Value())
		levels = append(levels, c.Level())
		test.That(t, c.Root(), test.ShouldEqual, left)
		return true
	})
	test.That(t, visited, test.ShouldResemble, []string{"0", "00", "01"})
	test.That(t, levels, test.ShouldResemble, []int{0, 1, 1})
}

func TestWalkPathConsistency(t *testing.T) {
	tree := newUniformTree(t, 3, 2)
	nodes := 0
	tree.Walk(PreOrder, func(c *Cursor[int]) bool {
		nodes++
		test.That(t, c.Level(), test.ShouldEqual, len(c.Indices()))
		test.That(t, c.Node(), test.ShouldEqual, followIndices(t, tree.Root(), c.Indices()))
		return true
	})
	test.That(t, nodes, test.ShouldEqual, 1+8+64)
	test.That(t, tree.Leaves(), test.ShouldHaveLength, 64)
	test.That(t, tree.NumLeaves(), test.ShouldEqual, 64)
}
