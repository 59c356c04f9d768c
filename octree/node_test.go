package octree

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/octree/logging"
)

func newTestTree(t *testing.T, cfg *Config) *Tree[int] {
	t.Helper()
	tree, err := New(cfg, 0, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return tree
}

// checkBranching asserts every live node has either zero or 2^d children.
func checkBranching[T any](t *testing.T, tree *Tree[T]) {
	t.Helper()
	count := 0
	tree.Walk(PreOrder, func(c *Cursor[T]) bool {
		count++
		n := c.Node().NumChildren()
		test.That(t, n == 0 || n == tree.NumChildrenPerNode(), test.ShouldBeTrue)
		test.That(t, len(c.Node().Children()), test.ShouldEqual, n)
		return true
	})
	test.That(t, count, test.ShouldEqual, tree.NumNodes())
}

func TestNewTree(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		tree, err := New(nil, "root", logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, tree.Dimension(), test.ShouldEqual, 3)
		test.That(t, tree.NumChildrenPerNode(), test.ShouldEqual, 8)
		test.That(t, tree.MaxDepth(), test.ShouldEqual, 0)
		test.That(t, tree.NumNodes(), test.ShouldEqual, 1)
		test.That(t, tree.NumLeaves(), test.ShouldEqual, 1)
		test.That(t, tree.NumLevels(), test.ShouldEqual, 1)

		root := tree.Root()
		test.That(t, root.Valid(), test.ShouldBeTrue)
		test.That(t, root.IsLeaf(), test.ShouldBeTrue)
		test.That(t, root.Value(), test.ShouldEqual, "root")
		test.That(t, root.Level(), test.ShouldEqual, 0)
		test.That(t, root.ChildIndex(), test.ShouldEqual, -1)
		_, ok := root.Parent()
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(&Config{Dimension: 9, MaxDepth: -1}, 0, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "dimension")
		test.That(t, err.Error(), test.ShouldContainSubstring, "max_depth")
	})
}

func TestAddChildren(t *testing.T) {
	tree := newTestTree(t, &Config{Dimension: 2})
	root := tree.Root()

	test.That(t, root.AddChildrenWith(7), test.ShouldBeNil)
	test.That(t, root.IsLeaf(), test.ShouldBeFalse)
	test.That(t, root.NumChildren(), test.ShouldEqual, 4)
	test.That(t, root.IsTerminal(), test.ShouldBeTrue)
	test.That(t, tree.NumNodes(), test.ShouldEqual, 5)
	test.That(t, tree.NumLeaves(), test.ShouldEqual, 4)

	for i := 0; i < 4; i++ {
		child, err := root.Child(i)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, child.Value(), test.ShouldEqual, 7)
		test.That(t, child.Level(), test.ShouldEqual, 1)
		test.That(t, child.ChildIndex(), test.ShouldEqual, i)
		parent, ok := child.Parent()
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, parent, test.ShouldEqual, root)
	}

	err := root.AddChildren()
	test.That(t, err, test.ShouldBeError, ErrNotLeaf)
	test.That(t, IsStructural(err), test.ShouldBeTrue)
	test.That(t, tree.NumNodes(), test.ShouldEqual, 5)

	child, err := root.Child(3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, child.AddChildren(), test.ShouldBeNil)
	grandchild, err := child.Child(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, grandchild.Value(), test.ShouldEqual, 0)
	test.That(t, root.IsTerminal(), test.ShouldBeFalse)
	test.That(t, tree.NumLevels(), test.ShouldEqual, 3)
	checkBranching(t, tree)
}

func TestChildAccess(t *testing.T) {
	tree := newTestTree(t, nil)
	root := tree.Root()

	_, err := root.Child(0)
	test.That(t, err, test.ShouldBeError, ErrLeaf)
	test.That(t, root.Children(), test.ShouldBeNil)
	test.That(t, tree.NumNodes(), test.ShouldEqual, 1)

	test.That(t, root.AddChildren(), test.ShouldBeNil)
	for _, i := range []int{-1, 8, 100} {
		_, err = root.Child(i)
		var indexErr *ChildIndexError
		test.That(t, errors.As(err, &indexErr), test.ShouldBeTrue)
		test.That(t, indexErr.Index, test.ShouldEqual, i)
		test.That(t, indexErr.NumChildren, test.ShouldEqual, 8)
		test.That(t, IsStructural(err), test.ShouldBeTrue)
		test.That(t, IsNavigation(err), test.ShouldBeFalse)
	}
}

func TestRemoveChildren(t *testing.T) {
	tree := newTestTree(t, &Config{Dimension: 3})
	root := tree.Root()

	t.Run("leaf", func(t *testing.T) {
		test.That(t, root.RemoveChildren(), test.ShouldBeFalse)
		test.That(t, root.IsLeaf(), test.ShouldBeTrue)
		test.That(t, tree.NumNodes(), test.ShouldEqual, 1)
	})

	t.Run("subtree", func(t *testing.T) {
		test.That(t, root.AddChildren(), test.ShouldBeNil)
		child, err := root.Child(5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, child.AddChildren(), test.ShouldBeNil)
		grandchild, err := child.Child(2)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, grandchild.AddChildren(), test.ShouldBeNil)
		test.That(t, tree.NumNodes(), test.ShouldEqual, 1+8+8+8)
		_, inUse, _ := tree.ArenaStats()
		test.That(t, inUse, test.ShouldEqual, 25)

		test.That(t, child.RemoveChildren(), test.ShouldBeTrue)
		test.That(t, child.IsLeaf(), test.ShouldBeTrue)
		test.That(t, child.Valid(), test.ShouldBeTrue)
		test.That(t, grandchild.Valid(), test.ShouldBeFalse)
		test.That(t, tree.NumNodes(), test.ShouldEqual, 9)
		test.That(t, tree.NumLeaves(), test.ShouldEqual, 8)
		_, inUse, holes := tree.ArenaStats()
		test.That(t, inUse, test.ShouldEqual, 9)
		test.That(t, holes, test.ShouldEqual, 2)
		checkBranching(t, tree)

		// a stale handle refuses to act
		test.That(t, grandchild.AddChildren(), test.ShouldBeError, ErrStaleNode)
		test.That(t, grandchild.SetValue(3), test.ShouldBeError, ErrStaleNode)
		test.That(t, grandchild.RemoveChildren(), test.ShouldBeFalse)
		test.That(t, grandchild.Ptr(), test.ShouldBeNil)
		_, err = grandchild.Child(0)
		test.That(t, err, test.ShouldBeError, ErrStaleNode)
	})

	t.Run("slots are recycled", func(t *testing.T) {
		slotsBefore, _, _ := tree.ArenaStats()
		child, err := root.Child(1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, child.AddChildren(), test.ShouldBeNil)
		test.That(t, child.Children()[0].AddChildren(), test.ShouldBeNil)
		slotsAfter, _, holes := tree.ArenaStats()
		test.That(t, slotsAfter, test.ShouldEqual, slotsBefore)
		test.That(t, holes, test.ShouldEqual, 0)
		checkBranching(t, tree)
	})

	t.Run("clear", func(t *testing.T) {
		tree.Clear()
		test.That(t, tree.NumNodes(), test.ShouldEqual, 1)
		test.That(t, tree.NumLevels(), test.ShouldEqual, 1)
		test.That(t, root.IsLeaf(), test.ShouldBeTrue)
	})
}

func TestMaxDepth(t *testing.T) {
	tree := newTestTree(t, &Config{Dimension: 1, MaxDepth: 2})
	c := tree.Cursor()
	test.That(t, c.Node().AddChildren(), test.ShouldBeNil)
	test.That(t, c.Down(1), test.ShouldBeNil)
	test.That(t, c.Node().AddChildren(), test.ShouldBeNil)
	test.That(t, c.Down(0), test.ShouldBeNil)

	err := c.Node().AddChildren()
	test.That(t, errors.Is(err, ErrMaxDepth), test.ShouldBeTrue)
	test.That(t, IsStructural(err), test.ShouldBeTrue)
	test.That(t, c.Node().IsLeaf(), test.ShouldBeTrue)
	test.That(t, tree.NumNodes(), test.ShouldEqual, 5)
}

func TestValues(t *testing.T) {
	type payload struct {
		Count int
		Tags  []string
	}
	tree, err := New(&Config{Dimension: 1}, payload{Count: 1}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	root := tree.Root()

	proto := payload{Count: 2, Tags: []string{"a"}}
	test.That(t, root.AddChildrenWith(proto), test.ShouldBeNil)
	left, err := root.Child(0)
	test.That(t, err, test.ShouldBeNil)
	right, err := root.Child(1)
	test.That(t, err, test.ShouldBeNil)

	left.Ptr().Count = 10
	test.That(t, left.Value().Count, test.ShouldEqual, 10)
	test.That(t, right.Value().Count, test.ShouldEqual, 2)
	test.That(t, proto.Count, test.ShouldEqual, 2)

	test.That(t, right.SetValue(payload{Count: 4}), test.ShouldBeNil)
	test.That(t, right.Value(), test.ShouldResemble, payload{Count: 4})
	test.That(t, root.Value().Count, test.ShouldEqual, 1)
}

func TestArenaLogging(t *testing.T) {
	logger, observed := logging.NewObservedTestLogger(t)
	tree, err := New(&Config{Dimension: 3}, 0, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, observed.FilterMessage("octree arena grown").Len(), test.ShouldEqual, 0)

	test.That(t, tree.Root().AddChildren(), test.ShouldBeNil)
	test.That(t, observed.FilterMessage("octree arena grown").Len(), test.ShouldBeGreaterThan, 0)

	test.That(t, tree.Root().RemoveChildren(), test.ShouldBeTrue)
	removed := observed.FilterMessage("octree subtree removed").All()
	test.That(t, removed, test.ShouldHaveLength, 1)
	test.That(t, removed[0].ContextMap()["nodes"], test.ShouldEqual, int64(8))
}

func TestTreeClone(t *testing.T) {
	tree := newLabeledTree(t)
	right, err := tree.Root().Child(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, right.AddChildren(), test.ShouldBeNil)
	test.That(t, right.RemoveChildren(), test.ShouldBeTrue)

	clone := tree.Clone()
	test.That(t, clone.Root().Tree(), test.ShouldEqual, clone)
	test.That(t, clone.NumNodes(), test.ShouldEqual, tree.NumNodes())
	test.That(t, clone.NumLeaves(), test.ShouldEqual, tree.NumLeaves())
	test.That(t, collect(clone, PreOrder), test.ShouldResemble, collect(tree, PreOrder))
	slots, inUse, holes := tree.ArenaStats()
	cloneSlots, cloneInUse, cloneHoles := clone.ArenaStats()
	test.That(t, []int{cloneSlots, cloneInUse, cloneHoles}, test.ShouldResemble, []int{slots, inUse, holes})
	checkBranching(t, clone)

	// changes to the clone stay in the clone
	cloneRight, err := clone.Root().Child(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cloneRight.AddChildren(), test.ShouldBeNil)
	test.That(t, cloneRight.SetValue("changed"), test.ShouldBeNil)
	test.That(t, right.IsLeaf(), test.ShouldBeTrue)
	test.That(t, right.Value(), test.ShouldEqual, "1")
	_, _, holes = tree.ArenaStats()
	test.That(t, holes, test.ShouldEqual, 1)

	// and the other way around
	tree.Clear()
	test.That(t, tree.NumNodes(), test.ShouldEqual, 1)
	test.That(t, clone.NumNodes(), test.ShouldEqual, 7)
	test.That(t, collect(clone, PreOrder), test.ShouldResemble, []string{"root", "0", "00", "01", "changed", "", ""})
	checkBranching(t, clone)
}
