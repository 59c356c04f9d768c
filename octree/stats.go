package octree

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the shape of a tree and the state of its arena.
type Stats struct {
	Dimension       int
	Nodes           int
	Leaves          int
	Levels          int
	LeavesPerLevel  []int
	MeanLeafDepth   float64
	// StdDevLeafDepth is the population standard deviation of the leaf levels.
	StdDevLeafDepth float64

	ArenaSlots int
	ArenaInUse int
	ArenaHoles int
}

// ComputeStats walks the tree once and gathers its Stats.
func ComputeStats[T any](t *Tree[T]) Stats {
	s := Stats{
		Dimension: t.Dimension(),
		Nodes:     t.NumNodes(),
		Leaves:    t.NumLeaves(),
	}
	s.ArenaSlots, s.ArenaInUse, s.ArenaHoles = t.ArenaStats()

	var depths []float64
	t.Walk(PreOrder, func(c *Cursor[T]) bool {
		if !c.Node().IsLeaf() {
			return true
		}
		level := c.Level()
		for len(s.LeavesPerLevel) <= level {
			s.LeavesPerLevel = append(s.LeavesPerLevel, 0)
		}
		s.LeavesPerLevel[level]++
		depths = append(depths, float64(level))
		return true
	})
	s.Levels = len(s.LeavesPerLevel)

	if len(depths) > 0 {
		s.MeanLeafDepth, s.StdDevLeafDepth = stat.PopMeanStdDev(depths, nil)
	}
	return s
}

// String renders the stats as a table.
func (s Stats) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRow(table.Row{"dimension", s.Dimension})
	t.AppendRow(table.Row{"nodes", s.Nodes})
	t.AppendRow(table.Row{"leaves", s.Leaves})
	t.AppendRow(table.Row{"levels", s.Levels})
	for level, n := range s.LeavesPerLevel {
		if n > 0 {
			t.AppendRow(table.Row{fmt.Sprintf("leaves at level %d", level), n})
		}
	}
	t.AppendRow(table.Row{"leaf depth", fmt.Sprintf("%.2f ± %.2f", s.MeanLeafDepth, s.StdDevLeafDepth)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"arena slots", s.ArenaSlots})
	t.AppendRow(table.Row{"arena in use", s.ArenaInUse})
	t.AppendRow(table.Row{"arena holes", s.ArenaHoles})
	return t.Render()
}
