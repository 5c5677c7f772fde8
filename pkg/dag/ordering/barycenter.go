package ordering

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/epicflow/pkg/dag"
)

// Barycenter orders nodes with a single left-to-right barycenter sweep.
//
// Column 0 is seeded by fan-out: nodes with the most dependents come first,
// which anchors long chains at the top. Every later column places each node
// near the mean row of its already placed dependencies, claiming the nearest
// free row when the ideal one is taken. Rows are finally renumbered across
// the whole graph to close the gaps left by probing.
//
// The sweep is deterministic: every sort is stable and ties fall back to
// insertion order.
type Barycenter struct{}

// AssignRows implements [Orderer].
func (Barycenter) AssignRows(g *dag.DAG) map[int]int {
	rows := make(map[int]int, g.NodeCount())

	for _, col := range g.ColumnIDs() {
		nodes := g.NodesInColumn(col)
		if col == 0 {
			slices.SortStableFunc(nodes, func(a, b *dag.Node) int {
				return cmp.Compare(g.InDegree(b.ID), g.InDegree(a.ID))
			})
			for i, n := range nodes {
				rows[n.ID] = i
			}
			continue
		}

		ideal := make(map[int]float64, len(nodes))
		for i, n := range nodes {
			ideal[n.ID] = idealRow(g, n, rows, i)
		}
		slices.SortStableFunc(nodes, func(a, b *dag.Node) int {
			return cmp.Compare(ideal[a.ID], ideal[b.ID])
		})

		taken := make(map[int]bool, len(nodes))
		for _, n := range nodes {
			r := nearestFree(int(math.Floor(ideal[n.ID]+0.5)), taken)
			taken[r] = true
			rows[n.ID] = r
		}
	}

	normalize(rows)
	g.SetRows(rows)
	return rows
}

// idealRow is the mean row of the dependencies of n that sit in an earlier
// column and already have a row. Without any, the node keeps its position
// within the column.
func idealRow(g *dag.DAG, n *dag.Node, rows map[int]int, pos int) float64 {
	sum, count := 0, 0
	for _, id := range g.DependsOn(n.ID) {
		dep, ok := g.Node(id)
		if !ok || dep.Column >= n.Column {
			continue
		}
		if r, ok := rows[id]; ok {
			sum += r
			count++
		}
	}
	if count == 0 {
		return float64(pos)
	}
	return float64(sum) / float64(count)
}

// nearestFree probes target, target+1, target-1, target+2, target-2, ...
// and returns the first row that is free and not negative.
func nearestFree(target int, taken map[int]bool) int {
	if target < 0 {
		target = 0
	}
	if !taken[target] {
		return target
	}
	for d := 1; ; d++ {
		if r := target + d; !taken[r] {
			return r
		}
		if r := target - d; r >= 0 && !taken[r] {
			return r
		}
	}
}

// normalize remaps the distinct row values in use to 0..k, preserving their
// order. The mapping is global so rows stay aligned across columns.
func normalize(rows map[int]int) {
	used := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		used[r] = struct{}{}
	}
	remap := dag.PosMap(slices.Sorted(maps.Keys(used)))
	for id, r := range rows {
		rows[id] = remap[r]
	}
}
