package dag

import (
	"cmp"
	"slices"
)

// ColumnOrders returns, for each column, its node IDs sorted by row (ties by
// insertion order). This is the shape [CountCrossings] expects.
func ColumnOrders(g *DAG) map[int][]int {
	orders := make(map[int][]int)
	for _, col := range g.ColumnIDs() {
		nodes := g.NodesInColumn(col)
		slices.SortStableFunc(nodes, func(a, b *Node) int { return cmp.Compare(a.Row, b.Row) })
		orders[col] = NodeIDs(nodes)
	}
	return orders
}

// CountCrossings returns the number of edge crossings between every pair of
// consecutive columns for the given orderings. Only edges joining adjacent
// columns are counted; edges spanning several columns are ignored since
// their route is not determined by the ordering alone.
//
//	orders := map[int][]int{
//	    0: {1, 2},    // column 0, top to bottom
//	    1: {3, 4, 5}, // column 1
//	}
//	crossings := dag.CountCrossings(g, orders)
func CountCrossings(g *DAG, orders map[int][]int) int {
	crossings := 0
	for col, left := range orders {
		if right, ok := orders[col+1]; ok {
			crossings += CountLayerCrossings(g, left, right)
		}
	}
	return crossings
}

// CountLayerCrossings counts crossings between two adjacent columns using a
// Fenwick tree (binary indexed tree) in O(E log V), where E is the number of
// edges between the columns and V the number of nodes in the right column.
//
// left holds dependencies and right their dependents. Two edges (u1,v1) and
// (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is an inversion count over target positions once edges are sorted by
// source position.
func CountLayerCrossings(g *DAG, left, right []int) int {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	rightPos := PosMap(right)

	type edge struct{ left, right int }
	edges := make([]edge, 0, len(left)*2)
	for i, id := range left {
		for _, dependent := range g.DependedBy(id) {
			if pos, ok := rightPos[dependent]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.left != b.left {
			return a.left - b.left
		}
		return a.right - b.right
	})

	fenwick := make([]int, len(right)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// edges seen so far with target <= e.right
		lessOrEqual := 0
		for q := e.right + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.right + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
