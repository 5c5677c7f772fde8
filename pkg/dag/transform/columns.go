package transform

import "github.com/matzehuels/epicflow/pkg/dag"

// AssignColumns assigns every node a column (layer) equal to one plus the
// highest column among its dependencies, or 0 when it has none. Existing
// column assignments are overwritten.
//
// # Algorithm
//
// Columns are computed by memoized depth-first recursion, visiting nodes in
// insertion order. Finished nodes are memoized for the rest of the call; the
// memo and the on-path set live only for this invocation, so repeated calls on
// different graphs never share state.
//
// # Cycles
//
// When the recursion reaches a node that is still on the current path, that
// dependency contributes column 0 for the path that discovered it, which
// breaks the cycle without an error. Each such revisit is returned as a
// [Cycle] so callers can surface it; the assignment itself always succeeds.
// Because the cut happens where the recursion enters the cycle, the columns of
// cycle participants depend on input order.
//
// Time complexity is O(V + E).
func AssignColumns(g *dag.DAG) []Cycle {
	memo := make(map[int]int, g.NodeCount())
	onPath := make(map[int]bool)
	var path []int
	var cycles []Cycle

	var column func(id int) int
	column = func(id int) int {
		if c, ok := memo[id]; ok {
			return c
		}
		if onPath[id] {
			cycles = append(cycles, closePath(path, id))
			return 0
		}

		onPath[id] = true
		path = append(path, id)

		col := 0
		for _, dep := range g.DependsOn(id) {
			if c := column(dep) + 1; c > col {
				col = c
			}
		}

		path = path[:len(path)-1]
		delete(onPath, id)
		memo[id] = col
		return col
	}

	for _, id := range g.IDs() {
		column(id)
	}
	g.SetColumns(memo)
	return cycles
}

// CompactColumns renumbers the distinct columns in use to 0..k while keeping
// their order, so that no column is left empty. It returns the number of
// columns.
func CompactColumns(g *dag.DAG) int {
	ids := g.ColumnIDs()
	remap := dag.PosMap(ids)
	cols := make(map[int]int, g.NodeCount())
	for _, n := range g.Nodes() {
		cols[n.ID] = remap[n.Column]
	}
	g.SetColumns(cols)
	return len(ids)
}
