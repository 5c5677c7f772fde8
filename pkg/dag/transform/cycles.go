package transform

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/epicflow/pkg/dag"
)

// Cycle is a closed dependency path. The first and last elements are the
// same node: [1 2 3 1] means 1 depends on 2, 2 on 3 and 3 back on 1.
type Cycle []int

// String renders the cycle as "1 -> 2 -> 3 -> 1".
func (c Cycle) String() string {
	parts := make([]string, len(c))
	for i, id := range c {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " -> ")
}

// FindCycles returns one cycle per back edge found by a depth-first search
// that starts from every node in insertion order. The graph is not modified.
// An acyclic graph yields nil.
func FindCycles(g *dag.DAG) []Cycle {
	const (
		white = iota
		gray
		black
	)

	color := make(map[int]int, g.NodeCount())
	var path []int
	var cycles []Cycle

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		path = append(path, id)
		for _, dep := range g.DependsOn(id) {
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				cycles = append(cycles, closePath(path, dep))
			}
		}
		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range g.IDs() {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}

// closePath cuts the current DFS path at the revisited node and appends it
// again to close the loop.
func closePath(path []int, revisited int) Cycle {
	i := slices.Index(path, revisited)
	c := make(Cycle, 0, len(path)-i+1)
	c = append(c, path[i:]...)
	return append(c, revisited)
}
