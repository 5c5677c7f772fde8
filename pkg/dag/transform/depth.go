package transform

import "github.com/matzehuels/epicflow/pkg/dag"

// RelaxColumns assigns columns by iterative fixed-point relaxation: every
// node starts at 0 and is repeatedly raised to one more than the deepest of
// its dependencies until no value changes.
//
// The loop runs at most NodeCount()+1 passes. Depths only ever increase, so on
// an acyclic graph it converges within that bound; on a cyclic graph the
// participants keep climbing until the cap stops them. converged reports
// whether a fixed point was reached, which is false only for cyclic input.
//
// Nodes are relaxed in insertion order within each pass, so the result is
// deterministic. Existing column assignments are overwritten.
func RelaxColumns(g *dag.DAG) (passes int, converged bool) {
	ids := g.IDs()
	depth := make(map[int]int, len(ids))
	for _, id := range ids {
		depth[id] = 0
	}

	limit := len(ids) + 1
	for passes < limit {
		passes++
		changed := false
		for _, id := range ids {
			for _, dep := range g.DependsOn(id) {
				if d := depth[dep] + 1; d > depth[id] {
					depth[id] = d
					changed = true
				}
			}
		}
		if !changed {
			converged = true
			break
		}
	}

	g.SetColumns(depth)
	return passes, converged
}
