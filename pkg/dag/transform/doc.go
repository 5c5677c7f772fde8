// Package transform provides the layering passes that place dependency graph
// nodes into columns.
//
// # Overview
//
// A node's column is its dependency depth: nodes without in-graph
// dependencies sit in column 0, and every other node sits one column past
// its deepest dependency. Two strategies are provided because the two levels
// of an epic layout use them differently:
//
//   - [AssignColumns] uses memoized depth-first recursion. It is used for
//     tasks inside a batch and reports every cycle it cut.
//   - [RelaxColumns] uses iterative fixed-point relaxation capped at n+1
//     passes. It is used for batches inside an epic, where the cap bounds the
//     work on cyclic input.
//
// Both agree on acyclic graphs. [CompactColumns] removes empty columns
// after relaxation of cyclic input has produced sparse depths.
//
// # Cycles
//
// Dependency data comes from humans editing issues, so cycles happen. None of
// the passes fail on them. [AssignColumns] returns the cycles it broke and
// [FindCycles] lists the back edges of any graph, for callers that want to
// warn about them:
//
//	g := dag.Build(items)
//	for _, c := range transform.AssignColumns(g) {
//	    log.Warn("dependency cycle", "path", c)
//	}
package transform
