// Package ordering assigns rows to the nodes of a layered graph.
//
// # The Ordering Problem
//
// Once every node has a column, the order of nodes inside each column decides
// how many dependency edges cross. Finding the ordering with the fewest
// crossings is NP-hard; epicflow diagrams hold tens of nodes per batch, so a
// greedy heuristic is good enough.
//
// # Barycenter Heuristic
//
// [Barycenter] performs one left-to-right sweep:
//
//  1. Column 0 is sorted by descending number of dependents.
//  2. Every later column computes each node's ideal row, the mean row of its
//     dependencies in earlier columns (or its position in the column when it
//     has none), and sorts by it.
//  3. Each node claims round(ideal), probing ideal+1, ideal-1, ideal+2, ...
//     when that row is already taken in the column.
//  4. All rows in use are renumbered to 0..k across the whole graph.
//
// Step 4 is global rather than per column so that a node stays level with
// the dependency it was aligned to.
//
// # Usage
//
// The [Orderer] interface lets the layout engine swap algorithms:
//
//	var o ordering.Orderer = ordering.Barycenter{}
//	rows := o.AssignRows(g) // map[nodeID]row, also written into g
//
// [InputOrder] keeps the order in which tasks were declared.
package ordering
