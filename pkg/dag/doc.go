// Package dag provides the dependency graph that every epicflow layout pass
// operates on.
//
// # Overview
//
// Both levels of an epic layout are graph problems over issue numbers: tasks
// inside a batch, and batches inside an epic. This package holds the shared
// structure: nodes keyed by issue number, "depends on" and "depended by"
// adjacency lists, and the column/row slots filled in by the layering and
// ordering passes.
//
// # Building
//
// [Build] derives a graph from an ordered item list and keeps only the
// dependencies whose target is part of the same list:
//
//	g := dag.Build([]dag.Item{
//	    {ID: 1},
//	    {ID: 2, DependsOn: []int{1}},
//	    {ID: 3, DependsOn: []int{1, 99}}, // 99 lives in another batch: dropped
//	})
//
// Edges point from the dependent to its dependency (From depends on To). Use
// [DAG.DependsOn] and [DAG.DependedBy] to walk them in either direction.
//
// # Determinism
//
// Every accessor that returns more than one node does so in insertion order.
// Column assignment breaks ties by encounter order, so the order in which a
// batch lists its tasks is part of the layout's input.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count crossings between adjacent
// columns with a Fenwick tree in O(E log V). The layout engine reports the
// total as a diagnostic after crossing reduction.
//
// # Related Packages
//
// The [transform] subpackage assigns columns (with cycle tolerance) and
// relaxes depths for the batch level. The [ordering] subpackage assigns rows.
//
// [transform]: github.com/matzehuels/epicflow/pkg/dag/transform
// [ordering]: github.com/matzehuels/epicflow/pkg/dag/ordering
package dag
