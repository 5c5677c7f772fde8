// Package layout turns an epic snapshot into positioned batches, positioned
// task cards and routed edges.
//
// # Pipeline
//
// [Engine.ComputeLayout] runs three stages:
//
//  1. Inner layout ([ComputeInnerLayout]), one per batch and concurrently:
//     tasks are layered into columns by dependency depth, ordered into rows
//     by the barycenter heuristic, sized by the [SizeEstimator] and placed on
//     a grid by [AssignCoordinates].
//  2. Outer packing ([ComputeOuterLayout]): every batch becomes a box around
//     its inner content, boxes are arranged in dependency-ordered columns and
//     task positions are translated to absolute coordinates.
//  3. Routing ([RouteEdges]): each edge from [CollectEdges] gets ports, an
//     orthogonal polyline and a smoothed path from package route.
//
// # Edges
//
// An [Edge] points from the blocking node to the blocked node. Its ID is
// derived from its endpoints and kind, so callers can diff edge sets across
// recomputations. Edges whose endpoints are missing are returned with an
// empty path and listed in [Diagnostics.Unroutable].
//
// # Purity
//
// The engine never mutates its input and keeps no layout state between
// calls. Re-run the whole layout after every edit; results of superseded
// runs can simply be dropped.
package layout
