// Package route selects ports and builds smoothed orthogonal paths between
// positioned boxes.
//
// Routing an edge takes three steps:
//
//  1. [Dock] picks the exit and entry sides from a decision table ([Rules])
//     keyed by the container relationship ([IntraBatch], [InterBatch],
//     [BatchToBatch]) and the relative position of the two boxes.
//  2. [Orthogonal] connects the two ports with horizontal and vertical
//     segments, at most two bends.
//  3. [Smooth] rounds every corner into a quadratic curve and returns a
//     [Path], which [Path.SVG] serializes for an SVG d attribute.
//
// Everything here is pure and deterministic; routing the same boxes twice
// yields identical points and identical path strings.
package route
