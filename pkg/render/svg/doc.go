// Package svg renders computed epic layouts as standalone SVG documents.
//
// [Render] draws batch containers with a "#n title" header and a progress
// bar, task cards coloured by status, and the routed dependency edges. Task
// titles are wrapped with the same text metrics the layout engine uses to
// size cards, so drawn text fits the estimated heights.
//
//	res, _ := layout.ComputeLayout(ctx, e, layout.DefaultConfig())
//	l := graph.Export(res, e)
//	doc := svg.Render(l, svg.WithTitle(""), svg.WithInteraction())
//
// Edge styles: batch-to-batch edges are thick, inter-batch task edges are
// dashed, and intra-batch edges are thin solid lines.
package svg
