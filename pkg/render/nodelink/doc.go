// Package nodelink renders epics as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. Every
// batch becomes a cluster and every task a rounded box coloured by status.
// It is an alternative to the epic view when Graphviz's own placement is
// preferred over the batch grid.
//
// # Usage
//
// Convert an epic to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(e, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// [Export] and [Parse] move the DOT source in and out of the serializable
// layout format so nodelink layouts can be cached and re-rendered.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
