// Package render turns computed layouts into output documents.
//
// # Overview
//
// Rendering is split by visualization type:
//
//   - [svg]: the epic view, with batch containers, task cards and routed edges
//   - [nodelink]: a Graphviz diagram with one cluster per batch
//
// Both produce SVG. The [Convert], [ToPDF] and [ToPNG] functions turn any SVG
// into PDF or PNG using the external rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(l)
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0) // 2x scale
//
// When rsvg-convert is missing, conversion fails with an UNSUPPORTED error;
// [Available] reports whether it is installed.
//
// [svg]: github.com/matzehuels/epicflow/pkg/render/svg
// [nodelink]: github.com/matzehuels/epicflow/pkg/render/nodelink
package render
