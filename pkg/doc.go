// Package pkg provides the libraries behind Epicflow's epic layout engine.
//
// # Overview
//
// An epic is an issue whose sub-issues are batches of tasks. Epicflow places
// the batches as containers in dependency order, lays out the tasks inside
// each batch, and routes every dependency as an orthogonal arrow with
// rounded corners. The result is serialized as a layout document and
// rendered to SVG, PNG, PDF or Graphviz DOT.
//
// # Architecture
//
// The typical data flow:
//
//	GitHub issues / snapshot file
//	         ↓
//	    [source] (fetch and normalize an [epic.Epic])
//	         ↓
//	    [layout] (inner layout per batch, outer layout, edge routing)
//	         ↓
//	    [graph] (layout document)
//	         ↓
//	    [render/svg], [render/nodelink], [render] (SVG, DOT, PNG, PDF)
//
// [pipeline] runs these stages with caching for both the CLI and the HTTP
// server in [server].
//
// # Quick Start
//
//	e, _ := file.Read("launch.json")
//	res, _ := layout.ComputeLayout(ctx, e, layout.DefaultConfig())
//	l := graph.Export(res, e)
//	svgBytes := svg.Render(l)
//
// # Main Packages
//
// [epic] - The Epic/Batch/Task model, validation and pure edit operations.
//
// [dag] - Small directed graph with crossing counts. [dag/transform] assigns
// columns and breaks cycles; [dag/ordering] assigns rows (barycenter or
// input order).
//
// [layout] - The layout engine. [layout/route] holds the geometry: dock
// selection, orthogonal paths and corner smoothing.
//
// [source] - Epic sources: snapshot files ([source/file]) and GitHub
// ([integrations/github]).
//
// [cache] - Cache interface with file, Redis and null backends plus key
// derivation. [httputil] adds retries and cached JSON fetches on top.
//
// [storage] - Saved layout snapshots in files or MongoDB.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
package pkg
