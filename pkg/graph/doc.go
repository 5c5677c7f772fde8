// Package graph provides serialization types for epic snapshots and their
// layouts.
//
// This package defines the canonical wire format for epicflow's data, used
// for JSON files, API responses, caching, and storage.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Layout], [Group], [Node], [Edge]: Serialization types (this package)
//   - pkg/epic.Epic: The issue hierarchy
//   - pkg/layout.Result: The engine's in-memory result
//
// Use [Export] to convert an engine result into a [Layout].
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeEpic       // "epic"
//	graph.VizTypeNodelink   // "nodelink"
//	graph.FormatSVG ...     // output formats
//
// # Epic Serialization
//
// Epic snapshots are plain JSON. Reading normalizes the snapshot (derived
// progress, flattened dependencies) and validates it:
//
//	e, _ := graph.ReadEpicFile("epic.json")  // File → Epic
//	graph.WriteEpicFile(e, "copy.json")      // Epic → File
//	data, _ := graph.MarshalEpic(e)          // Epic → []byte
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	l, _ := graph.UnmarshalLayout(data)
//	if l.IsEpic() {
//	    // Use l.Groups, l.Nodes and l.Edges
//	} else {
//	    // Use l.DOT for Graphviz rendering
//	}
//
// Every type also carries bson tags so layouts can be stored in MongoDB
// unchanged.
package graph
