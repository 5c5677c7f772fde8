// Package epic defines the Epic → Batch → Task issue hierarchy that epicflow
// lays out.
//
// # Overview
//
// An [Epic] is a top-level tracked issue. It contains ordered [Batch] values
// (grouping sub-issues), each of which contains ordered [Task] values (leaf
// sub-issues). Tasks and batches declare what they depend on by issue number:
//
//	e := &epic.Epic{
//	    Title: "Payments v2",
//	    Batches: []epic.Batch{
//	        {Number: 10, Title: "Schema", Tasks: []epic.Task{{Number: 11}, {Number: 12, DependsOn: []int{11}}}},
//	        {Number: 20, Title: "API", DependsOn: []int{10}, Tasks: []epic.Task{{Number: 21, DependsOn: []int{12}}}},
//	    },
//	}
//	e.Normalize()
//
// A dependency is directed: the declaring issue depends on (is blocked by)
// the referenced issue. [Epic.Dependencies] is a flattened, materialized view
// of every dependsOn entry, rebuilt by [Epic.Normalize].
//
// # Snapshots
//
// Epic values are treated as immutable snapshots by the layout engine. Edits
// such as [Epic.AddDependency] and [Epic.MoveTask] never modify the receiver;
// they return a new snapshot that the caller feeds back into layout.
//
// # Serialization
//
// All types carry json, toml and bson tags so the same value can be read from
// a static mock file, cached, or persisted without a separate wire type.
package epic
