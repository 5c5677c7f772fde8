package layout

import (
	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/layout/route"
)

// CollectEdges derives the full edge list of an epic: task edges first, in
// batch and task order, then batch edges. Each edge points from the blocking
// node to the blocked one. References to unknown issues and self references
// are dropped, as are repeats. A task listed in several batches belongs to
// the first.
func CollectEdges(e *epic.Epic) []Edge {
	if e == nil {
		return nil
	}
	batches := uniqueBatches(e.Batches)

	taskBatch := make(map[int]int)
	for _, b := range batches {
		for _, t := range b.Tasks {
			if _, ok := taskBatch[t.Number]; !ok {
				taskBatch[t.Number] = b.Number
			}
		}
	}
	isBatch := make(map[int]bool, len(batches))
	for _, b := range batches {
		isBatch[b.Number] = true
	}

	var edges []Edge
	seen := make(map[string]bool)
	add := func(ed Edge) {
		if seen[ed.ID] {
			return
		}
		seen[ed.ID] = true
		edges = append(edges, ed)
	}

	for _, b := range batches {
		for _, t := range b.Tasks {
			if taskBatch[t.Number] != b.Number {
				continue
			}
			for _, dep := range t.DependsOn {
				from, ok := taskBatch[dep]
				if !ok || dep == t.Number {
					continue
				}
				add(Edge{
					ID:           EdgeID(dep, t.Number, false),
					From:         dep,
					To:           t.Number,
					FromBatch:    from,
					ToBatch:      b.Number,
					IsInterBatch: from != b.Number,
				})
			}
		}
	}
	for _, b := range batches {
		for _, dep := range b.DependsOn {
			if !isBatch[dep] || dep == b.Number {
				continue
			}
			add(Edge{
				ID:           EdgeID(dep, b.Number, true),
				From:         dep,
				To:           b.Number,
				FromBatch:    dep,
				ToBatch:      b.Number,
				IsInterBatch: true,
				IsBatchEdge:  true,
			})
		}
	}
	return edges
}

// RouteEdges computes a path for every edge against the positioned nodes.
// Batch edges connect batch boxes; task edges connect task cards. An edge
// with a missing endpoint comes back with no points and an empty path.
//
// RouteEdges is pure: the same input always yields identical output.
func RouteEdges(edges []Edge, tasks []PositionedTask, batches []PositionedBatch, cfg Config) []RoutedEdge {
	r := newRouter(tasks, batches, cfg)
	out := make([]RoutedEdge, len(edges))
	for i, e := range edges {
		out[i] = r.route(e)
	}
	return out
}

type router struct {
	tasks   map[int]route.Rect
	batches map[int]route.Rect
	radius  float64
	detour  float64
}

func newRouter(tasks []PositionedTask, batches []PositionedBatch, cfg Config) *router {
	cfg = cfg.Normalize()
	r := &router{
		tasks:   make(map[int]route.Rect, len(tasks)),
		batches: make(map[int]route.Rect, len(batches)),
		radius:  cfg.CornerRadius,
		detour:  cfg.DetourOffset,
	}
	for _, t := range tasks {
		if _, dup := r.tasks[t.Number]; !dup {
			r.tasks[t.Number] = t.Rect()
		}
	}
	for _, b := range batches {
		if _, dup := r.batches[b.Number]; !dup {
			r.batches[b.Number] = b.Rect()
		}
	}
	return r
}

func (r *router) route(e Edge) RoutedEdge {
	nodes := r.tasks
	if e.IsBatchEdge {
		nodes = r.batches
	}
	from, okFrom := nodes[e.From]
	to, okTo := nodes[e.To]
	if !okFrom || !okTo {
		return RoutedEdge{Edge: e, Points: []route.Point{}}
	}
	pts, path, dock := route.Connect(e.Relation(), from, to, r.radius, r.detour)
	return RoutedEdge{Edge: e, Points: pts, Path: path, Docking: dock}
}
