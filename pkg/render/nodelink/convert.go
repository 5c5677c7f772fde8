package nodelink

import (
	"fmt"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
)

// Export packages a DOT string and the epic's tasks into the serializable
// layout format. Graphviz computes positions at render time, so nodes carry
// identity and batch membership only. When svg is non-nil its view box
// supplies the canvas size.
func Export(dot string, e *epic.Epic, svg []byte) graph.Layout {
	l := graph.Layout{
		VizType: graph.VizTypeNodelink,
		DOT:     dot,
		Engine:  "dot",
	}
	if w, h, ok := viewBoxSize(svg); ok {
		l.Width, l.Height = w, h
	}
	if e == nil {
		return l
	}
	l.Title, l.Owner, l.Repo, l.Number = e.Title, e.Owner, e.Repo, e.Number
	if h, err := e.Hash(); err == nil {
		l.EpicHash = h
	}
	for _, b := range e.Batches {
		l.Groups = append(l.Groups, graph.Group{
			ID: b.ID, Number: b.Number, Title: b.Title, Status: string(b.Status),
			Progress: b.Progress, DependsOn: b.DependsOn,
		})
		for _, t := range b.Tasks {
			l.Nodes = append(l.Nodes, graph.Node{
				ID: t.ID, Number: t.Number, Title: t.Title, Status: string(t.Status),
				Batch: b.Number, DependsOn: t.DependsOn,
			})
		}
	}
	batchOf := make(map[int]int, len(l.Nodes))
	for _, n := range l.Nodes {
		batchOf[n.Number] = n.Batch
	}
	for _, d := range e.Dependencies {
		ed := graph.Edge{From: d.To, To: d.From, BatchEdge: d.Kind == epic.KindBatch}
		ed.ID = layout.EdgeID(ed.From, ed.To, ed.BatchEdge)
		if ed.BatchEdge {
			ed.FromBatch, ed.ToBatch = ed.From, ed.To
		} else {
			ed.FromBatch, ed.ToBatch = batchOf[ed.From], batchOf[ed.To]
			ed.InterBatch = ed.FromBatch != ed.ToBatch
		}
		l.Edges = append(l.Edges, ed)
	}
	return l
}

// Parse extracts the DOT string from a serialized nodelink layout.
func Parse(l graph.Layout) (string, error) {
	if l.VizType != "" && l.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", l.VizType)
	}
	if l.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}
	return l.DOT, nil
}
