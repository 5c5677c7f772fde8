package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/layout"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for computed layouts.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Epic ("epic"):
//	  - Groups: positioned batch containers
//	  - Nodes: positioned task cards
//	  - Edges: routed dependencies
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields: epic identity, Width/Height and Diagnostics.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Epic identity
	Title    string `json:"title" bson:"title"`
	Owner    string `json:"owner,omitempty" bson:"owner,omitempty"`
	Repo     string `json:"repo,omitempty" bson:"repo,omitempty"`
	Number   int    `json:"number,omitempty" bson:"number,omitempty"`
	EpicHash string `json:"epic_hash,omitempty" bson:"epic_hash,omitempty"`

	// Common dimensions
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Epic-specific
	Groups      []Group     `json:"groups,omitempty" bson:"groups,omitempty"`
	Nodes       []Node      `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges       []Edge      `json:"edges,omitempty" bson:"edges,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics" bson:"diagnostics"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsEpic returns true if this is a positioned epic layout.
func (l *Layout) IsEpic() bool { return l.VizType == VizTypeEpic }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Locator returns "owner/repo#number", or the title for local epics.
func (l *Layout) Locator() string {
	if l.Owner == "" || l.Repo == "" {
		return l.Title
	}
	return l.Owner + "/" + l.Repo + "#" + itoa(l.Number)
}

// Export converts an engine result into the wire format. The epic supplies
// identity fields and may be nil.
func Export(res *layout.Result, e *epic.Epic) Layout {
	out := Layout{VizType: VizTypeEpic}
	if e != nil {
		out.Title, out.Owner, out.Repo, out.Number = e.Title, e.Owner, e.Repo, e.Number
		if h, err := e.Hash(); err == nil {
			out.EpicHash = h
		}
	}
	if res == nil {
		return out
	}
	out.Width, out.Height = res.CanvasWidth, res.CanvasHeight

	out.Groups = make([]Group, len(res.Batches))
	for i, b := range res.Batches {
		out.Groups[i] = Group{
			ID: b.ID, Number: b.Number, Title: b.Title, Status: string(b.Status),
			Progress: b.Progress, DependsOn: b.DependsOn, Column: b.Col, Row: b.Row,
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			URL: issueURL(e, b.Number),
		}
	}
	out.Nodes = make([]Node, len(res.Tasks))
	for i, t := range res.Tasks {
		out.Nodes[i] = Node{
			ID: t.ID, Number: t.Number, Title: t.Title, Status: string(t.Status),
			Batch: t.BatchNumber, DependsOn: t.DependsOn, Column: t.Column, Row: t.Row,
			X: t.X, Y: t.Y, Width: t.Width, Height: t.Height,
			URL: issueURL(e, t.Number),
		}
	}
	out.Edges = make([]Edge, len(res.Edges))
	for i, re := range res.Edges {
		ed := Edge{
			ID: re.ID, From: re.From, To: re.To, FromBatch: re.FromBatch, ToBatch: re.ToBatch,
			InterBatch: re.IsInterBatch, BatchEdge: re.IsBatchEdge,
			Path: re.Path.SVG(),
		}
		if re.Routable() {
			ed.Exit, ed.Enter = re.Docking.Exit.String(), re.Docking.Enter.String()
		}
		for _, p := range re.Points {
			ed.Points = append(ed.Points, Point{X: p.X, Y: p.Y})
		}
		out.Edges[i] = ed
	}

	d := res.Diagnostics
	out.Diagnostics = Diagnostics{Crossings: d.Crossings, Unroutable: d.Unroutable}
	for _, c := range d.Cycles {
		out.Diagnostics.Cycles = append(out.Diagnostics.Cycles, Cycle{Scope: string(c.Scope), Batch: c.Batch, Path: c.Path})
	}
	return out
}

func issueURL(e *epic.Epic, number int) string {
	if e == nil || e.Owner == "" || e.Repo == "" {
		return ""
	}
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", e.Owner, e.Repo, number)
}

func itoa(n int) string { return strconv.Itoa(n) }

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeEpic
	}

	switch {
	case l.IsEpic():
		if len(l.Groups) == 0 && len(l.Nodes) > 0 {
			return Layout{}, fmt.Errorf("epic layout has tasks but no batches")
		}
	case l.IsNodelink():
		if l.DOT == "" {
			return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return Layout{}, fmt.Errorf("unknown viz type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
