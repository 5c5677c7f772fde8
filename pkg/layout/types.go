package layout

import (
	"fmt"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/layout/route"
)

// PositionedTask is a task card with absolute coordinates.
type PositionedTask struct {
	ID          int64       `json:"id"`
	Number      int         `json:"number"`
	Title       string      `json:"title"`
	Status      epic.Status `json:"status"`
	DependsOn   []int       `json:"depends_on,omitempty"`
	BatchNumber int         `json:"batch_number"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Column      int         `json:"column"` // inner-layout column
	Row         int         `json:"row"`    // inner-layout row
}

// Rect returns the task's bounding box.
func (t PositionedTask) Rect() route.Rect {
	return route.Rect{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// PositionedBatch is a batch container with absolute coordinates.
type PositionedBatch struct {
	ID        int64       `json:"id"`
	Number    int         `json:"number"`
	Title     string      `json:"title"`
	Status    epic.Status `json:"status"`
	Progress  int         `json:"progress"`
	DependsOn []int       `json:"depends_on,omitempty"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Row       int         `json:"row"` // position within the outer column
	Col       int         `json:"col"` // outer column (batch depth)
}

// Rect returns the batch's bounding box.
func (b PositionedBatch) Rect() route.Rect {
	return route.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Edge is a dependency drawn from the blocking node (From) to the blocked
// node (To).
type Edge struct {
	ID           string `json:"id"`
	From         int    `json:"from"`
	To           int    `json:"to"`
	IsInterBatch bool   `json:"is_inter_batch"`
	FromBatch    int    `json:"from_batch"`
	ToBatch      int    `json:"to_batch"`
	IsBatchEdge  bool   `json:"is_batch_edge"`
}

// EdgeID returns the deterministic identifier of an edge, such as
// "task:12->21" or "batch:10->20".
func EdgeID(from, to int, batchEdge bool) string {
	kind := "task"
	if batchEdge {
		kind = "batch"
	}
	return fmt.Sprintf("%s:%d->%d", kind, from, to)
}

// Relation classifies the edge for port selection.
func (e Edge) Relation() route.Relation {
	switch {
	case e.IsBatchEdge:
		return route.BatchToBatch
	case e.IsInterBatch:
		return route.InterBatch
	default:
		return route.IntraBatch
	}
}

// RoutedEdge is an edge with its routed geometry. An edge whose endpoints
// could not be found has no points and an empty path and must not be drawn.
type RoutedEdge struct {
	Edge
	Points  []route.Point `json:"points"`
	Path    route.Path    `json:"-"`
	Docking route.Docking `json:"-"`
}

// Routable reports whether the edge has a drawable path.
func (e RoutedEdge) Routable() bool { return !e.Path.Empty() }

// CycleScope names where a dependency cycle was found.
type CycleScope string

const (
	ScopeBatch CycleScope = "batch" // between tasks of one batch
	ScopeEpic  CycleScope = "epic"  // between batches
)

// CycleReport describes one dependency cycle that was broken during layout.
type CycleReport struct {
	Scope CycleScope `json:"scope"`
	Batch int        `json:"batch,omitempty"` // batch number for ScopeBatch
	Path  []int      `json:"path"`            // issue numbers, first == last
}

// Diagnostics collects conditions the engine worked around. None of them
// fail a layout.
type Diagnostics struct {
	Cycles     []CycleReport `json:"cycles,omitempty"`
	Crossings  int           `json:"crossings"`            // intra-batch edge crossings after ordering
	Unroutable []string      `json:"unroutable,omitempty"` // IDs of edges with a missing endpoint
}

// Empty reports whether nothing noteworthy happened.
func (d Diagnostics) Empty() bool {
	return len(d.Cycles) == 0 && len(d.Unroutable) == 0
}

// Result is the immutable outcome of one layout computation.
type Result struct {
	Batches      []PositionedBatch `json:"batches"`
	Tasks        []PositionedTask  `json:"tasks"`
	Edges        []RoutedEdge      `json:"edges"`
	CanvasWidth  float64           `json:"canvas_width"`
	CanvasHeight float64           `json:"canvas_height"`
	Diagnostics  Diagnostics       `json:"diagnostics"`
}

// InnerLayout is the arrangement of one batch's tasks relative to the
// batch's content origin.
type InnerLayout struct {
	Batch     int
	Tasks     []PositionedTask
	Width     float64 // content bounding box
	Height    float64
	Cycles    []CycleReport
	Crossings int
}

// OuterLayout is the arrangement of all batches with absolute task
// positions.
type OuterLayout struct {
	Batches []PositionedBatch
	Tasks   []PositionedTask
	Width   float64 // canvas size
	Height  float64
	Cycles  []CycleReport
}
