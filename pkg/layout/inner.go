package layout

import (
	"github.com/matzehuels/epicflow/pkg/dag"
	"github.com/matzehuels/epicflow/pkg/dag/ordering"
	"github.com/matzehuels/epicflow/pkg/dag/transform"
	"github.com/matzehuels/epicflow/pkg/epic"
)

// ComputeInnerLayout arranges the tasks of one batch.
//
// Only dependencies between tasks of the same batch shape the inner graph;
// references to other batches become inter-batch edges later. Columns come
// from [transform.AssignColumns], rows from the orderer (barycenter when o is
// nil), and pixel positions from [AssignCoordinates] with no padding, so the
// returned positions are relative to the batch's content origin.
//
// A nil sizes estimator uses a private one.
func ComputeInnerLayout(batch epic.Batch, cfg Config, sizes *SizeEstimator, o ordering.Orderer) InnerLayout {
	cfg = cfg.Normalize()
	if sizes == nil {
		sizes = NewSizeEstimator()
	}
	if o == nil {
		o = ordering.Barycenter{}
	}

	tasks := uniqueTasks(batch.Tasks)
	items := make([]dag.Item, len(tasks))
	for i, t := range tasks {
		items[i] = dag.Item{ID: t.Number, DependsOn: t.DependsOn}
	}
	g := dag.Build(items)

	var reports []CycleReport
	for _, c := range transform.AssignColumns(g) {
		reports = append(reports, CycleReport{Scope: ScopeBatch, Batch: batch.Number, Path: c})
	}
	rows := o.AssignRows(g)
	cols := g.Columns()

	cells := make([]Cell, len(tasks))
	for i, t := range tasks {
		sz := sizes.Estimate(t.Title, cfg.TaskWidth)
		cells[i] = Cell{
			ID:     t.Number,
			Column: cols[t.Number],
			Row:    rows[t.Number],
			Width:  sz.Width,
			Height: max(sz.Height, cfg.TaskMinHeight),
		}
	}
	pos, w, h := AssignCoordinates(cells, GridSpec{
		ColumnGap: cfg.GroupSpacing,
		RowGap:    cfg.NodeSpacing,
		Direction: cfg.Direction,
	})

	out := make([]PositionedTask, len(tasks))
	for i, t := range tasks {
		p := pos[t.Number]
		out[i] = PositionedTask{
			ID:          t.ID,
			Number:      t.Number,
			Title:       t.Title,
			Status:      t.Status,
			DependsOn:   t.DependsOn,
			BatchNumber: batch.Number,
			X:           p.X,
			Y:           p.Y,
			Width:       cells[i].Width,
			Height:      cells[i].Height,
			Column:      cells[i].Column,
			Row:         cells[i].Row,
		}
	}

	return InnerLayout{
		Batch:     batch.Number,
		Tasks:     out,
		Width:     w,
		Height:    h,
		Cycles:    reports,
		Crossings: dag.CountCrossings(g, dag.ColumnOrders(g)),
	}
}

// uniqueTasks drops repeated task numbers, keeping the first occurrence.
func uniqueTasks(tasks []epic.Task) []epic.Task {
	seen := make(map[int]bool, len(tasks))
	out := make([]epic.Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.Number] {
			continue
		}
		seen[t.Number] = true
		out = append(out, t)
	}
	return out
}
