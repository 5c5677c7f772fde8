package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/epicflow/pkg/dag"
	"github.com/matzehuels/epicflow/pkg/dag/transform"
	"github.com/matzehuels/epicflow/pkg/epic"
)

// BatchEdgeWeight is the connection weight of one batch-to-batch dependency
// relative to a single task-level edge.
const BatchEdgeWeight = 5

// ComputeOuterLayout packs batches into dependency-ordered columns and
// translates every batch's inner task positions into absolute coordinates.
//
// # Boxes
//
// A batch box wraps its inner content with GroupPadding on every side plus
// the header band; it is widened when needed so the "#n title" label and the
// progress indicator never clip.
//
// # Columns
//
// A batch's column is its depth in the batch dependency graph, found by
// fixed-point relaxation capped at n+1 passes. Cyclic batch graphs stop at
// the cap and are reported; empty columns are then squeezed out.
//
// # Order within a column
//
// The last column is sorted by connection weight, descending. Earlier
// columns are ordered right to left: a batch sorts by the mean position of
// its dependents in the next column, and batches without such dependents
// follow, by weight. Batch dependencies weigh [BatchEdgeWeight] task edges.
//
// Columns are laid out left to right from CanvasPadding; batches stack top
// to bottom separated by RowGap and are centered in their column.
func ComputeOuterLayout(batches []epic.Batch, inner map[int]InnerLayout, edges []Edge, cfg Config) OuterLayout {
	cfg = cfg.Normalize()
	pad := cfg.GroupPadding

	batches = uniqueBatches(batches)
	if len(batches) == 0 {
		return OuterLayout{
			Batches: []PositionedBatch{},
			Tasks:   []PositionedTask{},
			Width:   2 * cfg.CanvasPadding,
			Height:  2 * cfg.CanvasPadding,
		}
	}

	type box struct{ w, h float64 }
	boxes := make(map[int]box, len(batches))
	items := make([]dag.Item, len(batches))
	for i, b := range batches {
		il := inner[b.Number]
		boxes[b.Number] = box{
			w: max(il.Width+2*pad, headerWidth(b.Number, b.Title, pad)),
			h: il.Height + 2*pad + cfg.GroupHeaderHeight,
		}
		items[i] = dag.Item{ID: b.Number, DependsOn: b.DependsOn}
	}

	g := dag.Build(items)
	var reports []CycleReport
	if _, converged := transform.RelaxColumns(g); !converged {
		for _, c := range transform.FindCycles(g) {
			reports = append(reports, CycleReport{Scope: ScopeEpic, Path: c})
		}
	}
	ncols := transform.CompactColumns(g)
	colOf := g.Columns()

	columns := make([][]int, ncols)
	for _, b := range batches {
		c := colOf[b.Number]
		columns[c] = append(columns[c], b.Number)
	}
	orderColumns(g, columns, colOf, connectionWeights(edges), edges)

	// Place columns left to right, batches top to bottom.
	placed := make(map[int]PositionedBatch, len(batches))
	x := cfg.CanvasPadding
	height := 0.0
	for ci, col := range columns {
		colW := 0.0
		for _, n := range col {
			colW = max(colW, boxes[n].w)
		}
		y := cfg.CanvasPadding
		for ri, n := range col {
			if ri > 0 {
				y += cfg.RowGap
			}
			bx := boxes[n]
			placed[n] = PositionedBatch{X: x + (colW-bx.w)/2, Y: y, Width: bx.w, Height: bx.h, Row: ri, Col: ci}
			y += bx.h
		}
		height = max(height, y+cfg.CanvasPadding)
		x += colW
		if ci < len(columns)-1 {
			x += cfg.ColumnGap
		}
	}
	width := x + cfg.CanvasPadding

	out := OuterLayout{
		Batches: make([]PositionedBatch, 0, len(batches)),
		Tasks:   []PositionedTask{},
		Width:   width,
		Height:  height,
		Cycles:  reports,
	}
	for _, b := range batches {
		pb := placed[b.Number]
		pb.ID, pb.Number, pb.Title = b.ID, b.Number, b.Title
		pb.Status, pb.Progress, pb.DependsOn = b.Status, b.Progress, b.DependsOn
		out.Batches = append(out.Batches, pb)

		dx, dy := pb.X+pad, pb.Y+cfg.GroupHeaderHeight+pad
		for _, t := range inner[b.Number].Tasks {
			t.X += dx
			t.Y += dy
			t.BatchNumber = b.Number
			out.Tasks = append(out.Tasks, t)
		}
	}
	return out
}

// connectionWeights scores how strongly each batch is connected.
func connectionWeights(edges []Edge) map[int]int {
	w := make(map[int]int)
	for _, e := range edges {
		switch {
		case e.IsBatchEdge:
			w[e.FromBatch] += BatchEdgeWeight
			w[e.ToBatch] += BatchEdgeWeight
		case e.IsInterBatch:
			w[e.FromBatch]++
			w[e.ToBatch]++
		default:
			w[e.FromBatch]++
		}
	}
	return w
}

// orderColumns sorts every column in place, right to left.
func orderColumns(g *dag.DAG, columns [][]int, colOf map[int]int, weight map[int]int, edges []Edge) {
	byWeight := func(a, b int) int { return cmp.Compare(weight[b], weight[a]) }

	last := len(columns) - 1
	slices.SortStableFunc(columns[last], byWeight)

	// Dependents a batch feeds through task-level edges.
	feeds := make(map[int][]int)
	for _, e := range edges {
		if e.IsInterBatch && !e.IsBatchEdge {
			feeds[e.FromBatch] = append(feeds[e.FromBatch], e.ToBatch)
		}
	}

	for c := last - 1; c >= 0; c-- {
		next := dag.PosMap(columns[c+1])
		mean := make(map[int]float64, len(columns[c]))
		var anchored, loose []int
		for _, n := range columns[c] {
			sum, cnt := 0, 0
			for _, d := range append(slices.Clone(g.DependedBy(n)), feeds[n]...) {
				if colOf[d] != c+1 {
					continue
				}
				sum += next[d]
				cnt++
			}
			if cnt == 0 {
				loose = append(loose, n)
				continue
			}
			mean[n] = float64(sum) / float64(cnt)
			anchored = append(anchored, n)
		}
		slices.SortStableFunc(anchored, func(a, b int) int { return cmp.Compare(mean[a], mean[b]) })
		slices.SortStableFunc(loose, byWeight)
		columns[c] = append(anchored, loose...)
	}
}

// uniqueBatches drops repeated batch numbers, keeping the first occurrence.
func uniqueBatches(batches []epic.Batch) []epic.Batch {
	seen := make(map[int]bool, len(batches))
	out := make([]epic.Batch, 0, len(batches))
	for _, b := range batches {
		if seen[b.Number] {
			continue
		}
		seen[b.Number] = true
		out = append(out, b)
	}
	return out
}
