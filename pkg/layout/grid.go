package layout

import (
	"slices"

	"github.com/matzehuels/epicflow/pkg/layout/route"
)

// Cell is a node placed on the (column, row) grid together with its size.
type Cell struct {
	ID     int
	Column int
	Row    int
	Width  float64
	Height float64
}

// GridSpec controls how grid indices become pixels.
type GridSpec struct {
	Padding   float64
	ColumnGap float64 // between consecutive columns
	RowGap    float64 // between consecutive rows
	Direction Direction
}

// AssignCoordinates converts grid indices into absolute positions.
//
// Each column is as wide as its widest cell and each row as tall as its
// tallest cell; a cell sits at its column's origin and its row's origin and
// keeps its own size. Only indices that are in use take up space. The
// returned canvas size is 2×padding plus the column (row) extents and the
// gaps between them, which is exactly 2×padding for no cells.
//
// With DirectionDown columns advance along y and rows along x.
func AssignCoordinates(cells []Cell, g GridSpec) (pos map[int]route.Point, width, height float64) {
	down := g.Direction == DirectionDown
	along := func(c Cell) float64 { // extent in the column direction
		if down {
			return c.Height
		}
		return c.Width
	}
	across := func(c Cell) float64 {
		if down {
			return c.Width
		}
		return c.Height
	}

	colSize := make(map[int]float64)
	rowSize := make(map[int]float64)
	for _, c := range cells {
		colSize[c.Column] = max(colSize[c.Column], along(c))
		rowSize[c.Row] = max(rowSize[c.Row], across(c))
	}

	colOrigin, primary := origins(colSize, g.Padding, g.ColumnGap)
	rowOrigin, secondary := origins(rowSize, g.Padding, g.RowGap)

	pos = make(map[int]route.Point, len(cells))
	for _, c := range cells {
		p, q := colOrigin[c.Column], rowOrigin[c.Row]
		if down {
			pos[c.ID] = route.Point{X: q, Y: p}
		} else {
			pos[c.ID] = route.Point{X: p, Y: q}
		}
	}
	if down {
		return pos, secondary, primary
	}
	return pos, primary, secondary
}

// origins lays the sorted indices of sizes end to end and returns each
// index's starting offset and the total extent including padding.
func origins(sizes map[int]float64, padding, gap float64) (map[int]float64, float64) {
	idx := make([]int, 0, len(sizes))
	for i := range sizes {
		idx = append(idx, i)
	}
	slices.Sort(idx)

	out := make(map[int]float64, len(idx))
	at := padding
	for i, k := range idx {
		if i > 0 {
			at += gap
		}
		out[k] = at
		at += sizes[k]
	}
	return out, at + padding
}
