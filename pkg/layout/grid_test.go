package layout

import (
	"testing"

	"github.com/matzehuels/epicflow/pkg/layout/route"
)

func TestAssignCoordinates(t *testing.T) {
	cells := []Cell{
		{ID: 1, Column: 0, Row: 0, Width: 100, Height: 50},
		{ID: 2, Column: 1, Row: 0, Width: 80, Height: 70},
		{ID: 3, Column: 1, Row: 1, Width: 120, Height: 30},
	}

	tests := []struct {
		name          string
		dir           Direction
		want          map[int]route.Point
		width, height float64
	}{
		{
			name:   "right",
			dir:    DirectionRight,
			want:   map[int]route.Point{1: {X: 10, Y: 10}, 2: {X: 115, Y: 10}, 3: {X: 115, Y: 87}},
			width:  245,
			height: 127,
		},
		{
			name:   "down",
			dir:    DirectionDown,
			want:   map[int]route.Point{1: {X: 10, Y: 10}, 2: {X: 10, Y: 65}, 3: {X: 117, Y: 65}},
			width:  247,
			height: 145,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, w, h := AssignCoordinates(cells, GridSpec{Padding: 10, ColumnGap: 5, RowGap: 7, Direction: tt.dir})
			for id, want := range tt.want {
				if pos[id] != want {
					t.Errorf("pos[%d] = %v, want %v", id, pos[id], want)
				}
			}
			if w != tt.width || h != tt.height {
				t.Errorf("canvas = %vx%v, want %vx%v", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestAssignCoordinates_SparseIndices(t *testing.T) {
	cells := []Cell{
		{ID: 1, Column: 0, Row: 0, Width: 10, Height: 10},
		{ID: 2, Column: 4, Row: 7, Width: 10, Height: 10},
	}
	pos, w, h := AssignCoordinates(cells, GridSpec{ColumnGap: 1, RowGap: 1})
	if pos[2] != (route.Point{X: 11, Y: 11}) {
		t.Errorf("pos[2] = %v, want unused indices to take no space", pos[2])
	}
	if w != 21 || h != 21 {
		t.Errorf("canvas = %vx%v, want 21x21", w, h)
	}
}

func TestAssignCoordinates_Empty(t *testing.T) {
	pos, w, h := AssignCoordinates(nil, GridSpec{Padding: 40, ColumnGap: 10, RowGap: 10})
	if len(pos) != 0 || w != 80 || h != 80 {
		t.Errorf("AssignCoordinates(nil) = %v, %v, %v", pos, w, h)
	}
}
