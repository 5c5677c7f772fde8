package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		items     []Item
		wantNodes []int
		wantEdges []Edge
	}{
		{
			name:      "empty",
			items:     nil,
			wantNodes: []int{},
			wantEdges: nil,
		},
		{
			name:      "chain",
			items:     []Item{{ID: 1}, {ID: 2, DependsOn: []int{1}}, {ID: 3, DependsOn: []int{2}}},
			wantNodes: []int{1, 2, 3},
			wantEdges: []Edge{{From: 2, To: 1}, {From: 3, To: 2}},
		},
		{
			name:      "out of scope dependency dropped",
			items:     []Item{{ID: 1}, {ID: 2, DependsOn: []int{1, 42}}},
			wantNodes: []int{1, 2},
			wantEdges: []Edge{{From: 2, To: 1}},
		},
		{
			name:      "self and duplicate references dropped",
			items:     []Item{{ID: 1, DependsOn: []int{1}}, {ID: 2, DependsOn: []int{1, 1}}},
			wantNodes: []int{1, 2},
			wantEdges: []Edge{{From: 2, To: 1}},
		},
		{
			name:      "duplicate ID keeps first",
			items:     []Item{{ID: 1}, {ID: 2}, {ID: 1, DependsOn: []int{2}}},
			wantNodes: []int{1, 2},
			wantEdges: nil,
		},
		{
			name:      "forward reference",
			items:     []Item{{ID: 1, DependsOn: []int{2}}, {ID: 2}},
			wantNodes: []int{1, 2},
			wantEdges: []Edge{{From: 1, To: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.items)
			if got := g.IDs(); !slices.Equal(got, tt.wantNodes) {
				t.Errorf("IDs() = %v, want %v", got, tt.wantNodes)
			}
			got := g.Edges()
			if len(got) != len(tt.wantEdges) {
				t.Fatalf("EdgeCount() = %d, want %d", len(got), len(tt.wantEdges))
			}
			for i, e := range got {
				if e.From != tt.wantEdges[i].From || e.To != tt.wantEdges[i].To {
					t.Errorf("edge[%d] = %d->%d, want %d->%d", i, e.From, e.To, tt.wantEdges[i].From, tt.wantEdges[i].To)
				}
			}
		})
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: 1})
	_ = g.AddNode(Node{ID: 2})

	if err := g.AddNode(Node{ID: 1}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddEdge(Edge{From: 9, To: 1}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(unknown from) = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: 1, To: 9}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(unknown to) = %v, want ErrUnknownTargetNode", err)
	}
	if err := g.AddEdge(Edge{From: 1, To: 1}); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("AddEdge(self) = %v, want ErrSelfLoop", err)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := Build([]Item{{ID: 1}, {ID: 2, DependsOn: []int{1}}})
	g.RemoveEdge(2, 1)

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	if len(g.DependsOn(2)) != 0 || len(g.DependedBy(1)) != 0 {
		t.Errorf("adjacency not cleared: dependsOn=%v dependedBy=%v", g.DependsOn(2), g.DependedBy(1))
	}
	g.RemoveEdge(2, 1) // no-op
}

func TestColumnsAndRows(t *testing.T) {
	g := Build([]Item{{ID: 1}, {ID: 2}, {ID: 3}})
	g.SetColumns(map[int]int{2: 1, 3: 1, 99: 4})
	g.SetRows(map[int]int{3: 0, 2: 1})

	if got := g.ColumnIDs(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("ColumnIDs() = %v, want [0 1]", got)
	}
	if got := g.MaxColumn(); got != 1 {
		t.Errorf("MaxColumn() = %d, want 1", got)
	}
	if got := NodeIDs(g.NodesInColumn(1)); !slices.Equal(got, []int{2, 3}) {
		t.Errorf("NodesInColumn(1) = %v, want [2 3]", got)
	}
	orders := ColumnOrders(g)
	if !slices.Equal(orders[1], []int{3, 2}) {
		t.Errorf("ColumnOrders()[1] = %v, want [3 2]", orders[1])
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		g := Build([]Item{{ID: 1}, {ID: 2, DependsOn: []int{1}}})
		g.SetColumns(map[int]int{1: 0, 2: 1})
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("column order", func(t *testing.T) {
		g := Build([]Item{{ID: 1}, {ID: 2, DependsOn: []int{1}}})
		if err := g.Validate(); !errors.Is(err, ErrColumnOrder) {
			t.Errorf("Validate() = %v, want ErrColumnOrder", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		g := Build([]Item{{ID: 1, DependsOn: []int{3}}, {ID: 2, DependsOn: []int{1}}, {ID: 3, DependsOn: []int{2}}})
		if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
			t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
		}
	})
}

func TestCountCrossings(t *testing.T) {
	// Complete bipartite K2,2 between columns 0 and 1 always has one crossing.
	g := Build([]Item{
		{ID: 1},
		{ID: 2},
		{ID: 3, DependsOn: []int{1, 2}},
		{ID: 4, DependsOn: []int{1, 2}},
	})
	g.SetColumns(map[int]int{3: 1, 4: 1})

	if got := CountCrossings(g, ColumnOrders(g)); got != 1 {
		t.Errorf("CountCrossings() = %d, want 1", got)
	}
	if got := CountLayerCrossings(g, nil, []int{3}); got != 0 {
		t.Errorf("CountLayerCrossings(empty) = %d, want 0", got)
	}
}
