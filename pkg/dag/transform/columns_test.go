package transform

import (
	"testing"

	"github.com/matzehuels/epicflow/pkg/dag"
)

func TestAssignColumns(t *testing.T) {
	tests := []struct {
		name  string
		items []dag.Item
		want  map[int]int
	}{
		{
			name:  "single node",
			items: []dag.Item{{ID: 1}},
			want:  map[int]int{1: 0},
		},
		{
			name: "fan out",
			items: []dag.Item{
				{ID: 1},
				{ID: 2, DependsOn: []int{1}},
				{ID: 3, DependsOn: []int{1}},
			},
			want: map[int]int{1: 0, 2: 1, 3: 1},
		},
		{
			name: "longest path wins",
			items: []dag.Item{
				{ID: 1},
				{ID: 2, DependsOn: []int{1}},
				{ID: 3, DependsOn: []int{2}},
				{ID: 4, DependsOn: []int{1, 3}},
			},
			want: map[int]int{1: 0, 2: 1, 3: 2, 4: 3},
		},
		{
			name: "out of scope dependency ignored",
			items: []dag.Item{
				{ID: 1, DependsOn: []int{77}},
				{ID: 2, DependsOn: []int{1}},
			},
			want: map[int]int{1: 0, 2: 1},
		},
		{
			name: "declared before dependency",
			items: []dag.Item{
				{ID: 3, DependsOn: []int{2}},
				{ID: 2, DependsOn: []int{1}},
				{ID: 1},
			},
			want: map[int]int{1: 0, 2: 1, 3: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := dag.Build(tt.items)
			if cycles := AssignColumns(g); len(cycles) != 0 {
				t.Errorf("AssignColumns() reported cycles %v", cycles)
			}
			for id, want := range tt.want {
				n, _ := g.Node(id)
				if n.Column != want {
					t.Errorf("column(%d) = %d, want %d", id, n.Column, want)
				}
			}
		})
	}
}

func TestAssignColumns_DependentsAfterDependencies(t *testing.T) {
	g := dag.Build([]dag.Item{
		{ID: 1},
		{ID: 2},
		{ID: 3, DependsOn: []int{1}},
		{ID: 4, DependsOn: []int{2, 3}},
		{ID: 5, DependsOn: []int{4, 1}},
		{ID: 6, DependsOn: []int{2}},
		{ID: 7, DependsOn: []int{6, 5}},
	})
	AssignColumns(g)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if from.Column <= to.Column {
			t.Errorf("column(%d)=%d not after column(%d)=%d", e.From, from.Column, e.To, to.Column)
		}
	}
}

func TestAssignColumns_Cycle(t *testing.T) {
	g := dag.Build([]dag.Item{
		{ID: 1, DependsOn: []int{2}},
		{ID: 2, DependsOn: []int{1}},
		{ID: 3, DependsOn: []int{2}},
	})

	cycles := AssignColumns(g)

	if len(cycles) != 1 {
		t.Fatalf("AssignColumns() reported %d cycles, want 1", len(cycles))
	}
	if got := cycles[0].String(); got != "1 -> 2 -> 1" {
		t.Errorf("cycle = %q, want %q", got, "1 -> 2 -> 1")
	}
	want := map[int]int{1: 2, 2: 1, 3: 2}
	for id, w := range want {
		n, _ := g.Node(id)
		if n.Column != w {
			t.Errorf("column(%d) = %d, want %d", id, n.Column, w)
		}
	}
}

func TestAssignColumns_RepeatedCallsAreIndependent(t *testing.T) {
	items := []dag.Item{
		{ID: 1, DependsOn: []int{2}},
		{ID: 2, DependsOn: []int{1}},
	}
	first := dag.Build(items)
	second := dag.Build(items)
	AssignColumns(first)
	AssignColumns(second)

	for _, id := range []int{1, 2} {
		a, _ := first.Node(id)
		b, _ := second.Node(id)
		if a.Column != b.Column {
			t.Errorf("column(%d) differs between runs: %d vs %d", id, a.Column, b.Column)
		}
	}
}

func TestCompactColumns(t *testing.T) {
	g := dag.Build([]dag.Item{{ID: 1}, {ID: 2}, {ID: 3}})
	g.SetColumns(map[int]int{1: 0, 2: 4, 3: 9})

	if n := CompactColumns(g); n != 3 {
		t.Errorf("CompactColumns() = %d, want 3", n)
	}
	want := map[int]int{1: 0, 2: 1, 3: 2}
	for id, w := range want {
		n, _ := g.Node(id)
		if n.Column != w {
			t.Errorf("column(%d) = %d, want %d", id, n.Column, w)
		}
	}
}
