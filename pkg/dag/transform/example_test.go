package transform_test

import (
	"fmt"

	"github.com/matzehuels/epicflow/pkg/dag"
	"github.com/matzehuels/epicflow/pkg/dag/transform"
)

func ExampleAssignColumns() {
	// T1 has no dependencies; T2 and T3 both wait on T1.
	g := dag.Build([]dag.Item{
		{ID: 1},
		{ID: 2, DependsOn: []int{1}},
		{ID: 3, DependsOn: []int{1}},
	})
	transform.AssignColumns(g)

	for _, n := range g.Nodes() {
		fmt.Printf("task %d: column %d\n", n.ID, n.Column)
	}
	// Output:
	// task 1: column 0
	// task 2: column 1
	// task 3: column 1
}

func ExampleAssignColumns_cycle() {
	g := dag.Build([]dag.Item{
		{ID: 1, DependsOn: []int{2}},
		{ID: 2, DependsOn: []int{1}},
	})

	for _, c := range transform.AssignColumns(g) {
		fmt.Println("cycle:", c)
	}
	// Output:
	// cycle: 1 -> 2 -> 1
}

func ExampleRelaxColumns() {
	g := dag.Build([]dag.Item{
		{ID: 10},
		{ID: 20, DependsOn: []int{10}},
		{ID: 30, DependsOn: []int{20}},
	})

	passes, converged := transform.RelaxColumns(g)
	fmt.Println("passes:", passes, "converged:", converged)
	fmt.Println("columns:", g.MaxColumn()+1)
	// Output:
	// passes: 2 converged: true
	// columns: 3
}
