package layout_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/layout"
)

func ExampleComputeLayout() {
	e := &epic.Epic{
		Title: "Payments v2",
		Batches: []epic.Batch{
			{Number: 10, Title: "Schema", Tasks: []epic.Task{
				{Number: 11, Title: "Create tables"},
				{Number: 12, Title: "Backfill", DependsOn: []int{11}},
			}},
			{Number: 20, Title: "API", DependsOn: []int{10}, Tasks: []epic.Task{
				{Number: 21, Title: "Charge endpoint", DependsOn: []int{12}},
			}},
		},
	}

	res, err := layout.ComputeLayout(context.Background(), e, layout.DefaultConfig())
	if err != nil {
		panic(err)
	}
	for _, b := range res.Batches {
		fmt.Printf("batch #%d column %d\n", b.Number, b.Col)
	}
	for _, ed := range res.Edges {
		fmt.Printf("%s inter=%v\n", ed.ID, ed.IsInterBatch)
	}
	// Output:
	// batch #10 column 0
	// batch #20 column 1
	// task:11->12 inter=false
	// task:12->21 inter=true
	// batch:10->20 inter=true
}

func ExampleSizeEstimator() {
	sizes := layout.NewSizeEstimator()
	short := sizes.Estimate("Fix typo", 220)
	long := sizes.Estimate("Migrate every legacy invoice record to the new ledger format", 220)
	fmt.Println(short.Height, long.Height)
	// Output: 56 92
}
