package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/render/nodelink"
)

func ExampleToDOT() {
	e := &epic.Epic{
		Number: 1, Title: "Docs",
		Batches: []epic.Batch{{Number: 2, Title: "Write", Tasks: []epic.Task{
			{Number: 3, Title: "Outline", Status: epic.StatusDone},
			{Number: 4, Title: "Draft", Status: epic.StatusReady, DependsOn: []int{3}},
		}}},
	}
	e.Normalize()

	dot := nodelink.ToDOT(e, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "t3" -> "t4";
}
