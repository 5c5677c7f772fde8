package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/epicflow/pkg/graph"
)

func ExampleReadEpic() {
	data := `{
		"title": "Search",
		"batches": [
			{"number": 1, "title": "Index", "tasks": [
				{"number": 2, "status": "done"},
				{"number": 3, "depends_on": [2]}
			]}
		]
	}`

	e, err := graph.ReadEpic(strings.NewReader(data))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("progress:", e.Batches[0].Progress)
	fmt.Println("dependencies:", len(e.Dependencies))
	// Output:
	// progress: 50
	// dependencies: 1
}

func ExampleUnmarshalLayout() {
	l, err := graph.UnmarshalLayout([]byte(`{"viz_type": "nodelink", "dot": "digraph {}"}`))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(l.IsNodelink(), l.DOT)
	// Output: true digraph {}
}
