package ordering

import (
	"fmt"

	"github.com/matzehuels/epicflow/pkg/dag"
)

// Orderer assigns a row to every node of a graph whose columns are already
// set. Implementations write the rows back into the graph and also return
// them keyed by node ID.
type Orderer interface {
	AssignRows(g *dag.DAG) map[int]int
}

// Names of the built-in orderers, as accepted by [ByName].
const (
	NameBarycenter = "barycenter"
	NameInput      = "input"
)

// ByName returns the orderer registered under name. An empty name selects
// [Barycenter].
func ByName(name string) (Orderer, error) {
	switch name {
	case "", NameBarycenter:
		return Barycenter{}, nil
	case NameInput:
		return InputOrder{}, nil
	default:
		return nil, fmt.Errorf("unknown ordering %q (want %s or %s)", name, NameBarycenter, NameInput)
	}
}

// InputOrder stacks the nodes of each column in insertion order, without any
// crossing reduction. It is useful as a baseline and for inputs whose authors
// already ordered tasks deliberately.
type InputOrder struct{}

// AssignRows implements [Orderer].
func (InputOrder) AssignRows(g *dag.DAG) map[int]int {
	rows := make(map[int]int, g.NodeCount())
	for _, col := range g.ColumnIDs() {
		for i, n := range g.NodesInColumn(col) {
			rows[n.ID] = i
		}
	}
	g.SetRows(rows)
	return rows
}
