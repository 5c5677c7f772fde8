package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// (the dependent) does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// (the dependency) does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] when an edge would connect a
	// node to itself.
	ErrSelfLoop = errors.New("node cannot depend on itself")

	// ErrColumnOrder is returned by [DAG.Validate] when a node does not sit in
	// a strictly higher column than one of its dependencies.
	ErrColumnOrder = errors.New("dependent must be in a later column than its dependency")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black
	// coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Layout code uses it to carry titles, statuses and measured sizes alongside
// the structural data. Metadata maps are never nil after [DAG.AddNode].
type Metadata map[string]any

// Node is a vertex of the dependency graph, identified by its issue number.
//
// Column and Row are filled in by the layering and ordering passes; a freshly
// built graph has every node at (0, 0).
type Node struct {
	ID     int      // Issue number (task or batch)
	Column int      // Layer: 0 for nodes without dependencies
	Row    int      // Position within the column after crossing reduction
	Meta   Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge is a directed dependency: From depends on To.
type Edge struct {
	From int      // Dependent (blocked) node
	To   int      // Dependency (blocking) node
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// Item is the minimal input [Build] needs to derive a graph: an identifier and
// the identifiers it depends on.
type Item struct {
	ID        int
	DependsOn []int
}

// DAG is a dependency graph over integer node IDs, restricted to edges whose
// endpoints are both present. Iteration order everywhere follows node
// insertion order so that every pass built on top of it is deterministic.
//
// Despite the name a DAG may contain cycles when built from user data; the
// column assigner tolerates them and [DAG.Validate] reports them.
//
// The zero value is not usable; use [New] or [Build]. A DAG is not safe for
// concurrent mutation, but concurrent readers are fine.
type DAG struct {
	nodes      map[int]*Node
	order      []int
	edges      []Edge
	dependsOn  map[int][]int // nodeID -> dependency IDs
	dependedBy map[int][]int // nodeID -> dependent IDs
	meta       Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:      make(map[int]*Node),
		dependsOn:  make(map[int][]int),
		dependedBy: make(map[int][]int),
		meta:       meta,
	}
}

// Build derives a graph from an ordered item list. Nodes are added in input
// order; a repeated ID keeps its first occurrence and the repeat is ignored.
// Dependencies are kept only when the target is another item of the same
// list, so references that leave the scope (a task in another batch, a
// deleted issue) are silently dropped.
// Self-references and duplicate references are dropped as well.
//
// Build is a pure function of items and runs in O(n·d).
func Build(items []Item) *DAG {
	g := New(nil)
	for _, it := range items {
		_ = g.AddNode(Node{ID: it.ID})
	}
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		for _, dep := range it.DependsOn {
			if g.HasEdge(it.ID, dep) {
				continue
			}
			_ = g.AddEdge(Edge{From: it.ID, To: dep})
		}
	}
	return g
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph. It returns ErrDuplicateNodeID if the ID is
// already present. The node's Meta is initialized to an empty map if nil.
func (d *DAG) AddNode(n Node) error {
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge records that e.From depends on e.To. Both nodes must exist and be
// distinct. Duplicate edges are not rejected here; [Build] filters them.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.dependsOn[e.From] = append(d.dependsOn[e.From], e.To)
	d.dependedBy[e.To] = append(d.dependedBy[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to int) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.dependsOn[from] = slices.DeleteFunc(d.dependsOn[from], func(id int) bool { return id == to })
	d.dependedBy[to] = slices.DeleteFunc(d.dependedBy[to], func(id int) bool { return id == from })
}

// HasEdge reports whether from depends directly on to.
func (d *DAG) HasEdge(from, to int) bool {
	return slices.Contains(d.dependsOn[from], to)
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// IDs returns all node IDs in insertion order.
func (d *DAG) IDs() []int { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// DependsOn returns the in-graph dependencies of a node in declaration
// order. The returned slice must not be modified.
func (d *DAG) DependsOn(id int) []int { return d.dependsOn[id] }

// DependedBy returns the in-graph dependents of a node in insertion order.
// The returned slice must not be modified.
func (d *DAG) DependedBy(id int) []int { return d.dependedBy[id] }

// OutDegree returns the number of dependencies of a node.
func (d *DAG) OutDegree(id int) int { return len(d.dependsOn[id]) }

// InDegree returns the number of dependents of a node.
func (d *DAG) InDegree(id int) int { return len(d.dependedBy[id]) }

// Node returns the node with the given ID.
func (d *DAG) Node(id int) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// SetColumns updates the column assignment of the listed nodes. Nodes absent
// from the map keep their current column.
func (d *DAG) SetColumns(cols map[int]int) {
	for id, c := range cols {
		if n, ok := d.nodes[id]; ok {
			n.Column = c
		}
	}
}

// SetRows updates the row assignment of the listed nodes.
func (d *DAG) SetRows(rows map[int]int) {
	for id, r := range rows {
		if n, ok := d.nodes[id]; ok {
			n.Row = r
		}
	}
}

// Columns returns the current column of every node.
func (d *DAG) Columns() map[int]int {
	m := make(map[int]int, len(d.nodes))
	for id, n := range d.nodes {
		m[id] = n.Column
	}
	return m
}

// Rows returns the current row of every node.
func (d *DAG) Rows() map[int]int {
	m := make(map[int]int, len(d.nodes))
	for id, n := range d.nodes {
		m[id] = n.Row
	}
	return m
}

// NodesInColumn returns the nodes assigned to a column in insertion order.
func (d *DAG) NodesInColumn(col int) []*Node {
	var out []*Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.Column == col {
			out = append(out, n)
		}
	}
	return out
}

// ColumnIDs returns the distinct column indices in ascending order.
func (d *DAG) ColumnIDs() []int {
	set := make(map[int]struct{})
	for _, n := range d.nodes {
		set[n.Column] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// MaxColumn returns the highest column index, or 0 for an empty graph.
func (d *DAG) MaxColumn() int {
	m := 0
	for _, n := range d.nodes {
		if n.Column > m {
			m = n.Column
		}
	}
	return m
}

// Sources returns the nodes with no dependencies, in insertion order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.dependsOn[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Sinks returns the nodes nothing depends on, in insertion order.
func (d *DAG) Sinks() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.dependedBy[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Validate checks that the graph is acyclic and that every dependent sits in
// a later column than each of its dependencies. It returns ErrGraphHasCycle
// or ErrColumnOrder. Cycle detection runs first because column order is
// meaningless on a cyclic graph.
func (d *DAG) Validate() error {
	if err := d.detectCycles(); err != nil {
		return err
	}
	for _, e := range d.edges {
		if d.nodes[e.From].Column <= d.nodes[e.To].Column {
			return ErrColumnOrder
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[int]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, dep := range d.dependsOn[id] {
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap maps each ID to its index in the slice.
func PosMap(ids []int) map[int]int {
	m := make(map[int]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
