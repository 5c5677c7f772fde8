package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeEpic     = "epic"     // batch containers, task cards, routed edges
	VizTypeNodelink = "nodelink" // Graphviz clusters
)

// Output formats understood by renderers.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// =============================================================================
// Node - Positioned Task Card
// =============================================================================

// Node is a positioned task card.
type Node struct {
	ID        int64   `json:"id" bson:"id"`
	Number    int     `json:"number" bson:"number"`
	Title     string  `json:"title" bson:"title"`
	Status    string  `json:"status" bson:"status"`
	Batch     int     `json:"batch" bson:"batch"`
	DependsOn []int   `json:"depends_on,omitempty" bson:"depends_on,omitempty"`
	Column    int     `json:"column" bson:"column"`
	Row       int     `json:"row" bson:"row"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
	URL       string  `json:"url,omitempty" bson:"url,omitempty"`
}

// =============================================================================
// Group - Positioned Batch Container
// =============================================================================

// Group is a positioned batch container.
type Group struct {
	ID        int64   `json:"id" bson:"id"`
	Number    int     `json:"number" bson:"number"`
	Title     string  `json:"title" bson:"title"`
	Status    string  `json:"status" bson:"status"`
	Progress  int     `json:"progress" bson:"progress"`
	DependsOn []int   `json:"depends_on,omitempty" bson:"depends_on,omitempty"`
	Column    int     `json:"column" bson:"column"`
	Row       int     `json:"row" bson:"row"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
	URL       string  `json:"url,omitempty" bson:"url,omitempty"`
}

// Label returns the header text "#<number> <title>".
func (g Group) Label() string {
	return "#" + itoa(g.Number) + " " + g.Title
}

// =============================================================================
// Edge - Routed Dependency
// =============================================================================

// Edge is a routed dependency from the blocking node (From) to the blocked
// node (To). Path holds an SVG path description; an empty Path marks an edge
// that could not be routed and must not be drawn.
type Edge struct {
	ID         string  `json:"id" bson:"id"`
	From       int     `json:"from" bson:"from"`
	To         int     `json:"to" bson:"to"`
	FromBatch  int     `json:"from_batch" bson:"from_batch"`
	ToBatch    int     `json:"to_batch" bson:"to_batch"`
	InterBatch bool    `json:"inter_batch,omitempty" bson:"inter_batch,omitempty"`
	BatchEdge  bool    `json:"batch_edge,omitempty" bson:"batch_edge,omitempty"`
	Points     []Point `json:"points,omitempty" bson:"points,omitempty"`
	Path       string  `json:"path,omitempty" bson:"path,omitempty"`
	Exit       string  `json:"exit,omitempty" bson:"exit,omitempty"`
	Enter      string  `json:"enter,omitempty" bson:"enter,omitempty"`
}

// Routable reports whether the edge has a path to draw.
func (e Edge) Routable() bool { return e.Path != "" }

// Point is a polyline vertex.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Diagnostics
// =============================================================================

// Cycle is a dependency cycle the layout engine broke.
type Cycle struct {
	Scope string `json:"scope" bson:"scope"`
	Batch int    `json:"batch,omitempty" bson:"batch,omitempty"`
	Path  []int  `json:"path" bson:"path"`
}

// Diagnostics mirrors the engine's diagnostics.
type Diagnostics struct {
	Cycles     []Cycle  `json:"cycles,omitempty" bson:"cycles,omitempty"`
	Crossings  int      `json:"crossings" bson:"crossings"`
	Unroutable []string `json:"unroutable,omitempty" bson:"unroutable,omitempty"`
}
