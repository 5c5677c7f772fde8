package route

import "math"

// Port is one of the four attachment points of a node's bounding box.
type Port int

const (
	Top Port = iota
	Right
	Bottom
	Left
)

func (p Port) String() string {
	switch p {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Vertical reports whether the port sits on the top or bottom side.
func (p Port) Vertical() bool { return p == Top || p == Bottom }

// Relation is the container relationship between the two ends of an edge.
type Relation int

const (
	// IntraBatch connects two tasks of the same batch.
	IntraBatch Relation = iota
	// InterBatch connects two tasks of different batches.
	InterBatch
	// BatchToBatch connects two batch containers.
	BatchToBatch
)

func (r Relation) String() string {
	switch r {
	case IntraBatch:
		return "intra"
	case InterBatch:
		return "inter"
	case BatchToBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Thresholds used by the docking rules, in pixels.
const (
	// InterBatchSlack is how far a nearly vertically aligned target must sit
	// to one side before an inter-batch edge exits toward it.
	InterBatchSlack = 50.0
	// BatchBypassGap is the minimum horizontal box gap and vertical center
	// distance for a batch edge to an upper target to enter from below.
	BatchBypassGap = 100.0
)

// Docking is the outcome of port selection.
type Docking struct {
	Exit  Port   // side of the source box the edge leaves from
	Enter Port   // side of the target box the edge arrives at
	Rule  string // name of the rule that matched
}

// Detour reports whether both ends use the same side, which forces the path
// to loop around outside the boxes.
func (d Docking) Detour() bool { return d.Exit == d.Enter }

// Geometry holds the measurements rules are evaluated on. DX and DY are the
// offsets from the source center to the target center.
type Geometry struct {
	From, To Rect
	DX, DY   float64
	GapX     float64
}

// Measure computes the geometry between two boxes.
func Measure(from, to Rect) Geometry {
	fc, tc := from.Center(), to.Center()
	return Geometry{
		From: from,
		To:   to,
		DX:   tc.X - fc.X,
		DY:   tc.Y - fc.Y,
		GapX: HorizontalGap(from, to),
	}
}

func (g Geometry) verticalDominant() bool { return math.Abs(g.DY) > math.Abs(g.DX) }

func (g Geometry) nearlyVertical() bool { return math.Abs(g.DY) > 2*math.Abs(g.DX) }

// Rule is one row of the docking table: when the relation matches and the
// predicate holds, the edge uses the given exit and entry ports.
type Rule struct {
	Name     string
	Relation Relation
	When     func(Geometry) bool
	Exit     Port
	Enter    Port
}

func always(Geometry) bool { return true }

// Rules is the docking table. Rules are evaluated in order and the first
// matching rule for the edge's relation wins; every relation ends with a
// catch-all row.
var Rules = []Rule{
	{"intra/down", IntraBatch, func(g Geometry) bool { return g.verticalDominant() && g.DY > 0 }, Bottom, Top},
	{"intra/up", IntraBatch, func(g Geometry) bool { return g.verticalDominant() }, Top, Bottom},
	{"intra/right", IntraBatch, func(g Geometry) bool { return g.DX >= 0 }, Right, Left},
	{"intra/left", IntraBatch, always, Left, Right},

	// Inter-batch task edges never use top or bottom ports so they stay clear
	// of batch header bands.
	{"inter/stacked-right", InterBatch, func(g Geometry) bool { return g.nearlyVertical() && g.DX > InterBatchSlack }, Right, Left},
	{"inter/stacked-left", InterBatch, func(g Geometry) bool { return g.nearlyVertical() && g.DX < -InterBatchSlack }, Left, Right},
	{"inter/stacked-detour", InterBatch, func(g Geometry) bool { return g.nearlyVertical() }, Left, Left},
	{"inter/right", InterBatch, func(g Geometry) bool { return g.DX >= 0 }, Right, Left},
	{"inter/left", InterBatch, always, Left, Right},

	{"batch/bypass-right", BatchToBatch, func(g Geometry) bool { return bypass(g) && g.DX >= 0 }, Right, Bottom},
	{"batch/bypass-left", BatchToBatch, bypass, Left, Bottom},
	{"batch/down", BatchToBatch, func(g Geometry) bool { return g.verticalDominant() && g.DY > 0 }, Bottom, Top},
	{"batch/up", BatchToBatch, func(g Geometry) bool { return g.verticalDominant() }, Top, Bottom},
	{"batch/right", BatchToBatch, func(g Geometry) bool { return g.DX >= 0 }, Right, Left},
	{"batch/left", BatchToBatch, always, Left, Right},
}

// bypass matches a target above the source, separated by a real horizontal
// gap and a long vertical distance. A straight vertical line would cross the
// batches stacked between them.
func bypass(g Geometry) bool {
	return g.DY < 0 && g.GapX > BatchBypassGap && math.Abs(g.DY) > BatchBypassGap
}

// Dock selects the ports for an edge between two boxes.
func Dock(rel Relation, from, to Rect) Docking {
	g := Measure(from, to)
	for _, r := range Rules {
		if r.Relation == rel && r.When(g) {
			return Docking{Exit: r.Exit, Enter: r.Enter, Rule: r.Name}
		}
	}
	return Docking{Exit: Right, Enter: Left, Rule: "fallback"}
}
