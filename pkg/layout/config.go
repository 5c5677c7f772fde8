package layout

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

// Direction is the axis along which inner-layout columns advance.
type Direction string

const (
	// DirectionRight places columns left to right and rows top to bottom.
	DirectionRight Direction = "right"
	// DirectionDown places columns top to bottom and rows left to right.
	DirectionDown Direction = "down"
)

// Default configuration values, in pixels.
const (
	DefaultNodeSpacing       = 24.0
	DefaultGroupSpacing      = 56.0
	DefaultGroupPadding      = 20.0
	DefaultGroupHeaderHeight = 44.0
	DefaultRowGap            = 40.0
	DefaultColumnGap         = 96.0
	DefaultCanvasPadding     = 40.0
	DefaultTaskWidth         = 220.0
	DefaultTaskMinHeight     = 64.0
	DefaultCornerRadius      = 10.0
	DefaultDetourOffset      = 24.0
)

// Config holds every tunable of the layout engine.
//
// Zero values mean "use the default"; [Config.Normalize] fills them in, so
// an explicit 0 cannot be requested for a spacing, padding or size. The
// engine does not reject odd values such as negative spacing: the picture
// may look wrong but every loop stays bounded. [Config.Validate] exists for
// callers that want to reject such input up front.
type Config struct {
	// NodeSpacing is the gap between rows of tasks inside a batch.
	NodeSpacing float64 `json:"node_spacing,omitempty" toml:"node_spacing"`
	// GroupSpacing is the gap between task columns inside a batch.
	GroupSpacing float64 `json:"group_spacing,omitempty" toml:"group_spacing"`
	// GroupPadding is the padding between a batch border and its tasks.
	GroupPadding float64 `json:"group_padding,omitempty" toml:"group_padding"`
	// GroupHeaderHeight is the height of the batch title band.
	GroupHeaderHeight float64 `json:"group_header_height,omitempty" toml:"group_header_height"`
	// RowGap separates batches stacked in the same outer column.
	RowGap float64 `json:"row_gap,omitempty" toml:"row_gap"`
	// ColumnGap separates outer batch columns.
	ColumnGap float64 `json:"column_gap,omitempty" toml:"column_gap"`
	// CanvasPadding surrounds the whole drawing.
	CanvasPadding float64 `json:"canvas_padding,omitempty" toml:"canvas_padding"`
	// TaskWidth is the nominal task card width.
	TaskWidth float64 `json:"task_width,omitempty" toml:"task_width"`
	// TaskMinHeight is the minimum task card height.
	TaskMinHeight float64 `json:"task_min_height,omitempty" toml:"task_min_height"`
	// Direction is the inner-layout primary direction.
	Direction Direction `json:"direction,omitempty" toml:"direction"`
	// CornerRadius rounds the corners of routed edges.
	CornerRadius float64 `json:"corner_radius,omitempty" toml:"corner_radius"`
	// DetourOffset is how far a same-side detour runs outside the ports.
	DetourOffset float64 `json:"detour_offset,omitempty" toml:"detour_offset"`
	// Ordering names the row orderer ("barycenter" or "input").
	Ordering string `json:"ordering,omitempty" toml:"ordering"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		NodeSpacing:       DefaultNodeSpacing,
		GroupSpacing:      DefaultGroupSpacing,
		GroupPadding:      DefaultGroupPadding,
		GroupHeaderHeight: DefaultGroupHeaderHeight,
		RowGap:            DefaultRowGap,
		ColumnGap:         DefaultColumnGap,
		CanvasPadding:     DefaultCanvasPadding,
		TaskWidth:         DefaultTaskWidth,
		TaskMinHeight:     DefaultTaskMinHeight,
		Direction:         DirectionRight,
		CornerRadius:      DefaultCornerRadius,
		DetourOffset:      DefaultDetourOffset,
		Ordering:          "barycenter",
	}
}

// Normalize returns a copy of c with every zero field replaced by its
// default.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.NodeSpacing, d.NodeSpacing)
	fill(&c.GroupSpacing, d.GroupSpacing)
	fill(&c.GroupPadding, d.GroupPadding)
	fill(&c.GroupHeaderHeight, d.GroupHeaderHeight)
	fill(&c.RowGap, d.RowGap)
	fill(&c.ColumnGap, d.ColumnGap)
	fill(&c.CanvasPadding, d.CanvasPadding)
	fill(&c.TaskWidth, d.TaskWidth)
	fill(&c.TaskMinHeight, d.TaskMinHeight)
	fill(&c.CornerRadius, d.CornerRadius)
	fill(&c.DetourOffset, d.DetourOffset)
	if c.Direction == "" {
		c.Direction = d.Direction
	}
	if c.Ordering == "" {
		c.Ordering = d.Ordering
	}
	return c
}

// Validate rejects negative sizes and unknown enumerations.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"node_spacing", c.NodeSpacing},
		{"group_spacing", c.GroupSpacing},
		{"group_padding", c.GroupPadding},
		{"group_header_height", c.GroupHeaderHeight},
		{"row_gap", c.RowGap},
		{"column_gap", c.ColumnGap},
		{"canvas_padding", c.CanvasPadding},
		{"task_width", c.TaskWidth},
		{"task_min_height", c.TaskMinHeight},
		{"corner_radius", c.CornerRadius},
		{"detour_offset", c.DetourOffset},
	}
	for _, f := range fields {
		if f.v < 0 {
			return errs.New(errs.ErrCodeInvalidConfig, "%s must not be negative, got %v", f.name, f.v)
		}
	}
	switch c.Direction {
	case "", DirectionRight, DirectionDown:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "direction must be %q or %q, got %q", DirectionRight, DirectionDown, c.Direction)
	}
	switch c.Ordering {
	case "", "barycenter", "input":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown ordering %q", c.Ordering)
	}
	return nil
}

// Key returns a stable string identifying the normalized configuration, for
// use in cache keys.
func (c Config) Key() string {
	n := c.Normalize()
	return fmt.Sprintf("%v|%v|%v|%v|%v|%v|%v|%v|%v|%s|%v|%v|%s",
		n.NodeSpacing, n.GroupSpacing, n.GroupPadding, n.GroupHeaderHeight,
		n.RowGap, n.ColumnGap, n.CanvasPadding, n.TaskWidth, n.TaskMinHeight,
		n.Direction, n.CornerRadius, n.DetourOffset, n.Ordering)
}

// LoadConfigFile reads a TOML configuration file. Fields missing from the
// file keep their defaults; unknown keys are an error so that typos do not
// go unnoticed.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg.Normalize(), nil
}

// EncodeTOML renders the configuration as a TOML document.
func (c Config) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
