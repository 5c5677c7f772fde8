// Package pipeline runs epicflow's three stages, fetch, layout and render,
// with caching. The CLI and the HTTP API both go through a [Runner], so an
// epic laid out from the terminal and one laid out over HTTP share cache
// entries and validation rules.
//
//	runner := pipeline.NewRunner(backend, nil, logger)
//	runner.Register(github.NewClient(token, backend))
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "acme/web#12",
//	    Formats: []string{"svg", "dot"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
//
// The stages are also exposed one by one ([Runner.Fetch], [Runner.Layout],
// [Runner.Render]) for callers that already hold an epic or a layout.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
)

const (
	// DefaultVizType is used when Options.VizType is empty.
	DefaultVizType = graph.VizTypeEpic

	// DefaultScale is the PNG scale factor when Options.Scale is unset.
	DefaultScale = 2.0

	// MaxScale bounds Options.Scale. A 40-task epic at scale 8 is already a
	// ~100 MB bitmap.
	MaxScale = 8.0
)

// Formats lists the output formats in the order they are documented.
var Formats = []string{graph.FormatSVG, graph.FormatPNG, graph.FormatPDF, graph.FormatDOT, graph.FormatJSON}

// VizTypes lists the visualization types.
var VizTypes = []string{graph.VizTypeEpic, graph.VizTypeNodelink}

// IsFormat reports whether f is one of [Formats].
func IsFormat(f string) bool { return slices.Contains(Formats, f) }

// ValidateFormat rejects anything not in [Formats]. Formats are
// case-sensitive; [ParseFormats] lowercases user input.
func ValidateFormat(format string) error {
	if !IsFormat(format) {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats validates every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType rejects anything not in [VizTypes].
func ValidateVizType(vizType string) error {
	if !slices.Contains(VizTypes, vizType) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid viz_type %q (want one of %s)", vizType, strings.Join(VizTypes, ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "svg, PNG", lowercasing
// entries and dropping blanks and repeats.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Options configures a pipeline run. It is also the JSON body of the API's
// layout and render requests.
type Options struct {
	// Source is a snapshot path or a GitHub ref such as "acme/web#12".
	Source string `json:"source,omitempty"`
	// Epic is an inline snapshot. When set, Source is not fetched.
	Epic *epic.Epic `json:"epic,omitempty"`
	// Refresh bypasses cached GitHub data.
	Refresh bool `json:"refresh,omitempty"`

	VizType string        `json:"viz_type,omitempty"`
	Config  layout.Config `json:"config,omitempty"`

	Formats    []string `json:"formats,omitempty"`
	Title      bool     `json:"title,omitempty"`
	EdgeLabels bool     `json:"edge_labels,omitempty"`
	// Scale applies to PNG only.
	Scale float64 `json:"scale,omitempty"`

	// Logger receives per-stage summaries. Nil discards them.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is everything a full run produced.
type Result struct {
	Epic      *epic.Epic
	EpicHash  string
	Layout    graph.Layout
	Artifacts map[string][]byte // keyed by format
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describes the epic and how long each stage took.
type Stats struct {
	BatchCount int
	TaskCount  int
	EdgeCount  int
	FetchTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache. RenderHit is true
// only when every requested format was cached.
type CacheInfo struct {
	FetchHit  bool
	LayoutHit bool
	RenderHit bool
}

// ValidateAndSetDefaults prepares o for a full run. Calling it again is a
// no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch requires a Source or an inline Epic.
func (o *Options) ValidateForFetch() error {
	o.ensureLogger()
	if o.Source == "" && o.Epic == nil {
		return errs.New(errs.ErrCodeInvalidInput, "source or epic is required")
	}
	return nil
}

// ValidateForLayout checks the layout config and viz type, then fills in
// their defaults.
func (o *Options) ValidateForLayout() error {
	o.ensureLogger()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	o.Config = o.Config.Normalize()
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	return ValidateVizType(o.VizType)
}

// ValidateForRender runs [Options.ValidateForLayout] and checks the render
// options. Formats default to SVG and Scale to [DefaultScale].
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{graph.FormatSVG}
	}
	switch {
	case o.Scale <= 0:
		o.Scale = DefaultScale
	case o.Scale > MaxScale:
		return errs.New(errs.ErrCodeInvalidInput, "scale %.2f exceeds the maximum of %.0f", o.Scale, MaxScale)
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) ensureLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsNodelink reports whether o asks for the plain node-link diagram.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// LayoutKeyOpts returns the layout inputs that go into the cache key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{VizType: o.VizType, Config: o.Config.Key()}
}

// ArtifactKeyOpts returns the render inputs for format that go into the
// cache key. PNG keys include the scale.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	key := cache.ArtifactKeyOpts{Format: format, Title: o.Title, EdgeLabel: o.EdgeLabels}
	if format == graph.FormatPNG {
		key.Format = fmt.Sprintf("%s@%.2f", format, o.Scale)
	}
	return key
}
