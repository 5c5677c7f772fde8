package pipeline

import (
	"context"
	"slices"

	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/render"
	"github.com/matzehuels/epicflow/pkg/render/nodelink"
	"github.com/matzehuels/epicflow/pkg/render/svg"
)

// RenderLayout generates output artifacts in the requested formats. The
// epic is only consulted for DOT output of epic layouts and may be nil
// otherwise.
func RenderLayout(ctx context.Context, l graph.Layout, e *epic.Epic, opts Options) (map[string][]byte, error) {
	if l.IsNodelink() {
		return renderNodelink(ctx, l, opts)
	}
	return renderEpic(ctx, l, e, opts)
}

// renderNodelink generates nodelink outputs. The layout must carry a DOT string.
func renderNodelink(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(l)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "nodelink layout")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var doc []byte // rendered SVG, shared by the converted formats
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case graph.FormatDOT:
			data = []byte(dot)
		case graph.FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			if doc == nil {
				if doc, err = nodelink.RenderSVG(ctx, dot); err != nil {
					return nil, errs.Wrap(errs.ErrCodeInternal, err, "render %s", format)
				}
			}
			data, err = render.Convert(ctx, doc, format, opts.Scale)
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderEpic generates outputs for an epic layout.
func renderEpic(ctx context.Context, l graph.Layout, e *epic.Epic, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var doc []byte
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case graph.FormatDOT:
			if e == nil {
				return nil, errs.New(errs.ErrCodeUnsupported, "dot output of an epic layout needs the epic snapshot")
			}
			data = []byte(nodelink.ToDOT(e, nodelink.Options{Detailed: true}))
		case graph.FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			if doc == nil {
				doc = svg.Render(l, svgOpts...)
			}
			data, err = render.Convert(ctx, doc, format, opts.Scale)
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []svg.Option {
	cfg := opts.Config.Normalize()
	svgOpts := []svg.Option{svg.WithHeader(cfg.GroupPadding, cfg.GroupHeaderHeight)}
	if opts.Title {
		svgOpts = append(svgOpts, svg.WithTitle(""))
	}
	if opts.EdgeLabels {
		svgOpts = append(svgOpts, svg.WithEdgeLabels())
	}
	if slices.Contains(opts.Formats, graph.FormatSVG) {
		svgOpts = append(svgOpts, svg.WithInteraction())
	}
	return svgOpts
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse layout")
	}
	opts.VizType = l.VizType
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return RenderLayout(ctx, l, nil, opts)
}
