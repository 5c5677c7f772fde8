package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the status and dependency count to task labels.
	// When false, only the issue number and title are shown.
	Detailed bool
	// LeftToRight lays batches out left to right instead of top to bottom.
	LeftToRight bool
}

var statusFill = map[epic.Status]string{
	epic.StatusDone:       "#d1fae5",
	epic.StatusInProgress: "#dbeafe",
	epic.StatusReady:      "#f3f4f6",
	epic.StatusBlocked:    "#fee2e2",
	epic.StatusUnknown:    "#ffffff",
}

// ToDOT converts an epic to Graphviz DOT format. Every batch becomes a
// cluster holding its tasks. Task dependencies become edges from the
// blocking task to the blocked task; batch dependencies become bold edges
// between clusters. The result can be rendered using [RenderSVG],
// [RenderPDF], or [RenderPNG].
func ToDOT(e *epic.Epic, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if e == nil {
		buf.WriteString("}\n")
		return buf.String()
	}
	if e.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", fmt.Sprintf("#%d %s", e.Number, e.Title))
	}

	// anchor holds one task per batch, used as the endpoint of cluster edges.
	anchor := make(map[int]string, len(e.Batches))
	for _, b := range e.Batches {
		fmt.Fprintf(&buf, "\n  subgraph %q {\n", clusterID(b.Number))
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("#%d %s (%d%%)", b.Number, b.Title, b.Progress))
		buf.WriteString("    style=\"rounded\";\n    color=\"#94a3b8\";\n")
		if len(b.Tasks) == 0 {
			// Empty clusters are dropped by Graphviz; keep one invisible node.
			id := "b" + strconv.Itoa(b.Number)
			fmt.Fprintf(&buf, "    %q [label=\"\", style=invis, width=0.1, height=0.1];\n", id)
			anchor[b.Number] = id
		}
		for _, t := range b.Tasks {
			fmt.Fprintf(&buf, "    %q [%s];\n", taskID(t.Number), strings.Join(fmtAttrs(t, opts.Detailed), ", "))
			if _, ok := anchor[b.Number]; !ok {
				anchor[b.Number] = taskID(t.Number)
			}
		}
		buf.WriteString("  }\n")
	}

	// Dependencies point at what they depend on; edges run the other way.
	buf.WriteString("\n")
	for _, d := range e.Dependencies {
		switch d.Kind {
		case epic.KindBatch:
			from, okFrom := anchor[d.To]
			to, okTo := anchor[d.From]
			if !okFrom || !okTo {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [ltail=%q, lhead=%q, penwidth=2.5];\n",
				from, to, clusterID(d.To), clusterID(d.From))
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", taskID(d.To), taskID(d.From))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func clusterID(batch int) string { return "cluster_" + strconv.Itoa(batch) }

func taskID(number int) string { return "t" + strconv.Itoa(number) }

func fmtLabel(t epic.Task, detailed bool) string {
	label := fmt.Sprintf("#%d\n%s", t.Number, t.Title)
	if !detailed {
		return label
	}
	return label + fmt.Sprintf("\nstatus: %s\ndepends on: %d", t.Status, len(t.DependsOn))
}

func fmtAttrs(t epic.Task, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(t, detailed))}
	fill, ok := statusFill[t.Status]
	if !ok {
		fill = statusFill[epic.StatusUnknown]
	}
	attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	if t.Status == epic.StatusBlocked {
		attrs = append(attrs, "color=\"#ef4444\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from the
// origin with pixel width and height matching the view box.
func normalizeViewBox(svg []byte) []byte {
	w, h, ok := viewBoxSize(svg)
	if !ok {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// viewBoxSize returns the width and height of the first view box in svg.
func viewBoxSize(svg []byte) (w, h float64, ok bool) {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return 0, 0, false
	}
	w, _ = strconv.ParseFloat(string(match[3]), 64)
	h, _ = strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	return w, h, true
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
