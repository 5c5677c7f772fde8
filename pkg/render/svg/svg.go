package svg

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
)

// TitleBand is the height reserved above the canvas when a title is drawn.
const TitleBand = 40.0

const interactionCSS = `
    .task { transition: stroke-width 0.2s ease, opacity 0.2s ease; }
    .edge { transition: opacity 0.2s ease, stroke-width 0.2s ease; }
    svg.focus .task:not(.highlight), svg.focus .edge:not(.highlight) { opacity: 0.25; }
    .task.highlight { stroke-width: 3; }
    .edge.highlight { stroke-width: 2.5; }
    a { cursor: pointer; }`

const interactionJS = `
    const root = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
    function highlight(num) {
      const keep = new Set([num]);
      document.querySelectorAll('.edge').forEach(e => {
        const on = e.dataset.from === num || e.dataset.to === num;
        e.classList.toggle('highlight', on);
        if (on) { keep.add(e.dataset.from); keep.add(e.dataset.to); }
      });
      document.querySelectorAll('.task').forEach(t => t.classList.toggle('highlight', keep.has(t.dataset.task)));
      if (root) root.classList.add('focus');
    }
    function clearHighlight() {
      document.querySelectorAll('.task, .edge').forEach(el => el.classList.remove('highlight'));
      if (root) root.classList.remove('focus');
    }
    document.querySelectorAll('.task').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.dataset.task));
      el.addEventListener('mouseleave', clearHighlight);
    });`

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	theme        Theme
	title        string
	showTitle    bool
	edgeLabels   bool
	interaction  bool
	groupPadding float64
	headerHeight float64
}

// WithTitle draws a title band above the canvas. An empty title uses the
// layout's own title.
func WithTitle(title string) Option {
	return func(r *renderer) { r.showTitle, r.title = true, title }
}

// WithEdgeLabels labels every edge with its "#from→#to" pair.
func WithEdgeLabels() Option { return func(r *renderer) { r.edgeLabels = true } }

// WithInteraction embeds hover highlighting of a task and its dependencies.
func WithInteraction() Option { return func(r *renderer) { r.interaction = true } }

// WithTheme replaces the default colours.
func WithTheme(t Theme) Option { return func(r *renderer) { r.theme = t } }

// WithHeader sets the batch padding and header height the layout was
// computed with. Defaults match layout.DefaultConfig.
func WithHeader(padding, height float64) Option {
	return func(r *renderer) {
		if padding > 0 {
			r.groupPadding = padding
		}
		if height > 0 {
			r.headerHeight = height
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		theme:        DefaultTheme,
		groupPadding: layout.DefaultGroupPadding,
		headerHeight: layout.DefaultGroupHeaderHeight,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render draws an epic layout as a standalone SVG document. Batches are
// drawn first, then edges, then task cards so arrows never hide card text.
// Edges without a routed path are skipped.
func Render(l graph.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	width, height := l.Width, l.Height
	offset := 0.0
	if r.showTitle {
		offset = TitleBand
		height += TitleBand
		if r.title == "" {
			r.title = l.Title
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		num(width), num(height), math.Ceil(width), math.Ceil(height), EscapeXML(r.theme.FontFamily))
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", num(width), num(height), r.theme.Background)

	if r.showTitle {
		fmt.Fprintf(&buf, `  <text class="title" x="%s" y="26" font-size="18" font-weight="600" fill="%s">%s</text>`+"\n",
			num(layout.DefaultCanvasPadding), r.theme.HeaderText, EscapeXML(r.title))
		fmt.Fprintf(&buf, `  <g transform="translate(0 %s)">`+"\n", num(offset))
	} else {
		buf.WriteString("  <g>\n")
	}

	groups := slices.Clone(l.Groups)
	slices.SortStableFunc(groups, func(a, b graph.Group) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	for _, g := range groups {
		r.renderGroup(&buf, g)
	}
	for _, e := range l.Edges {
		if !e.Routable() {
			continue
		}
		r.renderEdge(&buf, e)
	}
	for _, n := range l.Nodes {
		r.renderNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	if r.interaction {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, m := range []struct{ id, color string }{
		{"arrow", r.theme.Edge},
		{"arrow-inter", r.theme.InterEdge},
		{"arrow-batch", r.theme.BatchEdge},
	} {
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
			m.id, m.color)
	}
	buf.WriteString("  </defs>\n")
}

func (r *renderer) renderGroup(buf *bytes.Buffer, g graph.Group) {
	t := r.theme
	fmt.Fprintf(buf, `    <g class="batch" id="batch-%d">`+"\n", g.Number)
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" rx="12" ry="12" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		num(g.X), num(g.Y), num(g.Width), num(g.Height), t.BatchFill, t.BatchStroke)

	labelX := g.X + r.groupPadding
	labelY := g.Y + r.headerHeight/2 + 5
	avail := int((g.Width - 2*r.groupPadding - layout.ProgressWidth) / layout.HeaderRuneW)
	label := EscapeXML(truncate(g.Label(), avail))
	if g.URL != "" {
		fmt.Fprintf(buf, `      <a href="%s" target="_blank">`, EscapeXML(g.URL))
	} else {
		buf.WriteString("      ")
	}
	fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="14" font-weight="600" fill="%s">%s</text>`,
		num(labelX), num(labelY), t.HeaderText, label)
	if g.URL != "" {
		buf.WriteString("</a>")
	}
	buf.WriteString("\n")

	// Progress indicator, right-aligned in the header band.
	barW := layout.ProgressWidth - 32
	barX := g.X + g.Width - r.groupPadding - layout.ProgressWidth
	barY := labelY - 7
	pct := min(max(g.Progress, 0), 100)
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="6" rx="3" fill="%s"/>`+"\n",
		num(barX), num(barY), num(barW), t.ProgressBg)
	if pct > 0 {
		fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="6" rx="3" fill="%s"/>`+"\n",
			num(barX), num(barY), num(barW*float64(pct)/100), t.ProgressFg)
	}
	fmt.Fprintf(buf, `      <text x="%s" y="%s" font-size="11" text-anchor="end" fill="%s">%d%%</text>`+"\n",
		num(g.X+g.Width-r.groupPadding), num(labelY), t.HeaderText, pct)
	buf.WriteString("    </g>\n")
}

func (r *renderer) renderEdge(buf *bytes.Buffer, e graph.Edge) {
	stroke, marker, extra := r.theme.Edge, "arrow", ""
	width := 1.5
	switch {
	case e.BatchEdge:
		stroke, marker, width = r.theme.BatchEdge, "arrow-batch", 2.5
	case e.InterBatch:
		stroke, marker, extra = r.theme.InterEdge, "arrow-inter", ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(buf, `    <path class="edge" id="edge-%s" data-from="%d" data-to="%d" d="%s" fill="none" stroke="%s" stroke-width="%s"%s marker-end="url(#%s)"/>`+"\n",
		EscapeXML(e.ID), e.From, e.To, e.Path, stroke, num(width), extra, marker)

	if r.edgeLabels && len(e.Points) > 1 {
		mid := midpoint(e.Points)
		fmt.Fprintf(buf, `    <text class="edge-label" x="%s" y="%s" font-size="10" text-anchor="middle" fill="%s">#%d→#%d</text>`+"\n",
			num(mid.X), num(mid.Y-4), stroke, e.From, e.To)
	}
}

func (r *renderer) renderNode(buf *bytes.Buffer, n graph.Node) {
	p := r.theme.palette(n.Status)
	id := strconv.Itoa(n.Number)

	fmt.Fprintf(buf, `    <g class="task-card" id="task-%s">`+"\n", id)
	if n.URL != "" {
		fmt.Fprintf(buf, `      <a href="%s" target="_blank">`+"\n", EscapeXML(n.URL))
	}
	fmt.Fprintf(buf, `      <rect class="task" data-task="%s" x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		id, num(n.X), num(n.Y), num(n.Width), num(n.Height),
		num(layout.DefaultCornerRadius), num(layout.DefaultCornerRadius), p.Fill, p.Stroke)

	maxLines := int((n.Height - layout.CardPaddingY - layout.FooterHeight) / layout.LineHeight)
	lines := wrap(n.Title, layout.CharsPerLine(n.Width), maxLines)
	x := n.X + layout.CardPaddingX
	y := n.Y + layout.CardPaddingY/2 + layout.FontSize
	for i, line := range lines {
		fmt.Fprintf(buf, `      <text x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			num(x), num(y+float64(i)*layout.LineHeight), num(layout.FontSize), p.Text, EscapeXML(line))
	}

	footerY := n.Y + n.Height - layout.CardPaddingY/2 - 4
	fmt.Fprintf(buf, `      <text x="%s" y="%s" font-size="11" font-weight="600" fill="%s">#%s</text>`+"\n",
		num(x), num(footerY), p.Stroke, id)
	fmt.Fprintf(buf, `      <text x="%s" y="%s" font-size="11" text-anchor="end" fill="%s">%s</text>`+"\n",
		num(n.X+n.Width-layout.CardPaddingX), num(footerY), p.Stroke, EscapeXML(statusLabel(n.Status)))
	if n.URL != "" {
		buf.WriteString("      </a>\n")
	}
	buf.WriteString("    </g>\n")
}

// midpoint returns the point halfway along a polyline.
func midpoint(pts []graph.Point) graph.Point {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	half := total / 2
	for i := 1; i < len(pts); i++ {
		seg := math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
		if seg >= half && seg > 0 {
			t := half / seg
			return graph.Point{
				X: pts[i-1].X + t*(pts[i].X-pts[i-1].X),
				Y: pts[i-1].Y + t*(pts[i].Y-pts[i-1].Y),
			}
		}
		half -= seg
	}
	return pts[len(pts)-1]
}
