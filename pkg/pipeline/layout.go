package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/epicflow/pkg/epic"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/observability"
	"github.com/matzehuels/epicflow/pkg/render/nodelink"
)

// =============================================================================
// Layout Generation
// =============================================================================

// computeLayout generates a layout for either visualization type.
//
// Epic layouts carry positioned batches, tasks and routed edges. Nodelink
// layouts carry the DOT source; Graphviz positions them at render time.
func (r *Runner) computeLayout(ctx context.Context, e *epic.Epic, opts Options) (graph.Layout, error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.VizType, len(e.Batches), e.TaskCount())

	var (
		l   graph.Layout
		err error
	)
	if opts.IsNodelink() {
		l = generateNodelinkLayout(e)
	} else {
		l, err = r.generateEpicLayout(ctx, e, opts)
	}

	observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	return l, err
}

// =============================================================================
// Epic
// =============================================================================

func (r *Runner) generateEpicLayout(ctx context.Context, e *epic.Epic, opts Options) (graph.Layout, error) {
	res, err := r.Engine.ComputeLayout(ctx, e, opts.Config)
	if err != nil {
		return graph.Layout{}, err
	}
	d := res.Diagnostics
	observability.Pipeline().OnLayoutDiagnostics(ctx, e.Locator(), len(d.Cycles), d.Crossings, len(d.Unroutable))
	if !d.Empty() {
		opts.Logger.Warn("layout diagnostics",
			"epic", e.Locator(),
			"cycles", len(d.Cycles),
			"unroutable", len(d.Unroutable))
	}
	return graph.Export(res, e), nil
}

// =============================================================================
// Nodelink
// =============================================================================

func generateNodelinkLayout(e *epic.Epic) graph.Layout {
	dot := nodelink.ToDOT(e, nodelink.Options{})
	return nodelink.Export(dot, e, nil)
}
