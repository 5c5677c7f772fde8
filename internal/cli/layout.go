package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
	"github.com/matzehuels/epicflow/pkg/storage"
)

// layoutCommand creates the layout command for computing epic layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "layout <epic.json|epic.toml|owner/repo#N>",
		Short: "Compute the layout of an epic",
		Long: `Compute the layout of an epic.

The input is an epic snapshot (JSON or TOML) or a GitHub epic reference such
as acme/web#12. The output is a layout.json holding positioned batches,
tasks and routed edges, which 'render' turns into SVG, PNG or PDF.

Layout settings come from epicflow.toml (see 'epicflow config init');
--ordering and --direction override them. Results are cached locally.

Examples:
  epicflow layout launch.json
  epicflow layout acme/web#12 -o launch.layout.json
  epicflow layout launch.toml --direction down --save`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSnapshotArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output, save)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&save, "save", false, "also store the layout as a snapshot in ~/.config/epicflow/snapshots")

	return cmd
}

// runLayout fetches the epic, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags *layoutFlags, output string, save bool) error {
	opts, configPath, err := flags.options(input)
	if err != nil {
		return err
	}
	if configPath != "" {
		c.Logger.Debug("Loaded config", "path", configPath)
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Loading "+input+"...")
	spinner.Start()

	e, _, err := runner.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}

	spinner.Update(fmt.Sprintf("Computing %s layout...", opts.VizType))
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, e, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(stats{batches: len(e.Batches), tasks: e.TaskCount(), edges: len(l.Edges), cached: cacheHit})
	printDiagnostics(l.Diagnostics)

	if save {
		id, err := saveSnapshot(ctx, l)
		if err != nil {
			return err
		}
		printDetail("Snapshot %s", id)
	}

	printNewline()
	printNextStep("Render", "epicflow render "+outputPath)
	return nil
}

// saveSnapshot stores l in the local snapshot store.
func saveSnapshot(ctx context.Context, l graph.Layout) (string, error) {
	store, err := storage.NewFileStore("")
	if err != nil {
		return "", fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()
	return store.Save(ctx, l, l.EpicHash)
}

// printDiagnostics warns about cycles the engine broke and edges it could
// not route.
func printDiagnostics(d graph.Diagnostics) {
	for _, cy := range d.Cycles {
		where := "between batches"
		if cy.Scope == string(layout.ScopeBatch) {
			where = fmt.Sprintf("inside batch #%d", cy.Batch)
		}
		printWarning("Dependency cycle %s: %s", where, cyclePath(cy.Path))
	}
	if n := len(d.Unroutable); n > 0 {
		printWarning("%s not drawn (endpoint missing)", plural(n, "edge", "edges"))
		for _, id := range d.Unroutable {
			printDetail("%s", id)
		}
	}
}

func cyclePath(path []int) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = "#" + strconv.Itoa(n)
	}
	return strings.Join(parts, " → ")
}
