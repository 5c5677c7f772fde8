package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/pipeline"
	"github.com/matzehuels/epicflow/pkg/source"
)

// renderFlags holds the output options of the render command.
type renderFlags struct {
	output     string
	formats    string
	title      bool
	edgeLabels bool
	scale      float64
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags layoutFlags
		rf    renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render <epic.json|epic.toml|layout.json|owner/repo#N>",
		Short: "Render an epic or a saved layout",
		Long: `Render an epic or a saved layout to SVG, PNG, PDF, DOT or JSON.

An epic snapshot or GitHub reference is laid out first (cached). A
layout.json produced by 'layout' is rendered as is, so layout flags have no
effect on it. PNG and PDF output need rsvg-convert on the PATH.

Examples:
  epicflow render launch.json
  epicflow render launch.layout.json -f svg,png --title
  epicflow render acme/web#12 -t nodelink -o web.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSnapshotArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := pipeline.ParseFormats(rf.formats)
			if len(formats) == 0 {
				formats = []string{graph.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &flags, &rf, formats)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", graph.FormatSVG, "output format(s): svg, png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&rf.title, "title", false, "draw the epic title above the diagram")
	cmd.Flags().BoolVar(&rf.edgeLabels, "edge-labels", false, "label edges with their task numbers")
	cmd.Flags().Float64Var(&rf.scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender renders input in every requested format and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, flags *layoutFlags, rf *renderFlags, formats []string) error {
	opts, _, err := flags.options(input)
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.Title = rf.title
	opts.EdgeLabels = rf.edgeLabels
	opts.Scale = rf.scale

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering "+input+"...")
	spinner.Start()
	artifacts, st, err := c.renderInput(ctx, runner, input, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(rf.output, input, format, len(formats))
		if err := writeOutput(path, artifacts[format]); err != nil {
			return err
		}
		c.Logger.Debug("Wrote artifact", "format", format, "bytes", len(artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", strings.Join(formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(st)
	return nil
}

// renderInput dispatches on the kind of input: a saved layout is rendered
// directly, anything else goes through the full pipeline.
func (c *CLI) renderInput(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (map[string][]byte, stats, error) {
	if source.IsSnapshotFile(input) && fileExists(input) {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, stats{}, err
		}
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(input)), ".")
		e, l, err := pipeline.ReadInput(data, format)
		if err != nil {
			return nil, stats{}, err
		}
		if l != nil {
			c.Logger.Debug("Rendering saved layout", "viz_type", l.VizType)
			opts.Source, opts.VizType = "", ""
			artifacts, hit, err := runner.RenderWithCacheInfo(ctx, *l, nil, opts)
			return artifacts, stats{batches: len(l.Groups), tasks: len(l.Nodes), edges: len(l.Edges), cached: hit}, err
		}
		opts.Source, opts.Epic = "", e
	}

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, stats{}, err
	}
	return res.Artifacts, stats{
		batches: res.Stats.BatchCount,
		tasks:   res.Stats.TaskCount,
		edges:   res.Stats.EdgeCount,
		cached:  res.CacheInfo.RenderHit,
	}, nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
