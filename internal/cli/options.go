package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/layout"
	"github.com/matzehuels/epicflow/pkg/pipeline"
	"github.com/matzehuels/epicflow/pkg/source"
)

// layoutFlags are shared by layout and render.
type layoutFlags struct {
	configPath string
	vizType    string
	ordering   string
	direction  string
	noCache    bool
	refresh    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "layout config file (default: ./epicflow.toml, then ~/.config/epicflow/epicflow.toml)")
	cmd.Flags().StringVarP(&f.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: epic (default), nodelink")
	cmd.Flags().StringVar(&f.ordering, "ordering", "", "task ordering inside batches: barycenter, input (overrides config)")
	cmd.Flags().StringVar(&f.direction, "direction", "", "inner layout direction: right, down (overrides config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch GitHub epics instead of using cached data")

	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{graph.VizTypeEpic, graph.VizTypeNodelink}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("ordering", cobra.FixedCompletions(
		[]string{"barycenter", "input"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions(
		[]string{string(layout.DirectionRight), string(layout.DirectionDown)}, cobra.ShellCompDirectiveNoFileComp))
}

// options builds pipeline options for input, applying the config file
// and then the flag overrides. It also returns the config file used, if any.
func (f *layoutFlags) options(input string) (pipeline.Options, string, error) {
	cfg, path, err := loadConfig(f.configPath)
	if err != nil {
		return pipeline.Options{}, "", err
	}
	if f.ordering != "" {
		cfg.Ordering = f.ordering
	}
	if f.direction != "" {
		cfg.Direction = layout.Direction(f.direction)
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, "", err
	}

	opts := pipeline.Options{
		Source:  input,
		Refresh: f.refresh,
		VizType: f.vizType,
		Config:  cfg,
	}
	return opts, path, nil
}

// outputBase derives the output path prefix for input: the file path
// without extension, or "<repo>-<number>" for a GitHub ref.
func outputBase(input string) string {
	ref, err := source.ParseRef(input)
	if err == nil && ref.Kind == source.KindGitHub {
		if ref.Number == 0 {
			return ref.Repo
		}
		return ref.Repo + "-" + strconv.Itoa(ref.Number)
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".layout")
}

// outputPath picks the file for one format. An explicit output is used as
// is when there is a single format; otherwise its extension is replaced.
func outputPath(output, input, format string, formats int) string {
	if output == "" {
		return outputBase(input) + "." + format
	}
	if formats == 1 {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.IsFormat(strings.TrimPrefix(ext, ".")) {
		output = strings.TrimSuffix(output, ext)
	}
	return fmt.Sprintf("%s.%s", output, format)
}
