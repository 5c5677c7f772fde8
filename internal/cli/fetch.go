package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/pipeline"
	"github.com/matzehuels/epicflow/pkg/source"
	"github.com/matzehuels/epicflow/pkg/source/file"
)

// Default timeout for GitHub operations.
const defaultGitHubTimeout = 5 * time.Minute

// fetchCommand creates the fetch command that downloads a GitHub epic into
// a snapshot file.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <owner/repo> [number]",
		Short: "Download a GitHub epic into a snapshot file",
		Long: `Download a GitHub epic into a snapshot file.

The epic issue's sub-issues become batches and their sub-issues become
tasks. "Depends on #N" and "Blocked by #N" lines in issue bodies become
dependencies. Set GITHUB_TOKEN for private repositories and higher rate
limits.

Without an issue number, open issues labelled "epic" are listed for
interactive selection.

Examples:
  epicflow fetch acme/web 12
  epicflow fetch acme/web#12 -o launch.toml
  epicflow fetch acme/web                 # pick interactively`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseFetchArgs(args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return c.runFetch(ctx, ref, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .json or .toml (default: <repo>-<number>.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached GitHub responses")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultGitHubTimeout, "timeout for GitHub operations")

	return cmd
}

// parseFetchArgs accepts "owner/repo N", "owner/repo#N" and "owner/repo".
func parseFetchArgs(args []string) (source.Ref, error) {
	repoArg := args[0]
	if len(args) == 2 {
		if strings.Contains(repoArg, "#") {
			return source.Ref{}, errs.New(errs.ErrCodeInvalidInput, "issue number given twice: %q and %q", args[0], args[1])
		}
		n, err := strconv.Atoi(strings.TrimPrefix(args[1], "#"))
		if err != nil {
			return source.Ref{}, errs.New(errs.ErrCodeInvalidInput, "invalid issue number %q", args[1])
		}
		repoArg += "#" + strconv.Itoa(n)
	}
	ref, err := source.ParseRef("github:" + repoArg)
	if err != nil {
		return source.Ref{}, err
	}
	return ref, nil
}

func (c *CLI) runFetch(ctx context.Context, ref source.Ref, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if ref.Number == 0 {
		selected, err := c.pickEpic(ctx, runner, ref)
		if err != nil {
			return err
		}
		if selected == 0 {
			printInfo("No epic selected")
			return nil
		}
		ref.Number = selected
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Fetching "+ref.String()+"...")
	spinner.Start()

	e, cached, err := runner.FetchWithCacheInfo(ctx, pipeline.Options{Source: ref.String(), Refresh: refresh})
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Stop()
	prog.done("Fetched "+ref.String(), "cached", cached)

	path := output
	if path == "" {
		path = outputBase(ref.String()) + ".json"
	}
	if err := file.Write(path, e); err != nil {
		return err
	}

	printSuccess("Fetched %s", StyleValue.Render(e.Title))
	printFile(path)
	printStats(stats{batches: len(e.Batches), tasks: e.TaskCount(), edges: len(e.Dependencies), cached: cached})
	printProgress(e)
	printNewline()
	printNextStep("Layout", "epicflow layout "+path)
	return nil
}

// pickEpic lists the repository's epics and lets the user choose one. It
// returns 0 when the user quits without choosing.
func (c *CLI) pickEpic(ctx context.Context, runner *pipeline.Runner, ref source.Ref) (int, error) {
	repo, ok := runner.Source(string(source.KindGitHub))
	if !ok {
		return 0, errs.New(errs.ErrCodeUnsupported, "no GitHub source configured")
	}
	lister, ok := repo.(source.Lister)
	if !ok {
		return 0, errs.New(errs.ErrCodeUnsupported, "the GitHub source cannot list epics")
	}

	spinner := newSpinner(ctx, "Listing epics in "+ref.Owner+"/"+ref.Repo+"...")
	spinner.Start()
	epics, err := lister.ListEpics(ctx, ref.Owner, ref.Repo)
	if err != nil {
		spinner.StopWithError("Listing failed")
		return 0, err
	}
	spinner.StopWithSuccess("Found " + plural(len(epics), "epic", "epics"))
	if len(epics) == 0 {
		return 0, errs.New(errs.ErrCodeEpicNotFound, "no open issues labelled %q in %s/%s", "epic", ref.Owner, ref.Repo)
	}

	final, err := tea.NewProgram(NewEpicListModel(ref.Owner+"/"+ref.Repo, epics), tea.WithContext(ctx)).Run()
	if err != nil {
		return 0, fmt.Errorf("epic picker: %w", err)
	}
	m, ok := final.(EpicListModel)
	if !ok || m.Selected == nil {
		return 0, nil
	}
	return m.Selected.Number, nil
}
