package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/source"
	"github.com/matzehuels/epicflow/pkg/source/file"
)

// editCommand creates the edit command that changes dependencies and batch
// membership in a snapshot file.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit dependencies and batch membership in a snapshot file",
		Long: `Edit dependencies and batch membership in a snapshot file.

Edits are validated before the file is rewritten; an edit that would leave
the epic inconsistent is rejected and the file is left untouched.`,
	}

	cmd.AddCommand(c.editDepCommand("add-dep", "Add a dependency (from depends on to)", true))
	cmd.AddCommand(c.editDepCommand("rm-dep", "Remove a dependency", false))
	cmd.AddCommand(c.editMoveCommand())

	return cmd
}

func (c *CLI) editDepCommand(use, short string, add bool) *cobra.Command {
	var batch bool

	cmd := &cobra.Command{
		Use:   use + " <snapshot> <from> <to>",
		Short: short,
		Example: "  epicflow edit " + use + " launch.json 12 11\n" +
			"  epicflow edit " + use + " launch.json 20 10 --batch",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeSnapshotArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := snapshotRef(args[0])
			if err != nil {
				return err
			}
			from, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			to, err := parseNumber(args[2])
			if err != nil {
				return err
			}
			kind := epic.KindTask
			if batch {
				kind = epic.KindBatch
			}
			return c.runEdit(cmd.Context(), ref, func(ctx context.Context, m source.Mutator) (*epic.Epic, error) {
				if add {
					return m.AddDependency(ctx, ref, kind, from, to)
				}
				return m.RemoveDependency(ctx, ref, kind, from, to)
			})
		},
	}
	cmd.Flags().BoolVar(&batch, "batch", false, "edit a batch-level dependency instead of a task-level one")
	return cmd
}

func (c *CLI) editMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "move <snapshot> <task> <batch>",
		Short:             "Move a task into another batch",
		Example:           "  epicflow edit move launch.json 21 10",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeSnapshotArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := snapshotRef(args[0])
			if err != nil {
				return err
			}
			task, err := parseNumber(args[1])
			if err != nil {
				return err
			}
			batch, err := parseNumber(args[2])
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), ref, func(ctx context.Context, m source.Mutator) (*epic.Epic, error) {
				return m.MoveTask(ctx, ref, task, batch)
			})
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, ref source.Ref, apply func(context.Context, source.Mutator) (*epic.Epic, error)) error {
	e, err := apply(ctx, file.New())
	if err != nil {
		return err
	}
	c.Logger.Debug("Snapshot rewritten", "path", ref.Path)

	printSuccess("Updated %s", ref.Path)
	printStats(stats{batches: len(e.Batches), tasks: e.TaskCount(), edges: len(e.Dependencies)})
	return nil
}

// snapshotRef accepts only snapshot files; GitHub epics are edited on GitHub.
func snapshotRef(path string) (source.Ref, error) {
	if !source.IsSnapshotFile(path) {
		return source.Ref{}, errs.New(errs.ErrCodeInvalidInput, "%s is not a snapshot file (.json or .toml)", path)
	}
	return source.Ref{Kind: source.KindFile, Path: path}, nil
}

func parseNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid issue number %q", s)
	}
	return n, nil
}
