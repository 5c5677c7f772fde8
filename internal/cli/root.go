package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/observability"
)

// Execute runs the epicflow CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, plus pipeline, cache and HTTP
//     events from the observability hooks
//   - With --log-format json|logfmt: machine-readable log lines
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return newRoot(New(os.Stderr, LogInfo)).ExecuteContext(ctx)
}

// newRoot wires the global flags onto c's command tree.
func newRoot(c *CLI) *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log line format: text, json or logfmt")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := c.SetLogFormat(logFormat); err != nil {
			return err
		}
		if verbose {
			c.SetLogLevel(LogDebug)
			observability.NewLogHooks(c.Logger).Install()
		}
		return nil
	}
	return root
}
