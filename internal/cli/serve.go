package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/buildinfo"
	"github.com/matzehuels/epicflow/pkg/observability"
	"github.com/matzehuels/epicflow/pkg/server"
	"github.com/matzehuels/epicflow/pkg/storage"
	"github.com/matzehuels/epicflow/pkg/storage/mongo"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxBody  int64
		timeout  time.Duration
		mongoURI string
		noStore  bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Routes:
  GET  /healthz
  POST /v1/layout
  POST /v1/render/{svg,png,pdf,dot,json}
  GET  /v1/snapshots/{id}
  GET  /v1/epics/{owner}/{repo}/{number}/latest

Snapshots are kept in MongoDB when --mongo-uri or EPICFLOW_MONGO_URI is
set and in ~/.config/epicflow/snapshots otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mongoURI == "" {
				mongoURI = os.Getenv(envMongoURI)
			}
			return c.runServe(cmd.Context(), addr, mongoURI, noStore, noCache,
				server.WithMaxBodyBytes(maxBody), server.WithTimeout(timeout))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string for snapshots")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable snapshot storage")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI string, noStore, noCache bool, opts ...server.Option) error {
	observability.NewLogHooks(c.Logger).Install()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts = append(opts, server.WithLogger(c.Logger))
	snapshots := "disabled"
	if !noStore {
		store, where, err := c.newStore(ctx, mongoURI)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.WithStore(store))
		snapshots = where
	}

	printKeyValue("Listening", addr)
	printKeyValue("Snapshots", snapshots)
	printKeyValue("Version", buildinfo.Version)
	return server.New(runner, opts...).ListenAndServe(ctx, addr)
}

// newStore opens the snapshot store and describes where it keeps data.
func (c *CLI) newStore(ctx context.Context, mongoURI string) (storage.Store, string, error) {
	if mongoURI != "" {
		store, err := mongo.New(ctx, mongoURI)
		if err != nil {
			return nil, "", fmt.Errorf("open snapshot store: %w", err)
		}
		return store, "mongodb", nil
	}
	store, err := storage.NewFileStore("")
	if err != nil {
		return nil, "", fmt.Errorf("open snapshot store: %w", err)
	}
	return store, store.Path(), nil
}
