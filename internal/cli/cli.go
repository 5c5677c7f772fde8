package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/buildinfo"
	"github.com/matzehuels/epicflow/pkg/cache"
	"github.com/matzehuels/epicflow/pkg/integrations/github"
	"github.com/matzehuels/epicflow/pkg/layout"
	"github.com/matzehuels/epicflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "epicflow"

	// configFileName is looked up in the working directory, then in the
	// user config directory.
	configFileName = appName + ".toml"
)

// Environment variables.
const (
	envGitHubToken = "GITHUB_TOKEN"
	envRedisURL    = "EPICFLOW_REDIS_URL"
	envMongoURI    = "EPICFLOW_MONGO_URI"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Epicflow lays out GitHub epics as batch and task flow diagrams",
		Long: `Epicflow turns an epic (an issue whose sub-issues are batches of tasks)
into a diagram: batches become containers placed in dependency order, tasks
become cards inside them, and dependencies become routed arrows.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the GitHub source registered.
// Cache keys are scoped to the GitHub token in use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	token := os.Getenv(envGitHubToken)
	if token == "" {
		c.Logger.Debug("GITHUB_TOKEN not set, using unauthenticated requests")
	}
	keyer := cache.NewTokenKeyer(nil, token)

	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	runner.Register(github.NewClient(token, backend, github.WithKeyer(keyer)))
	return runner, nil
}

// newCache picks Redis when EPICFLOW_REDIS_URL is set and the local file
// cache otherwise. A missing home directory disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(envRedisURL); url != "" {
		c.Logger.Debug("Using redis cache")
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/epicflow/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// configDir returns the config directory using XDG standard (~/.config/epicflow/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Configuration
// =============================================================================

// findConfig returns the config file that applies when --config is not
// given, or "" when there is none.
func findConfig() string {
	if fileExists(configFileName) {
		return configFileName
	}
	if dir, err := configDir(); err == nil {
		if path := filepath.Join(dir, configFileName); fileExists(path) {
			return path
		}
	}
	return ""
}

// loadConfig reads the layout configuration from path, or from the file
// found by findConfig when path is empty. It returns the path it used.
func loadConfig(path string) (layout.Config, string, error) {
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return layout.DefaultConfig(), "", nil
	}
	cfg, err := layout.LoadConfigFile(path)
	if err != nil {
		return layout.Config{}, "", err
	}
	return cfg, path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
