package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/epicflow/pkg/cache"
)

// cacheKinds lists entry kinds in the order "cache stats" prints them.
var cacheKinds = []struct{ kind, label string }{
	{"epic", "Epics"},
	{"layout", "Layouts"},
	{"artifact", "Renders"},
	{"http", "GitHub responses"},
	{"other", "Other"},
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache of GitHub responses, layouts and renders",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// openFileCache opens the local cache. It returns nil when the cache
// directory has never been created.
func openFileCache() (*cache.FileCache, error) {
	if os.Getenv(envRedisURL) != "" {
		printWarning("%s is set; only the local file cache is affected", envRedisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	if !fileExists(dir) {
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil || fc == nil {
				if err == nil {
					printInfo("Cache is empty")
				}
				return err
			}
			removed, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s", plural(removed, "cached entry", "cached entries"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil || fc == nil {
				if err == nil {
					printInfo("Cache is empty")
				}
				return err
			}
			removed, err := fc.Prune()
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess("Pruned %s", plural(removed, "entry", "entries"))
			return nil
		},
	}
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what the local cache holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil || fc == nil {
				if err == nil {
					printInfo("Cache is empty")
				}
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}

			printKeyValue("Directory", fc.Dir())
			for _, k := range cacheKinds {
				if n := st.Entries[k.kind]; n > 0 {
					printKeyValue(k.label, fmt.Sprint(n))
				}
			}
			if st.Expired > 0 {
				printKeyValue("Expired", fmt.Sprint(st.Expired))
			}
			if st.Corrupt > 0 {
				printKeyValue("Unreadable", fmt.Sprint(st.Corrupt))
			}
			printKeyValue("Size", formatBytes(st.Bytes))
			if st.Expired+st.Corrupt > 0 {
				printNextStep("Reclaim space", appName+" cache prune")
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(output, dir)
			return nil
		},
	}
}

// formatBytes renders n with a binary unit, e.g. "12.3 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
