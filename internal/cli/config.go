package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/layout"
)

// configCommand creates the config command for inspecting and creating
// layout configuration files.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the layout configuration",
		Long: `Create or show the layout configuration.

Layout settings are read from the file given by --config, then from
./epicflow.toml, then from ~/.config/epicflow/epicflow.toml. Missing keys
take their default values.`,
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Example: `  epicflow config init                 # ./epicflow.toml
  epicflow config init ~/.config/epicflow/epicflow.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFileName
			if len(args) == 1 {
				path = args[0]
			}
			return writeDefaultConfig(path, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeDefaultConfig(path string, force bool) error {
	if !force && fileExists(path) {
		return errs.New(errs.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	data, err := layout.DefaultConfig().EncodeTOML()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	printSuccess("Wrote default configuration")
	printFile(path)
	return nil
}

func (c *CLI) configShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, used, err := loadConfig(path)
			if err != nil {
				return err
			}
			data, err := cfg.Normalize().EncodeTOML()
			if err != nil {
				return err
			}
			if used == "" {
				used = "(defaults)"
			}
			fmt.Fprintf(output, "# source: %s\n", used)
			_, err = output.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "configuration file")
	return cmd
}
