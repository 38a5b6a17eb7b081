package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/changegen/internal/config"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Inspect and create changegen configuration",
		GroupID: GroupConfiguration,
	}

	cmd.AddCommand(newConfigShowCmd(g), newConfigInitCmd(g))
	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging defaults, the user config file,
the project config file, CHANGEGEN_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(g.cfg); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var (
		user  bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with the default values",
		Example: `  # Project config (.changegen.yml)
  changegen config init

  # User config (~/.config/changegen/config.yml)
  changegen config init --user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath
			if path == "" {
				path = config.ProjectConfigPath()
			}
			if user {
				var err error
				if path, err = config.UserConfigPath(); err != nil {
					return clierrors.WrapWithMessage(err, clierrors.Configuration, "cannot determine user config directory")
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.NewArgumentError(
					fmt.Sprintf("config file already exists: %s", path),
					"Use --force to overwrite it",
				)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return clierrors.FileNotWritable(path, err)
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return clierrors.FileNotWritable(path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Write the user-level config instead of the project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
