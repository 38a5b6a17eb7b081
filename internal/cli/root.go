// Package cli implements the changegen command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/changegen/internal/config"
	clierrors "github.com/ariel-frischer/changegen/internal/errors"
	"github.com/ariel-frischer/changegen/internal/git"
	"github.com/ariel-frischer/changegen/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command group IDs used to organize help output.
const (
	GroupChangelog     = "changelog"
	GroupConfiguration = "configuration"
	GroupInfo          = "info"
)

// globalOptions holds persistent flag values and the configuration resolved
// from them. One instance is shared by every command of a tree.
type globalOptions struct {
	configPath    string
	repoPath      string
	changelogPath string
	plain         bool
	debug         bool

	cfg *config.Configuration
}

// NewRootCmd builds the full changegen command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "changegen",
		Short: "Generate and maintain a Keep a Changelog document from git history",
		Long: `changegen classifies conventional commit messages (feat:, fix:, docs: ...)
into changelog categories, renders them as an Unreleased section, merges that
section into CHANGELOG.md, and promotes it to a dated release.

Source: https://github.com/ariel-frischer/changegen`,
		Example: `  # Preview the section for everything since the last tag
  changegen generate --since-tag v1.2.0

  # Merge new commits into CHANGELOG.md
  changegen update

  # Turn the Unreleased section into release 1.3.0
  changegen release 1.3.0

  # See how single messages are classified
  changegen classify "feat(api): add search" "fix: crash on start"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine())
	})

	cmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupInfo, Title: "Information:"},
	)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to project config file (default: .changegen.yml)")
	flags.StringVarP(&opts.repoPath, "repo", "r", "", "Path to the git repository (overrides repo_path)")
	flags.StringVar(&opts.changelogPath, "changelog", "", "Path to the changelog document (overrides changelog_path)")
	flags.BoolVar(&opts.plain, "plain", false, "Plain output: no colors, icons or spinner")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newUpdateCmd(opts),
		newReleaseCmd(opts),
		newClassifyCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func (o *globalOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: o.configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		path := o.configPath
		if path == "" {
			path = config.ProjectConfigPath()
		}
		return clierrors.ConfigParseError(path, err)
	}

	flags := cmd.Flags()
	if flags.Changed("repo") {
		cfg.RepoPath = o.repoPath
	}
	if flags.Changed("changelog") {
		cfg.ChangelogPath = o.changelogPath
	}
	if o.plain {
		cfg.Plain = true
	}
	if o.debug {
		cfg.LogLevel = "debug"
	}
	if cfg.Plain {
		color.NoColor = true
	}

	o.cfg = cfg
	log := logger.Setup(cmd.ErrOrStderr(), cfg.LogLevel)
	cmd.SetContext(logger.WithContext(cmd.Context(), log))

	if o.debug {
		git.SetDebugLogger(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		})
	} else {
		git.SetDebugLogger(nil)
	}

	log.Debug("configuration loaded",
		"changelog", cfg.ChangelogPath,
		"repo", cfg.RepoPath,
		"git_timeout", cfg.GitTimeout,
	)
	return nil
}

// Execute runs the command tree against os.Args and reports any error on
// stderr. The returned error carries the exit code via ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		clierrors.FprintAny(cmd.ErrOrStderr(), err, !color.NoColor)
	}
	return err
}
