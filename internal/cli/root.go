// Package cli wires the tasktrackr command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tasktrackr/internal/client"
	"github.com/Makepad-fr/tasktrackr/internal/config"
	"github.com/Makepad-fr/tasktrackr/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks errors that should exit with exitUsage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// usageArgs wraps a cobra arg validator so failures print usage and exit 2.
func usageArgs(check cobra.PositionalArgs, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

// app holds the root flags shared by every subcommand.
type app struct {
	apiURL     string
	configPath string
	theme      string
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tasktrackr",
		Short: "TaskTrackr - track short text tasks",
		Long: `TaskTrackr lists, creates, toggles and deletes tasks through a small REST API.

Run "tasktrackr serve" for the API and "tasktrackr ui" for the interactive list.`,
		Example: `  tasktrackr serve
  tasktrackr add "Buy milk"
  tasktrackr ls
  tasktrackr done 2
  tasktrackr rm 3`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("missing subcommand")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "task API base URL (overrides API_URL and config)")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "client config file (default ~/.tasktrackr/config.toml)")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "color theme: "+strings.Join(ui.ThemeNames(), ", "))

	root.AddCommand(
		newServeCmd(),
		a.newUICmd(),
		a.newListCmd(),
		a.newAddCmd(),
		a.newDoneCmd(),
		a.newRemoveCmd(),
		a.newHealthCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(version string) int {
	return run(context.Background(), NewRootCmd(version), os.Args[1:])
}

func run(ctx context.Context, root *cobra.Command, args []string) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	ui.Fail(root.ErrOrStderr(), err.Error())

	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		return exitUsage
	}
	return exitError
}

// clientConfig resolves file → env → flags and applies the theme.
func (a *app) clientConfig() (config.Client, error) {
	path := a.configPath
	if path == "" {
		if p, err := config.DefaultClientPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.LoadClient(path)
	if err != nil {
		return cfg, err
	}
	if a.apiURL != "" {
		cfg.APIURL = config.NormalizeAPIURL(a.apiURL)
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	ui.SetTheme(cfg.Theme)
	return cfg, nil
}

func (a *app) client() (*client.Client, error) {
	cfg, err := a.clientConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg.APIURL), nil
}
