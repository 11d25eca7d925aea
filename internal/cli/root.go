// Package cli wires the locsearch commands.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"locsearch/internal/config"
)

// Execute runs the CLI with args (without the program name)
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "locsearch [query]",
		Short: "Search for a place as you type and pick one",
		Long: `locsearch is an interactive location picker. Type a place name, move
through the suggestions with the arrow keys (or ctrl+n / ctrl+p) and press
enter or click to select. Selected locations are printed to stdout as JSON
lines when the picker exits, so the output can be piped into other tools.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd, args)
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newSearchCommand(),
		newConfigCommand(),
		newVersionCommand(version),
	)
	return rootCmd
}

// loadSettings resolves and validates settings for cmd
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
