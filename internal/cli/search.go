package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"locsearch/internal/config"
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Look up a place once and print the results",
		Long: `Search sends a single query to the configured geocoder and prints the
results in backend order. Use it in scripts, or to check a configuration
without starting the picker.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return runSearch(cmd, strings.Join(args, " "), format)
		},
	}
	cmd.Flags().String("format", FormatText, "output format: text, json or yaml")
	return cmd
}

func runSearch(cmd *cobra.Command, query, format string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// not interactive, so stderr is free for logs
	logger, err := config.NewLogger(cmd.ErrOrStderr(), settings.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	client, closeClient, err := newClient(settings, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if settings.Geocoder.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Geocoder.Timeout)
		defer cancel()
	}

	results, err := client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	logger.Debug("search finished", "query", query, "backend", client.Name(), "count", len(results))

	return writeResults(cmd.OutOrStdout(), format, results)
}
