package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"locsearch/internal/config"
	"locsearch/internal/eventbus"
	"locsearch/internal/metrics"
	"locsearch/internal/ui"
)

// runPicker runs the interactive picker and prints what was selected
func runPicker(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, logFile, err := openPickerLog(settings)
	if err != nil {
		return err
	}
	defer logFile.Close()
	config.Log(settings, logger)

	client, closeClient, err := newClient(settings, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(logger)
	defer bus.Close()

	if settings.Metrics.Addr != "" {
		collectors := metrics.New()
		defer collectors.Subscribe(bus)()
		go func() {
			if err := collectors.Serve(ctx, settings.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	}

	origin, hasOrigin := settings.UI.OriginPoint()
	opts := ui.Options{
		Client:         client,
		Bus:            bus,
		Logger:         logger,
		Backend:        client.Name(),
		Delay:          settings.Search.Debounce,
		RequestTimeout: settings.Geocoder.Timeout,
		Policy:         settings.Policy(),
		ShowFlags:      settings.UI.ShowFlags,
		Once:           settings.UI.Once,
		InitialQuery:   strings.Join(args, " "),
	}
	if hasOrigin {
		opts.Origin = &origin
	}

	model := ui.NewModel(opts)
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	model.SetProgram(program)

	logger.Info("picker started", "backend", client.Name())
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("picker failed: %w", err)
	}
	logger.Info("picker stopped", "selections", len(model.Selections()))

	return writeJSONLines(cmd.OutOrStdout(), model.Selections())
}

// openPickerLog points every logger, slog.Default included, at the log file.
// The terminal belongs to the picker.
func openPickerLog(settings *config.Settings) (*slog.Logger, io.Closer, error) {
	logger, logFile, err := config.OpenLogFile(settings.Log)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, logFile, nil
}
