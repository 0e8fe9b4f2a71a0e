package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abhisek/syllabus/internal/config"
	"github.com/abhisek/syllabus/internal/logging"
	"github.com/abhisek/syllabus/internal/metrics"
	"github.com/abhisek/syllabus/internal/store"
	"github.com/abhisek/syllabus/internal/tracker"
	"github.com/abhisek/syllabus/internal/ui/theme"
	"github.com/spf13/cobra"
)

// runtime holds the dependencies shared by all commands.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   *store.Store
	tracker *tracker.Service
	styles  theme.Styles
}

func (rt *runtime) Close() error {
	return rt.store.Close()
}

// openRuntime loads configuration, opens the store, and builds the tracker.
// Flags take precedence over environment variables.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if v, _ := cmd.Flags().GetBool("no-color"); v {
		cfg.NoColor = true
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	m := metrics.New()
	return &runtime{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		store:   st,
		tracker: tracker.NewService(st, tracker.WithLogger(logger), tracker.WithMetrics(m)),
		styles:  theme.New(!cfg.NoColor),
	}, nil
}
