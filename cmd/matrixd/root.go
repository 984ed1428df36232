package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/projector"
	"github.com/sandeepkv93/matrixd/internal/storage"
	"github.com/sandeepkv93/matrixd/internal/update"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "matrixd",
		Usage: "Eisenhower matrix task manager for the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   defaultConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file (logs are discarded otherwise)",
			},
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "Start with a few sample tasks",
			},
		},
		Action: runApp,
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "matrixd", "config.yaml")
}

// resolveConfig layers defaults, the config file, MATRIXD_* variables and
// explicitly set flags, in that order.
func resolveConfig(cmd *cli.Command) (update.RuntimeConfig, error) {
	cfg, err := update.LoadRuntimeConfigFile(cmd.String("config"), update.DefaultRuntimeConfig())
	if err != nil {
		return cfg, err
	}
	cfg = update.RuntimeConfigFromEnv(cfg)
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Bool("seed")
	}
	return cfg, nil
}

func newLogger(cfg update.RuntimeConfig) (*log.Logger, func(), error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetLevel(log.InfoLevel)
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.LogFile == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}

func runApp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	repo := storage.NewMemoryRepository()
	tasks := projector.New(repo, projector.WithLogger(logger))
	defer tasks.Close()

	if cfg.Seed {
		if err := seedTasks(ctx, tasks); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	logger.WithFields(log.Fields{
		"debug":         cfg.Debug,
		"seed":          cfg.Seed,
		"error_display": cfg.ErrorDisplay().String(),
	}).Info("matrixd starting")

	m := update.NewModel(tasks, cfg, logger).WithContext(ctx)
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
