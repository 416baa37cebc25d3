package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hackorsnooze/internal/backend"
	"hackorsnooze/internal/config"
	"hackorsnooze/internal/logger"
	"hackorsnooze/internal/metrics"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "storyd:", err)
		os.Exit(1)
	}
}

// flags are the command line overrides applied on top of the loaded config.
type flags struct {
	configPath string
	listen     string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "storyd",
		Short:        "In-memory Hack or Snooze API server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file")
	cmd.Flags().StringVar(&f.listen, "listen", "", "listen address (default :3000)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (default from config)")
	return cmd
}

// loadConfig reads the config and applies only the flags that were set.
func loadConfig(f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.listen != "" {
		cfg.Server.Listen = f.listen
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv := backend.New(backend.Options{
		Addr:     cfg.Server.Listen,
		Registry: metrics.NewRegistry(),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	}
}
