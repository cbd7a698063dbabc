package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/nyashahama/bump-digest/internal/app"
	"github.com/nyashahama/bump-digest/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		force bool
		nowS  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one digest batch and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseNow(nowS)
			if err != nil {
				return err
			}

			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool, queries, err := app.OpenDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer pool.Close()

			runner, err := app.NewRunner(cfg, queries, prometheus.NewRegistry(), logger)
			if err != nil {
				return err
			}

			result, err := runner.RunDigest(ctx, now, force)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "ignore the preferred day (opt-outs still apply)")
	cmd.Flags().StringVar(&nowS, "now", "", "run as if at this RFC3339 instant (default: current time)")
	return cmd
}

// parseNow returns the current time for an empty string.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now: %w", err)
	}
	return t, nil
}
