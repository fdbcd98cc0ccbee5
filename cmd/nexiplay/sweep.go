package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one bounded link sweep and exit",
	Long: `Run one bounded link health sweep against the stalest links and exit.

Intended for an external scheduler when the HTTP cron endpoint is not used.

Examples:
  nexiplay sweep              # Check CHECKER_BATCH_SIZE links per table
  nexiplay sweep --batch 50   # Check 50 links per table`,
	Args: cobra.NoArgs,
	RunE: runSweepCmd,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Int("batch", 0, "Links per table to check (default CHECKER_BATCH_SIZE)")
}

func runSweepCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	batch, _ := cmd.Flags().GetInt("batch")
	if batch <= 0 {
		batch = cfg.Checker.BatchSize
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormStore, err := store.NewGormStore(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := gormStore.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}()

	telegram, err := newTelegram(&cfg.Bot)
	if err != nil {
		return err
	}
	alerts := newAlerts(cfg, telegram)
	var notifier linkcheck.ExpiryNotifier
	if alerts != nil {
		notifier = alerts
	}
	checker := linkcheck.NewChecker(gormStore, newProber(&cfg.Checker), notifier)

	result, err := checker.RunSweep(ctx, batch)
	if err != nil {
		return fmt.Errorf("link sweep failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "selected %d rows, updated %d (%d failed writes), %d probes, %d newly expired, took %s\n",
		result.DownloadLinks.Selected+result.EpisodeDownloadLinks.Selected,
		result.DownloadLinks.Updated+result.EpisodeDownloadLinks.Updated,
		result.DownloadLinks.WriteFailures+result.EpisodeDownloadLinks.WriteFailures,
		result.DownloadLinks.Probes+result.EpisodeDownloadLinks.Probes,
		result.Expired, result.Duration.Round(time.Millisecond))
	return nil
}

