package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/bot"
	"github.com/nexiplay/nexiplay-go/internal/catalog"
	"github.com/nexiplay/nexiplay-go/internal/chatbot"
	"github.com/nexiplay/nexiplay-go/internal/config"
	"github.com/nexiplay/nexiplay-go/internal/forms"
	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/resolver"
	"github.com/nexiplay/nexiplay-go/internal/scheduler"
	"github.com/nexiplay/nexiplay-go/internal/server"
	"github.com/nexiplay/nexiplay-go/internal/sitecfg"
	"github.com/nexiplay/nexiplay-go/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ShutdownTimeout is the maximum time to wait for graceful shutdown
const ShutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, link scheduler and Telegram bot",
	Long: `Run the public HTTP API together with the in-process link scheduler
(CHECKER_ENABLED) and, when BOT_TOKEN is set, the Telegram assistant.

Examples:
  nexiplay serve               # Listen on SERVER_PORT
  nexiplay serve --port 9000   # Override the port`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "HTTP port (default SERVER_PORT)")
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gormStore, err := store.NewGormStore(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("driver", cfg.DB.Driver).Msg("Database connection established")

	if err := seedFAQs(ctx, gormStore, &cfg.Chat); err != nil {
		log.Error().Err(err).Msg("FAQ seed skipped")
	}

	telegram, err := newTelegram(&cfg.Bot)
	if err != nil {
		return err
	}
	alerts := newAlerts(cfg, telegram)

	var (
		expiryNotifier linkcheck.ExpiryNotifier
		reportNotifier forms.ReportNotifier
	)
	if alerts != nil {
		expiryNotifier = alerts
		reportNotifier = alerts
		log.Info().Int64("chat_id", cfg.Bot.AdminChatID).Msg("Admin alerts enabled")
	}

	checker := linkcheck.NewChecker(gormStore, newProber(&cfg.Checker), expiryNotifier)
	sched := scheduler.NewScheduler(checker, &cfg.Checker)

	site := sitecfg.NewProvider(gormStore, cfg.Site.SettingsTTL)
	assistant := chatbot.New(gormStore, site, cfg.Chat.ResultLimit)

	httpServer := server.NewServer(server.Deps{
		DB:        gormStore,
		Sweeps:    sched,
		Resolver:  resolver.New(gormStore),
		Catalog:   catalog.NewService(gormStore),
		Assistant: assistant,
		Forms:     forms.NewService(gormStore, reportNotifier),
		Site:      site,
	}, &cfg.Server)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	sched.Start(ctx)

	if telegram != nil {
		handler := bot.NewHandler(assistant, sched, telegram, cfg.Bot.AdminChatID, cfg.Server.SiteURL)
		go func() {
			log.Info().Msg("Starting Telegram bot polling")
			for update := range telegram.GetUpdates() {
				handler.HandleUpdate(ctx, update)
			}
		}()
	}

	log.Info().Str("version", version).Msg("NexiPlay started successfully")

	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	// cancel first so an in-flight sweep and bot handlers unwind promptly
	cancel()

	sched.Stop()
	log.Info().Msg("Scheduler stopped")

	if telegram != nil {
		telegram.StopReceivingUpdates()
		log.Info().Msg("Telegram bot polling stopped")
	}

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	if err := gormStore.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	} else {
		log.Info().Msg("Database connection closed")
	}

	if shutdownCtx.Err() == context.DeadlineExceeded {
		log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
	} else {
		log.Info().Msg("Graceful shutdown completed")
	}
	return nil
}

// seedFAQs loads CHAT_FAQ_SEED_FILE into an empty FAQ table
func seedFAQs(ctx context.Context, gormStore *store.GormStore, cfg *config.ChatConfig) error {
	if cfg.FAQSeedFile == "" {
		return nil
	}
	faqs, err := chatbot.LoadFAQSeed(cfg.FAQSeedFile)
	if err != nil {
		return err
	}
	n, err := gormStore.SeedFAQs(ctx, faqs)
	if err != nil {
		return err
	}
	log.Info().Int("inserted", n).Str("file", cfg.FAQSeedFile).Msg("FAQ seed applied")
	return nil
}
