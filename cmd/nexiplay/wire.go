package main

import (
	"fmt"

	"github.com/nexiplay/nexiplay-go/internal/bot"
	"github.com/nexiplay/nexiplay-go/internal/config"
	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/notify"
	"github.com/rs/zerolog/log"
)

func newProber(cfg *config.CheckerConfig) *linkcheck.HTTPProber {
	return linkcheck.NewHTTPProber(cfg.UserAgent, cfg.ProbeTimeout, cfg.RateLimit)
}

// newTelegram returns nil when no bot token is configured
func newTelegram(cfg *config.BotConfig) (*bot.Client, error) {
	if !cfg.Enabled() {
		log.Info().Msg("BOT_TOKEN not set, Telegram disabled")
		return nil, nil
	}
	client, err := bot.NewClient(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram client: %w", err)
	}
	log.Info().Str("username", client.Username()).Msg("Telegram client initialized")
	return client, nil
}

// newAlerts returns nil unless both a Telegram client and an admin chat exist
func newAlerts(cfg *config.Config, telegram *bot.Client) *notify.Service {
	if telegram == nil || cfg.Bot.AdminChatID == 0 {
		return nil
	}
	return notify.NewService(telegram, cfg.Bot.AdminChatID, cfg.Server.SiteURL)
}
