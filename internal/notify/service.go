package notify

import (
	"context"
	"fmt"

	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// MaxLinksPerAlert bounds how many expired links go into one message
const MaxLinksPerAlert = 20

// TelegramClient defines the interface for sending Telegram messages
type TelegramClient interface {
	SendMarkdown(chatID int64, text string) error
}

// Service sends admin alerts about broken links to one Telegram chat
type Service struct {
	telegram TelegramClient
	chatID   int64
	siteURL  string
	limiter  *rate.Limiter // Telegram allows about one message per second per chat
}

// NewService creates a new notification service
func NewService(telegram TelegramClient, adminChatID int64, siteURL string) *Service {
	return &Service{
		telegram: telegram,
		chatID:   adminChatID,
		siteURL:  siteURL,
		limiter:  rate.NewLimiter(rate.Limit(1), 1),
	}
}

func (s *Service) send(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	if err := s.telegram.SendMarkdown(s.chatID, text); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}

// NotifyExpired sends the transitions of one sweep in chunks of MaxLinksPerAlert.
// Send failures are logged and do not stop the remaining chunks.
func (s *Service) NotifyExpired(ctx context.Context, transitions []linkcheck.Transition) {
	for start := 0; start < len(transitions); start += MaxLinksPerAlert {
		end := start + MaxLinksPerAlert
		if end > len(transitions) {
			end = len(transitions)
		}
		chunk := transitions[start:end]

		if err := s.send(ctx, FormatExpiredAlert(chunk)); err != nil {
			log.Error().
				Err(err).
				Int64("chatID", s.chatID).
				Int("links", len(chunk)).
				Msg("Failed to send expiry alert")
			continue
		}
		log.Info().Int("links", len(chunk)).Msg("Sent expiry alert")
	}
}

// NotifyLinkReport sends one alert for a visitor link report
func (s *Service) NotifyLinkReport(ctx context.Context, report *model.LinkReport, item *model.ContentItem) error {
	return s.send(ctx, FormatLinkReport(report, item, s.siteURL))
}
