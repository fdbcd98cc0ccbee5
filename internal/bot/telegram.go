package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// sendAttempts bounds retries of a message rejected by flood control
const sendAttempts = 3

// Client wraps the Telegram Bot API for the assistant and admin alerts
type Client struct {
	api *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client with the given bot token
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return &Client{api: api}, nil
}

// Username returns the bot's account name
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// GetUpdates returns a channel for receiving updates from Telegram
func (c *Client) GetUpdates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return c.api.GetUpdatesChan(u)
}

// StopReceivingUpdates stops the update channel
func (c *Client) StopReceivingUpdates() {
	c.api.StopReceivingUpdates()
}

// SendMessage sends a plain text message
func (c *Client) SendMessage(chatID int64, text string) error {
	return c.send(tgbotapi.NewMessage(chatID, text), "message")
}

// SendMarkdown sends a MarkdownV2 message. Callers escape the text.
func (c *Client) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return c.send(msg, "markdown message")
}

// SendMessageWithReply sends a plain text message as a reply to another message
func (c *Client) SendMessageWithReply(chatID int64, text string, replyToMessageID int) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyToMessageID
	return c.send(msg, "reply")
}

// send delivers msg without link previews. A 429 is retried after the
// server's retry_after; other errors fail at once.
func (c *Client) send(msg tgbotapi.MessageConfig, what string) error {
	msg.DisableWebPagePreview = true
	err := retry.Do(
		func() error {
			_, err := c.api.Send(msg)
			return err
		},
		retry.Attempts(sendAttempts),
		retry.RetryIf(isFloodWait),
		retry.DelayType(floodDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Int64("chat_id", msg.ChatID).Uint("attempt", n+1).Msg("Telegram flood control, retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", what, err)
	}
	return nil
}

func isFloodWait(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && tgErr.Code == 429
}

func floodDelay(n uint, err error, _ *retry.Config) time.Duration {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second
	}
	return time.Second
}
