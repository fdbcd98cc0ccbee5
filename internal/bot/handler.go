package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nexiplay/nexiplay-go/internal/chatbot"
	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/scheduler"
	"github.com/rs/zerolog/log"
)

// Assistant answers chat messages
type Assistant interface {
	Welcome(ctx context.Context) (string, error)
	Reply(ctx context.Context, message string) (*chatbot.Reply, error)
	Trending(ctx context.Context) (*chatbot.Reply, error)
}

// SweepRunner runs link sweeps for the admin commands
type SweepRunner interface {
	RunNow(ctx context.Context) (linkcheck.SweepResult, error)
	LastStatus() *scheduler.Status
}

// Sender sends plain text messages
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithReply(chatID int64, text string, replyToMessageID int) error
}

const helpText = `Commands:
/search title - find a movie, series or anime
/trending - newest additions
/help - show this message

You can also just type a title.`

// Handler handles Telegram bot messages
type Handler struct {
	assistant   Assistant
	sweeps      SweepRunner
	telegram    Sender
	adminChatID int64
	siteURL     string
	startTime   time.Time
}

// NewHandler creates a new message handler. sweeps may be nil, which disables the admin commands.
func NewHandler(assistant Assistant, sweeps SweepRunner, telegram Sender, adminChatID int64, siteURL string) *Handler {
	return &Handler{
		assistant:   assistant,
		sweeps:      sweeps,
		telegram:    telegram,
		adminChatID: adminChatID,
		siteURL:     strings.TrimRight(siteURL, "/"),
		startTime:   time.Now(),
	}
}

// HandleUpdate processes an incoming Telegram update
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	// Free text is answered in private chats only
	if msg.Chat == nil || !msg.Chat.IsPrivate() || strings.TrimSpace(msg.Text) == "" {
		return
	}
	h.answer(ctx, msg.Chat.ID, msg.MessageID, msg.Text)
}

// handleCommand routes commands to their respective handlers
func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	log.Info().
		Int64("chatID", chatID).
		Str("command", command).
		Str("args", args).
		Msg("Received command")

	switch command {
	case "start":
		h.handleStart(ctx, chatID)
	case "help":
		h.send(chatID, helpText)
	case "search":
		if args == "" {
			h.send(chatID, "Usage: /search title")
			return
		}
		h.answer(ctx, chatID, msg.MessageID, args)
	case "trending":
		reply, err := h.assistant.Trending(ctx)
		h.respond(chatID, msg.MessageID, reply, err)
	case "status":
		if h.isAdmin(chatID) {
			h.handleStatus(chatID)
			return
		}
		h.send(chatID, "❌ Unknown command. Use /help to see available commands.")
	case "check":
		if h.isAdmin(chatID) {
			h.handleCheck(ctx, chatID)
			return
		}
		h.send(chatID, "❌ Unknown command. Use /help to see available commands.")
	default:
		h.send(chatID, "❌ Unknown command. Use /help to see available commands.")
	}
}

func (h *Handler) isAdmin(chatID int64) bool {
	return h.sweeps != nil && h.adminChatID != 0 && chatID == h.adminChatID
}

// handleStart sends the configured welcome message followed by the help text
func (h *Handler) handleStart(ctx context.Context, chatID int64) {
	welcome, err := h.assistant.Welcome(ctx)
	if errors.Is(err, chatbot.ErrDisabled) {
		h.send(chatID, chatbot.DisabledReply)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to load welcome message")
		welcome = chatbot.DefaultWelcome
	}
	h.send(chatID, welcome+"\n\n"+helpText)
}

// answer runs one message through the assistant and replies in thread
func (h *Handler) answer(ctx context.Context, chatID int64, replyTo int, text string) {
	reply, err := h.assistant.Reply(ctx, text)
	h.respond(chatID, replyTo, reply, err)
}

func (h *Handler) respond(chatID int64, replyTo int, reply *chatbot.Reply, err error) {
	var out string
	switch {
	case errors.Is(err, chatbot.ErrDisabled):
		out = chatbot.DisabledReply
	case errors.Is(err, chatbot.ErrEmptyMessage):
		return
	case err != nil:
		log.Error().Err(err).Int64("chatID", chatID).Msg("Assistant failed")
		out = "❌ Something went wrong. Please try again."
	default:
		out = FormatReply(reply, h.siteURL)
	}

	if err := h.telegram.SendMessageWithReply(chatID, out, replyTo); err != nil {
		log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to send reply")
	}
}

// handleStatus reports uptime and the last sweep to the admin chat
func (h *Handler) handleStatus(chatID int64) {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Nexiplay status\n\n⏱ Uptime: %s\n", formatDuration(time.Since(h.startTime)))

	status := h.sweeps.LastStatus()
	switch {
	case status == nil:
		b.WriteString("🔗 No link sweep has run yet")
	case status.Error != "":
		fmt.Fprintf(&b, "🔗 Last sweep failed %s ago: %s",
			formatDuration(time.Since(status.FinishedAt)), status.Error)
	default:
		fmt.Fprintf(&b, "🔗 Last sweep %s ago (%s)\n%s",
			formatDuration(time.Since(status.FinishedAt)), status.Trigger, FormatSweep(*status.Result))
	}
	h.send(chatID, b.String())
}

// handleCheck runs a sweep on demand and reports the outcome
func (h *Handler) handleCheck(ctx context.Context, chatID int64) {
	h.send(chatID, "🔄 Running link sweep...")

	result, err := h.sweeps.RunNow(ctx)
	if err != nil {
		h.send(chatID, "❌ Link sweep failed: "+err.Error())
		return
	}
	h.send(chatID, "✅ Link sweep complete\n"+FormatSweep(result))
}

func (h *Handler) send(chatID int64, text string) {
	if err := h.telegram.SendMessage(chatID, text); err != nil {
		log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to send message")
	}
}

// FormatReply renders an assistant reply as plain text with absolute links
func FormatReply(reply *chatbot.Reply, siteURL string) string {
	if reply == nil {
		return ""
	}

	parts := []string{reply.Text}
	for _, r := range reply.Results {
		line := "• " + r.Title
		if r.ReleaseYear > 0 {
			line += fmt.Sprintf(" (%d)", r.ReleaseYear)
		}
		line += "\n  " + siteURL + r.URL
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

// FormatSweep summarises a sweep result in a few lines
func FormatSweep(r linkcheck.SweepResult) string {
	return fmt.Sprintf("Movies: %d checked, %d failed writes\nEpisodes: %d checked, %d failed writes\nNewly expired: %d\nDuration: %s",
		r.DownloadLinks.Updated, r.DownloadLinks.WriteFailures,
		r.EpisodeDownloadLinks.Updated, r.EpisodeDownloadLinks.WriteFailures,
		r.Expired, r.Duration.Round(time.Millisecond))
}

// formatDuration formats a duration into a human-readable string
func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
