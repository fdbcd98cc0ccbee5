// Package chatbot answers visitor messages with greetings, FAQ answers,
// recommendations and catalog search, in English, Bengali or Banglish.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/resolver"
	"github.com/rs/zerolog/log"
)

var (
	// ErrDisabled is returned when the assistant is switched off in settings
	ErrDisabled = errors.New("chatbot disabled")
	// ErrEmptyMessage is returned for blank input
	ErrEmptyMessage = errors.New("empty message")
)

const (
	trendingLimit = 4
	// searchCandidates is how many title matches are ranked before trimming
	searchCandidates = 20
)

// Kind tells the client how to render a reply
type Kind string

const (
	KindGreeting Kind = "greeting"
	KindTrending Kind = "trending"
	KindFAQ      Kind = "faq"
	KindFound    Kind = "found"
	KindNotFound Kind = "not_found"
	KindAskName  Kind = "ask_name"
	KindError    Kind = "error"
	KindDisabled Kind = "disabled"
)

// Store is the slice of the store the chatbot uses
type Store interface {
	TrendingContent(ctx context.Context, limit int) ([]*model.ContentItem, error)
	SearchContent(ctx context.Context, query string, limit int) ([]*model.ContentItem, error)
	CreateContentRequest(ctx context.Context, req *model.ContentRequest) error
}

// SettingsSource provides the assistant switches and FAQ entries
type SettingsSource interface {
	ChatbotSettings(ctx context.Context) (*model.ChatbotSettings, error)
	FAQs(ctx context.Context) ([]*model.FAQ, error)
}

// Result is a content item suggested in a reply
type Result struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Slug        string `json:"slug"`
	ReleaseYear int    `json:"release_year,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
	URL         string `json:"url"`
}

// Reply is the assistant's answer to one message
type Reply struct {
	Kind     Kind     `json:"kind"`
	Language Language `json:"language"`
	Text     string   `json:"text"`
	Query    string   `json:"query,omitempty"`
	Results  []Result `json:"results,omitempty"`
}

// Bot is the scripted assistant
type Bot struct {
	store       Store
	settings    SettingsSource
	resultLimit int
}

// New creates a bot. resultLimit caps search results per reply.
func New(store Store, settings SettingsSource, resultLimit int) *Bot {
	if resultLimit <= 0 {
		resultLimit = 3
	}
	return &Bot{store: store, settings: settings, resultLimit: resultLimit}
}

// Welcome returns the opening message
func (b *Bot) Welcome(ctx context.Context) (string, error) {
	s := b.loadSettings(ctx)
	if s != nil && !s.IsEnabled {
		return "", ErrDisabled
	}
	if s != nil && strings.TrimSpace(s.WelcomeMessage) != "" {
		return s.WelcomeMessage, nil
	}
	return DefaultWelcome, nil
}

func (b *Bot) loadSettings(ctx context.Context) *model.ChatbotSettings {
	if b.settings == nil {
		return nil
	}
	s, err := b.settings.ChatbotSettings(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load chatbot settings, using defaults")
		return nil
	}
	return s
}

// Reply answers a message. Intents are tried in order: recommendations,
// greeting, FAQ, then catalog search.
func (b *Bot) Reply(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if s := b.loadSettings(ctx); s != nil && !s.IsEnabled {
		return nil, ErrDisabled
	}

	lang := DetectLanguage(message)
	lower := fold(message)

	if isTrending(lower) {
		return b.trending(ctx, lang), nil
	}

	if isGreeting(lower) {
		return &Reply{Kind: KindGreeting, Language: English, Text: greetingReply}, nil
	}

	if faq := MatchFAQ(message, b.faqs(ctx)); faq != nil {
		return &Reply{Kind: KindFAQ, Language: lang, Text: faq.Answer}, nil
	}

	return b.search(ctx, message, lang), nil
}

// Trending returns the newest additions without going through intent detection
func (b *Bot) Trending(ctx context.Context) (*Reply, error) {
	if s := b.loadSettings(ctx); s != nil && !s.IsEnabled {
		return nil, ErrDisabled
	}
	return b.trending(ctx, English), nil
}

func (b *Bot) faqs(ctx context.Context) []*model.FAQ {
	if b.settings == nil {
		return nil
	}
	faqs, err := b.settings.FAQs(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load FAQs")
		return nil
	}
	return faqs
}

func (b *Bot) trending(ctx context.Context, lang Language) *Reply {
	items, err := b.store.TrendingContent(ctx, trendingLimit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load trending content")
		return &Reply{Kind: KindError, Language: lang, Text: msgError.in(lang)}
	}
	return &Reply{
		Kind:     KindTrending,
		Language: lang,
		Text:     trendingHeading + "\n" + trendingHelp,
		Results:  toResults(items),
	}
}

func (b *Bot) search(ctx context.Context, message string, lang Language) *Reply {
	query := CleanQuery(message)
	if TooShort(query) {
		return &Reply{Kind: KindAskName, Language: lang, Text: msgAskName.in(lang)}
	}

	items, err := b.store.SearchContent(ctx, query, searchCandidates)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Chat search failed")
		return &Reply{Kind: KindError, Language: lang, Text: msgError.in(lang), Query: query}
	}

	if len(items) > 0 {
		items = rank(query, items)
		if len(items) > b.resultLimit {
			items = items[:b.resultLimit]
		}
		return &Reply{
			Kind:     KindFound,
			Language: lang,
			Text:     fmt.Sprintf("%s %q:", msgFound.in(lang), query),
			Query:    query,
			Results:  toResults(items),
		}
	}

	if err := b.store.CreateContentRequest(ctx, &model.ContentRequest{ContentName: query}); err != nil {
		log.Error().Err(err).Str("query", query).Msg("Failed to log content request")
		return &Reply{Kind: KindError, Language: lang, Text: msgError.in(lang), Query: query}
	}
	log.Info().Str("query", query).Msg("Content request logged")

	text := msgNotFound.in(lang)
	if lang == English {
		text = fmt.Sprintf("%s %q", text, query)
	}
	return &Reply{Kind: KindNotFound, Language: lang, Text: text, Query: query}
}

func toResults(items []*model.ContentItem) []Result {
	out := make([]Result, 0, len(items))
	for _, it := range items {
		out = append(out, Result{
			Title:       it.Title,
			Type:        string(it.Type),
			Slug:        it.Slug,
			ReleaseYear: it.ReleaseYear,
			PosterURL:   it.PosterURL,
			URL:         resolver.ContentURL(string(it.Type), it.Slug),
		})
	}
	return out
}
