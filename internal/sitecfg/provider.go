// Package sitecfg serves the admin-managed site settings (ads, Telegram
// link, chatbot switches, FAQs and notices) from a TTL cache.
package sitecfg

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Store is the slice of the store the settings cache reads
type Store interface {
	GetAppSettings(ctx context.Context) (*model.AppSettings, error)
	GetTelegramSettings(ctx context.Context) (*model.TelegramSettings, error)
	GetChatbotSettings(ctx context.Context) (*model.ChatbotSettings, error)
	ActiveFAQs(ctx context.Context) ([]*model.FAQ, error)
	ActiveNotices(ctx context.Context) ([]*model.Notice, error)
	ActiveAds(ctx context.Context) ([]*model.Ad, error)
}

// Snapshot is one consistent read of all site settings. Markup is already sanitized.
type Snapshot struct {
	App      *model.AppSettings
	Telegram *model.TelegramSettings
	Chatbot  *model.ChatbotSettings
	FAQs     []*model.FAQ
	Notices  []*model.Notice
	Ads      []*model.Ad
	LoadedAt time.Time
}

// Provider caches a Snapshot for a fixed TTL
type Provider struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu   sync.Mutex
	snap *Snapshot
}

// NewProvider creates a settings cache. A ttl of zero reloads on every call.
func NewProvider(store Store, ttl time.Duration) *Provider {
	return &Provider{store: store, ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot, reloading it once it is older than the
// TTL. When a reload fails the previous snapshot is served.
func (p *Provider) Get(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.snap != nil && p.now().Sub(p.snap.LoadedAt) < p.ttl {
		return p.snap, nil
	}

	snap, err := p.load(ctx)
	if err != nil {
		if p.snap != nil {
			log.Warn().Err(err).Time("loaded_at", p.snap.LoadedAt).Msg("Settings reload failed, serving stale snapshot")
			return p.snap, nil
		}
		return nil, err
	}
	p.snap = snap
	return snap, nil
}

// Invalidate drops the cached snapshot
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.snap = nil
	p.mu.Unlock()
}

func (p *Provider) load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.App, err = p.store.GetAppSettings(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Telegram, err = p.store.GetTelegramSettings(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Chatbot, err = p.store.GetChatbotSettings(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.FAQs, err = p.store.ActiveFAQs(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Notices, err = p.store.ActiveNotices(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Ads, err = p.store.ActiveAds(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load site settings: %w", err)
	}

	for _, n := range snap.Notices {
		n.Content = SanitizeHTML(n.Content)
		n.BgColor = SanitizeColor(n.BgColor)
		n.TextColor = SanitizeColor(n.TextColor)
	}
	for _, a := range snap.Ads {
		if !SafeURL(a.DestinationURL) {
			a.DestinationURL = ""
		}
		if !SafeURL(a.ImageURL) {
			a.ImageURL = ""
		}
	}
	if snap.Telegram != nil && !SafeURL(snap.Telegram.TelegramURL) {
		snap.Telegram.TelegramURL = ""
	}

	snap.LoadedAt = p.now()
	return snap, nil
}

// ChatbotSettings returns the cached assistant switches
func (p *Provider) ChatbotSettings(ctx context.Context) (*model.ChatbotSettings, error) {
	snap, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Chatbot, nil
}

// FAQs returns the cached active FAQ entries
func (p *Provider) FAQs(ctx context.Context) ([]*model.FAQ, error) {
	snap, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.FAQs, nil
}

// NoticeSet groups the notices shown on a page by display kind
type NoticeSet struct {
	TopBar []*model.Notice `json:"top_bar"`
	Popup  []*model.Notice `json:"popup"`
	Inline []*model.Notice `json:"inline"`
}

// NoticeShownOn reports whether a notice targets the page at path
func NoticeShownOn(n *model.Notice, path string) bool {
	switch n.Pages {
	case model.NoticeOnAll:
		return true
	case model.NoticeOnHome:
		return path == "/"
	case model.NoticeOnMovie:
		return strings.HasPrefix(path, "/movie") ||
			strings.HasPrefix(path, "/series") ||
			strings.HasPrefix(path, "/anime")
	default:
		return false
	}
}

// NoticesFor returns the notices shown on the page at path
func (s *Snapshot) NoticesFor(path string) NoticeSet {
	set := NoticeSet{TopBar: []*model.Notice{}, Popup: []*model.Notice{}, Inline: []*model.Notice{}}
	for _, n := range s.Notices {
		if !NoticeShownOn(n, path) {
			continue
		}
		switch n.Type {
		case model.NoticeTopBar:
			set.TopBar = append(set.TopBar, n)
		case model.NoticePopup:
			set.Popup = append(set.Popup, n)
		case model.NoticeInline:
			set.Inline = append(set.Inline, n)
		}
	}
	return set
}

// AdsEnabled reports whether the popunder and direct link ads are on
func (s *Snapshot) AdsEnabled() bool {
	return s.App != nil && s.App.IsAdsEnabled
}

// AdFor returns the first active ad for a placement that targets device.
// An empty device matches any target.
func (s *Snapshot) AdFor(placement string, device model.AdDevice) *model.Ad {
	for _, a := range s.Ads {
		if a.Placement != placement {
			continue
		}
		if device == "" || a.DeviceTarget == "" || a.DeviceTarget == model.DeviceBoth || a.DeviceTarget == device {
			return a
		}
	}
	return nil
}

// TelegramLink returns the community link when it is switched on
func (s *Snapshot) TelegramLink() *model.TelegramSettings {
	if s.Telegram == nil || !s.Telegram.IsActive || s.Telegram.TelegramURL == "" {
		return nil
	}
	return s.Telegram
}
