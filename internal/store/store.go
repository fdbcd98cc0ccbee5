package store

import (
	"context"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/model"
)

// Store defines the interface for data persistence operations
type Store interface {
	// Link health operations
	StaleDownloadLinks(ctx context.Context, limit int) ([]*model.DownloadLink, error)
	StaleEpisodeLinks(ctx context.Context, limit int) ([]*model.EpisodeDownloadLink, error)
	UpdateDownloadLinkStatus(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error
	UpdateEpisodeLinkStatus(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error

	// Content operations
	GetContent(ctx context.Context, contentType model.ContentType, slug string) (*model.ContentItem, error)
	GetContentByID(ctx context.Context, id string) (*model.ContentItem, error)
	GetSeasons(ctx context.Context, contentID string) ([]*model.Season, error)
	LatestByType(ctx context.Context, contentType model.ContentType, limit int) ([]*model.ContentItem, error)
	TrendingContent(ctx context.Context, limit int) ([]*model.ContentItem, error)
	SearchContent(ctx context.Context, query string, limit int) ([]*model.ContentItem, error)
	RelatedContent(ctx context.Context, contentType model.ContentType, excludeID string, limit int) ([]*model.ContentItem, error)
	ContentByCategory(ctx context.Context, categorySlug string) (*model.Category, []*model.ContentItem, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	SitemapEntries(ctx context.Context) ([]*model.ContentItem, error)

	// Site settings operations
	GetAppSettings(ctx context.Context) (*model.AppSettings, error)
	GetTelegramSettings(ctx context.Context) (*model.TelegramSettings, error)
	GetChatbotSettings(ctx context.Context) (*model.ChatbotSettings, error)
	ActiveFAQs(ctx context.Context) ([]*model.FAQ, error)
	SeedFAQs(ctx context.Context, faqs []*model.FAQ) (int, error)
	ActiveNotices(ctx context.Context) ([]*model.Notice, error)
	ActiveAds(ctx context.Context) ([]*model.Ad, error)

	// Submission operations
	CreateContentRequest(ctx context.Context, req *model.ContentRequest) error
	CreateComment(ctx context.Context, comment *model.Comment) error
	ApprovedComments(ctx context.Context, contentID string) ([]*model.Comment, error)
	CreateDMCARequest(ctx context.Context, req *model.DMCARequest) error
	CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error
	CreateLinkReport(ctx context.Context, report *model.LinkReport) error

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
