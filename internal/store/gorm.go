package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nexiplay/nexiplay-go/internal/config"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements Store on top of gorm (MySQL or Postgres)
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to the configured database, retrying while it wakes up,
// and migrates the schema
func NewGormStore(cfg *config.DBConfig) (*GormStore, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var db *gorm.DB
	err := retry.Do(
		func() error {
			var openErr error
			db, openErr = gorm.Open(dialector(cfg), gormConfig)
			if openErr != nil {
				return openErr
			}
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				return dbErr
			}
			return sqlDB.Ping()
		},
		retry.Attempts(max1(cfg.ConnectAttempts)),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("driver", cfg.Driver).Msg("Database not reachable, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStoreFromDB wraps an already opened gorm handle
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func dialector(cfg *config.DBConfig) gorm.Dialector {
	if cfg.Driver == "mysql" {
		return mysql.Open(cfg.DSN())
	}
	return postgres.Open(cfg.DSN())
}

func max1(n uint) uint {
	if n == 0 {
		return 1
	}
	return n
}

// staleOrder puts never-checked rows first, then the oldest checks.
// Expressed without NULLS FIRST so it works on both MySQL and Postgres.
func staleOrder(db *gorm.DB) *gorm.DB {
	return db.
		Order("last_checked_at IS NULL DESC").
		Order("last_checked_at ASC").
		Order("created_at ASC").
		Order("id ASC")
}

// StaleDownloadLinks returns up to limit flat link rows in staleness order
func (s *GormStore) StaleDownloadLinks(ctx context.Context, limit int) ([]*model.DownloadLink, error) {
	var rows []*model.DownloadLink
	result := s.db.WithContext(ctx).Scopes(staleOrder).Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get stale download links: %w", result.Error)
	}
	return rows, nil
}

// StaleEpisodeLinks returns up to limit episode link rows in staleness order
func (s *GormStore) StaleEpisodeLinks(ctx context.Context, limit int) ([]*model.EpisodeDownloadLink, error) {
	var rows []*model.EpisodeDownloadLink
	result := s.db.WithContext(ctx).Scopes(staleOrder).Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get stale episode links: %w", result.Error)
	}
	return rows, nil
}

// UpdateDownloadLinkStatus writes link_status and last_checked_at in one UPDATE
func (s *GormStore) UpdateDownloadLinkStatus(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.DownloadLink{ID: id}).
		Select("link_status", "last_checked_at").
		Updates(&model.DownloadLink{LinkSet: model.LinkSet{LinkStatus: status, LastCheckedAt: &checkedAt}})
	if result.Error != nil {
		return fmt.Errorf("failed to update download link %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.requireRow(ctx, &model.DownloadLink{}, id, "download link")
	}
	return nil
}

// UpdateEpisodeLinkStatus writes link_status and last_checked_at in one UPDATE
func (s *GormStore) UpdateEpisodeLinkStatus(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&model.EpisodeDownloadLink{ID: id}).
		Select("link_status", "last_checked_at").
		Updates(&model.EpisodeDownloadLink{LinkSet: model.LinkSet{LinkStatus: status, LastCheckedAt: &checkedAt}})
	if result.Error != nil {
		return fmt.Errorf("failed to update episode link %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return s.requireRow(ctx, &model.EpisodeDownloadLink{}, id, "episode link")
	}
	return nil
}

// requireRow separates a missing row from an UPDATE that changed nothing.
// MySQL reports changed rows, so rewriting identical values affects zero.
func (s *GormStore) requireRow(ctx context.Context, table interface{}, id, kind string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up %s %s: %w", kind, id, err)
	}
	if count == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return nil
}

// GetContent loads a content item with its flat links, legacy downloads,
// screenshots and categories. Returns nil when no item matches.
func (s *GormStore) GetContent(ctx context.Context, contentType model.ContentType, slug string) (*model.ContentItem, error) {
	var item model.ContentItem
	result := s.db.WithContext(ctx).
		Preload("DownloadLinks").
		Preload("Downloads").
		Preload("Screenshots").
		Preload("Categories").
		Where("slug = ? AND type = ?", slug, contentType).
		First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content: %w", result.Error)
	}
	return &item, nil
}

// GetContentByID loads a content item without relations. Returns nil when missing.
func (s *GormStore) GetContentByID(ctx context.Context, id string) (*model.ContentItem, error) {
	var item model.ContentItem
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content by id: %w", result.Error)
	}
	return &item, nil
}

// GetSeasons loads seasons ordered by number, each with ordered episodes and their links
func (s *GormStore) GetSeasons(ctx context.Context, contentID string) ([]*model.Season, error) {
	var seasons []*model.Season
	result := s.db.WithContext(ctx).
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episode_number ASC")
		}).
		Preload("Episodes.DownloadLinks").
		Where("content_id = ?", contentID).
		Order("season_number ASC").
		Find(&seasons)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get seasons: %w", result.Error)
	}
	return seasons, nil
}

// LatestByType returns the newest items of a type
func (s *GormStore) LatestByType(ctx context.Context, contentType model.ContentType, limit int) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	q := s.db.WithContext(ctx).
		Where("type = ?", contentType).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get latest %s: %w", contentType, err)
	}
	return items, nil
}

// TrendingContent returns the newest published items of any type
func (s *GormStore) TrendingContent(ctx context.Context, limit int) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	result := s.db.WithContext(ctx).
		Where("status = ?", model.StatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get trending content: %w", result.Error)
	}
	return items, nil
}

// SearchContent matches a case-insensitive substring of the title
func (s *GormStore) SearchContent(ctx context.Context, query string, limit int) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	result := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search content: %w", result.Error)
	}
	return items, nil
}

// escapeLike escapes LIKE wildcards using the default backslash escape
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// RelatedContent returns other items of the same type
func (s *GormStore) RelatedContent(ctx context.Context, contentType model.ContentType, excludeID string, limit int) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	result := s.db.WithContext(ctx).
		Where("type = ? AND id <> ?", contentType, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get related content: %w", result.Error)
	}
	return items, nil
}

// ContentByCategory returns the category and its items. The category is nil when unknown.
func (s *GormStore) ContentByCategory(ctx context.Context, categorySlug string) (*model.Category, []*model.ContentItem, error) {
	var cat model.Category
	result := s.db.WithContext(ctx).Where("slug = ?", categorySlug).First(&cat)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get category: %w", result.Error)
	}

	var items []*model.ContentItem
	result = s.db.WithContext(ctx).
		Joins("JOIN content_categories cc ON cc.content_id = contents.id").
		Where("cc.category_id = ?", cat.ID).
		Order("contents.created_at DESC").
		Find(&items)
	if result.Error != nil {
		return nil, nil, fmt.Errorf("failed to get content by category: %w", result.Error)
	}
	return &cat, items, nil
}

// ListCategories returns all categories by name
func (s *GormStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var cats []*model.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}

// SitemapEntries returns slug, type and updated_at of every item
func (s *GormStore) SitemapEntries(ctx context.Context) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	result := s.db.WithContext(ctx).
		Select("id", "slug", "type", "updated_at").
		Order("updated_at DESC").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get sitemap entries: %w", result.Error)
	}
	return items, nil
}

// GetAppSettings returns the singleton row, or nil when not configured
func (s *GormStore) GetAppSettings(ctx context.Context) (*model.AppSettings, error) {
	var settings model.AppSettings
	if err := s.singleton(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to get app settings: %w", err)
	}
	if settings.ID == 0 {
		return nil, nil
	}
	return &settings, nil
}

// GetTelegramSettings returns the singleton row, or nil when not configured
func (s *GormStore) GetTelegramSettings(ctx context.Context) (*model.TelegramSettings, error) {
	var settings model.TelegramSettings
	if err := s.singleton(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to get telegram settings: %w", err)
	}
	if settings.ID == 0 {
		return nil, nil
	}
	return &settings, nil
}

// GetChatbotSettings returns the singleton row, or nil when not configured
func (s *GormStore) GetChatbotSettings(ctx context.Context) (*model.ChatbotSettings, error) {
	var settings model.ChatbotSettings
	if err := s.singleton(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to get chatbot settings: %w", err)
	}
	if settings.ID == 0 {
		return nil, nil
	}
	return &settings, nil
}

// singleton loads row id 1 into dest, leaving it zero when missing
func (s *GormStore) singleton(ctx context.Context, dest interface{}) error {
	result := s.db.WithContext(ctx).Where("id = ?", model.SingletonID).Limit(1).Find(dest)
	return result.Error
}

// ActiveFAQs returns enabled FAQ entries
func (s *GormStore) ActiveFAQs(ctx context.Context) ([]*model.FAQ, error) {
	var faqs []*model.FAQ
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&faqs).Error; err != nil {
		return nil, fmt.Errorf("failed to get faqs: %w", err)
	}
	return faqs, nil
}

// SeedFAQs inserts faqs only when the table is empty and returns how many were written
func (s *GormStore) SeedFAQs(ctx context.Context, faqs []*model.FAQ) (int, error) {
	if len(faqs) == 0 {
		return 0, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.FAQ{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count faqs: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).CreateInBatches(faqs, 100)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to seed faqs: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// ActiveNotices returns enabled notices
func (s *GormStore) ActiveNotices(ctx context.Context) ([]*model.Notice, error) {
	var notices []*model.Notice
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to get notices: %w", err)
	}
	return notices, nil
}

// ActiveAds returns enabled ad units
func (s *GormStore) ActiveAds(ctx context.Context) ([]*model.Ad, error) {
	var ads []*model.Ad
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("failed to get ads: %w", err)
	}
	return ads, nil
}

// CreateContentRequest logs a request for a missing title
func (s *GormStore) CreateContentRequest(ctx context.Context, req *model.ContentRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create content request: %w", err)
	}
	return nil
}

// CreateComment stores a visitor comment
func (s *GormStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ApprovedComments returns approved comments for an item, newest first
func (s *GormStore) ApprovedComments(ctx context.Context, contentID string) ([]*model.Comment, error) {
	var comments []*model.Comment
	result := s.db.WithContext(ctx).
		Where("content_id = ? AND is_approved = ?", contentID, true).
		Order("created_at DESC").
		Find(&comments)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get comments: %w", result.Error)
	}
	return comments, nil
}

// CreateDMCARequest stores a takedown notice
func (s *GormStore) CreateDMCARequest(ctx context.Context, req *model.DMCARequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create dmca request: %w", err)
	}
	return nil
}

// CreateContactMessage stores a contact form message
func (s *GormStore) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// CreateLinkReport stores a broken link report
func (s *GormStore) CreateLinkReport(ctx context.Context, report *model.LinkReport) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create link report: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying gorm.DB instance (for testing purposes)
func (s *GormStore) DB() *gorm.DB {
	return s.db
}
