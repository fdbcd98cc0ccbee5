package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentType defines the kind of catalog entry
type ContentType string

const (
	TypeMovie  ContentType = "movie"
	TypeSeries ContentType = "series"
	TypeAnime  ContentType = "anime"
)

// ParseContentType maps a route segment to a ContentType.
// The plural "movies" is accepted for old links.
func ParseContentType(s string) (ContentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return TypeMovie, true
	case "series":
		return TypeSeries, true
	case "anime":
		return TypeAnime, true
	default:
		return "", false
	}
}

// RunningStatus defines the airing state of a series
type RunningStatus string

const (
	RunningOngoing   RunningStatus = "Ongoing"
	RunningCompleted RunningStatus = "Completed"
	RunningHiatus    RunningStatus = "Hiatus"
)

// PublishStatus values
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// ContentItem is a movie, series or anime entry in the catalog
type ContentItem struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Title         string        `gorm:"size:300;not null;index" json:"title"`
	Slug          string        `gorm:"size:300;not null;uniqueIndex:idx_content_type_slug" json:"slug"`
	Type          ContentType   `gorm:"size:20;not null;uniqueIndex:idx_content_type_slug" json:"type"`
	PosterURL     string        `gorm:"size:500" json:"poster_url,omitempty"`
	Description   string        `gorm:"type:text" json:"description,omitempty"`
	ReleaseYear   int           `json:"release_year,omitempty"`
	Language      string        `gorm:"size:100" json:"language,omitempty"`
	Source        string        `gorm:"size:100" json:"source,omitempty"`
	CastMembers   string        `gorm:"size:1000" json:"cast_members,omitempty"`
	Format        string        `gorm:"size:100" json:"format,omitempty"`
	Subtitle      string        `gorm:"size:100" json:"subtitle,omitempty"`
	TrailerURL    string        `gorm:"size:500" json:"trailer_url,omitempty"`
	Status        string        `gorm:"size:20;default:published;index" json:"status"`
	RunningStatus RunningStatus `gorm:"size:20" json:"running_status,omitempty"`
	NoticeEnabled bool          `gorm:"default:false" json:"notice_enabled"`
	NoticeText    string        `gorm:"type:text" json:"notice_text,omitempty"`
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	DownloadLinks []DownloadLink `gorm:"foreignKey:ContentID" json:"download_links,omitempty"`
	Downloads     []Download     `gorm:"foreignKey:ContentID" json:"downloads,omitempty"`
	Screenshots   []Screenshot   `gorm:"foreignKey:ContentID" json:"screenshots,omitempty"`
	Categories    []Category     `gorm:"many2many:content_categories;joinForeignKey:ContentID;joinReferences:CategoryID" json:"categories,omitempty"`
}

// TableName returns the table name for ContentItem
func (ContentItem) TableName() string {
	return "contents"
}

// BeforeCreate assigns a UUID when none is set
func (c *ContentItem) BeforeCreate(tx *gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

// IsSerial reports whether the item is organised in seasons and episodes
func (c *ContentItem) IsSerial() bool {
	return c.Type == TypeSeries || c.Type == TypeAnime
}

// Category is a genre used for browsing
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns a UUID when none is set
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

// Screenshot is an image attached to a content item
type Screenshot struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ContentID string    `gorm:"size:36;index;not null" json:"content_id"`
	ImageURL  string    `gorm:"size:500;not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for Screenshot
func (Screenshot) TableName() string {
	return "content_screenshots"
}

// BeforeCreate assigns a UUID when none is set
func (s *Screenshot) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

// Download is the legacy single-URL download row, still used for the
// quality and size summary of older entries
type Download struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ContentID string    `gorm:"size:36;index;not null" json:"content_id"`
	Quality   string    `gorm:"size:10" json:"quality"`
	FileSize  string    `gorm:"size:50" json:"file_size,omitempty"`
	FileURL   string    `gorm:"size:1000" json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for Download
func (Download) TableName() string {
	return "downloads"
}

// BeforeCreate assigns a UUID when none is set
func (d *Download) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
