package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// LinkState is the health of a single provider URL
type LinkState string

const (
	LinkActive  LinkState = "ACTIVE"
	LinkExpired LinkState = "EXPIRED"
)

// LinkStatusMap maps a provider key to its last probe outcome.
// A missing key means the provider was never checked.
type LinkStatusMap map[string]LinkState

// Clone returns a copy that can be mutated safely
func (m LinkStatusMap) Clone() LinkStatusMap {
	out := make(LinkStatusMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ProviderURL is one {provider, url} tuple of a link row
type ProviderURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ProviderURLs is the provider set of a link row
type ProviderURLs []ProviderURL

// Get returns the first non-empty URL stored for key
func (p ProviderURLs) Get(key string) string {
	for _, pu := range p {
		if pu.Key == key {
			if u := strings.TrimSpace(pu.URL); u != "" {
				return u
			}
		}
	}
	return ""
}

// Populated returns the tuples with a non-empty URL, one per key, in stored order
func (p ProviderURLs) Populated() ProviderURLs {
	seen := make(map[string]bool, len(p))
	var out ProviderURLs
	for _, pu := range p {
		u := strings.TrimSpace(pu.URL)
		if u == "" || seen[pu.Key] {
			continue
		}
		seen[pu.Key] = true
		out = append(out, ProviderURL{Key: pu.Key, URL: u})
	}
	return out
}

// HasAny reports whether at least one provider URL is set
func (p ProviderURLs) HasAny() bool {
	for _, pu := range p {
		if strings.TrimSpace(pu.URL) != "" {
			return true
		}
	}
	return false
}

// LinkSet holds the fields shared by movie-level and episode-level link rows
type LinkSet struct {
	Resolution    string        `gorm:"size:10;not null" json:"resolution"`
	FileSize      string        `gorm:"size:50" json:"file_size,omitempty"`
	Providers     ProviderURLs  `gorm:"serializer:json;type:text" json:"providers"`
	LinkStatus    LinkStatusMap `gorm:"serializer:json;type:text" json:"link_status,omitempty"`
	LastCheckedAt *time.Time    `gorm:"index" json:"last_checked_at,omitempty"`
}

// DownloadLink is a flat per-resolution link row of a movie or
// episode-less anime
type DownloadLink struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ContentID string    `gorm:"size:36;index;not null" json:"content_id"`
	LinkSet   `gorm:"embedded"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for DownloadLink
func (DownloadLink) TableName() string {
	return "download_links"
}

// BeforeCreate assigns a UUID when none is set
func (d *DownloadLink) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

// Season groups the episodes of a serial content item
type Season struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ContentID     string    `gorm:"size:36;not null;uniqueIndex:idx_season_content_number" json:"content_id"`
	SeasonNumber  int       `gorm:"not null;uniqueIndex:idx_season_content_number" json:"season_number"`
	SeasonTitle   string    `gorm:"size:300" json:"season_title,omitempty"`
	PosterURL     string    `gorm:"size:500" json:"poster_url,omitempty"`
	SeasonZipLink string    `gorm:"size:1000" json:"season_zip_link,omitempty"`
	Episodes      []Episode `gorm:"foreignKey:SeasonID" json:"episodes"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName returns the table name for Season
func (Season) TableName() string {
	return "seasons"
}

// BeforeCreate assigns a UUID when none is set
func (s *Season) BeforeCreate(tx *gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

// Episode belongs to a season and owns its own link rows
type Episode struct {
	ID            string                `gorm:"primaryKey;size:36" json:"id"`
	SeasonID      string                `gorm:"size:36;not null;uniqueIndex:idx_episode_season_number" json:"season_id"`
	EpisodeNumber int                   `gorm:"not null;uniqueIndex:idx_episode_season_number" json:"episode_number"`
	EpisodeTitle  string                `gorm:"size:300" json:"episode_title,omitempty"`
	DownloadLinks []EpisodeDownloadLink `gorm:"foreignKey:EpisodeID" json:"download_links"`
	CreatedAt     time.Time             `json:"created_at"`
}

// TableName returns the table name for Episode
func (Episode) TableName() string {
	return "episodes"
}

// BeforeCreate assigns a UUID when none is set
func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}

// EpisodeDownloadLink is a per-resolution link row scoped to an episode
type EpisodeDownloadLink struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	EpisodeID string    `gorm:"size:36;index;not null" json:"episode_id"`
	LinkSet   `gorm:"embedded"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for EpisodeDownloadLink
func (EpisodeDownloadLink) TableName() string {
	return "episode_download_links"
}

// BeforeCreate assigns a UUID when none is set
func (e *EpisodeDownloadLink) BeforeCreate(tx *gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}
