package model

import (
	"time"

	"gorm.io/gorm"
)

// SingletonID is the primary key of the single-row settings tables
const SingletonID = 1

// AppSettings holds the site-wide ad switches
type AppSettings struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	IsAdsEnabled  bool      `gorm:"default:false" json:"is_ads_enabled"`
	PopunderURL   string    `gorm:"size:1000" json:"popunder_url,omitempty"`
	DirectLinkURL string    `gorm:"size:1000" json:"direct_link_url,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the table name for AppSettings
func (AppSettings) TableName() string {
	return "app_settings"
}

// TelegramKind defines what the community link points to
type TelegramKind string

const (
	TelegramGroup   TelegramKind = "group"
	TelegramChannel TelegramKind = "channel"
)

// TelegramSettings holds the community call-to-action link
type TelegramSettings struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	TelegramType TelegramKind `gorm:"size:20" json:"telegram_type"`
	TelegramURL  string       `gorm:"size:500" json:"telegram_url"`
	IsActive     bool         `gorm:"default:false" json:"is_active"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName returns the table name for TelegramSettings
func (TelegramSettings) TableName() string {
	return "telegram_settings"
}

// ChatbotSettings holds the assistant switches
type ChatbotSettings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	WelcomeMessage string    `gorm:"type:text" json:"welcome_message"`
	IsEnabled      bool      `gorm:"default:true" json:"is_enabled"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the table name for ChatbotSettings
func (ChatbotSettings) TableName() string {
	return "chatbot_settings"
}

// FAQ is a scripted chatbot answer matched by comma-separated keywords
type FAQ struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"size:500" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Keywords  string    `gorm:"size:1000" json:"keywords"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for FAQ
func (FAQ) TableName() string {
	return "faqs"
}

// NoticeKind defines how a notice is displayed
type NoticeKind string

const (
	NoticeTopBar NoticeKind = "top_bar"
	NoticePopup  NoticeKind = "popup"
	NoticeInline NoticeKind = "inline"
)

// NoticePages defines where a notice is displayed
type NoticePages string

const (
	NoticeOnAll   NoticePages = "all"
	NoticeOnHome  NoticePages = "home"
	NoticeOnMovie NoticePages = "movie"
)

// Notice is an admin-authored banner
type Notice struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	Content   string      `gorm:"type:text" json:"content"`
	Type      NoticeKind  `gorm:"size:20" json:"type"`
	Pages     NoticePages `gorm:"size:20" json:"pages"`
	IsActive  bool        `gorm:"default:true;index" json:"is_active"`
	BgColor   string      `gorm:"size:50" json:"bg_color,omitempty"`
	TextColor string      `gorm:"size:50" json:"text_color,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName returns the table name for Notice
func (Notice) TableName() string {
	return "notices"
}

// BeforeCreate assigns a UUID when none is set
func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	n.ID = ensureID(n.ID)
	return nil
}

// AdDevice defines which devices an ad targets
type AdDevice string

const (
	DeviceDesktop AdDevice = "desktop"
	DeviceMobile  AdDevice = "mobile"
	DeviceBoth    AdDevice = "both"
)

// Ad is an image or script ad unit bound to a placement
type Ad struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Title          string    `gorm:"size:200" json:"title"`
	Placement      string    `gorm:"size:50;index" json:"placement"`
	AdType         string    `gorm:"size:20" json:"ad_type"`
	ImageURL       string    `gorm:"size:1000" json:"image_url,omitempty"`
	ScriptCode     string    `gorm:"type:text" json:"script_code,omitempty"`
	DestinationURL string    `gorm:"size:1000" json:"destination_url,omitempty"`
	DeviceTarget   AdDevice  `gorm:"size:20;default:both" json:"device_target"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for Ad
func (Ad) TableName() string {
	return "ads"
}

// BeforeCreate assigns a UUID when none is set
func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	a.ID = ensureID(a.ID)
	return nil
}
