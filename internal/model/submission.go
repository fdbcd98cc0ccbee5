package model

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus defines the review state of a content request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAdded    RequestStatus = "added"
	RequestRejected RequestStatus = "rejected"
)

// ContentRequest is logged when a visitor asks for a title we do not have
type ContentRequest struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	ContentName string        `gorm:"size:300;not null" json:"content_name"`
	Status      RequestStatus `gorm:"size:20;default:pending;index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// TableName returns the table name for ContentRequest
func (ContentRequest) TableName() string {
	return "content_requests"
}

// BeforeCreate assigns a UUID when none is set
func (r *ContentRequest) BeforeCreate(tx *gorm.DB) error {
	r.ID = ensureID(r.ID)
	if r.Status == "" {
		r.Status = RequestPending
	}
	return nil
}

// Comment is a visitor comment on a content item
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ContentID  string    `gorm:"size:36;index;not null" json:"content_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:200" json:"email,omitempty"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsApproved bool      `gorm:"default:false;index" json:"is_approved"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a UUID when none is set
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}

// DMCARequest is a takedown notice
type DMCARequest struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Company        string    `gorm:"size:200" json:"company,omitempty"`
	Email          string    `gorm:"size:200;not null" json:"email"`
	OriginalLink   string    `gorm:"size:1000" json:"original_link"`
	InfringingLink string    `gorm:"size:1000;not null" json:"infringing_link"`
	ProofLink      string    `gorm:"size:1000" json:"proof_link,omitempty"`
	Message        string    `gorm:"type:text" json:"message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the table name for DMCARequest
func (DMCARequest) TableName() string {
	return "dmca_requests"
}

// BeforeCreate assigns a UUID when none is set
func (d *DMCARequest) BeforeCreate(tx *gorm.DB) error {
	d.ID = ensureID(d.ID)
	return nil
}

// ContactMessage is a message sent through the contact form
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"size:200;not null" json:"email"`
	Subject   string    `gorm:"size:300" json:"subject,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// BeforeCreate assigns a UUID when none is set
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	m.ID = ensureID(m.ID)
	return nil
}

// LinkReport is raised when a visitor reports an expired download link
type LinkReport struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ContentID  string    `gorm:"size:36;index;not null" json:"content_id"`
	EpisodeID  string    `gorm:"size:36" json:"episode_id,omitempty"`
	Resolution string    `gorm:"size:10" json:"resolution"`
	Provider   string    `gorm:"size:50;not null" json:"provider"`
	Note       string    `gorm:"size:500" json:"note,omitempty"`
	Resolved   bool      `gorm:"default:false;index" json:"resolved"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name for LinkReport
func (LinkReport) TableName() string {
	return "link_reports"
}

// BeforeCreate assigns a UUID when none is set
func (r *LinkReport) BeforeCreate(tx *gorm.DB) error {
	r.ID = ensureID(r.ID)
	return nil
}

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&ContentItem{}, &Category{}, &Screenshot{}, &Download{},
		&DownloadLink{}, &Season{}, &Episode{}, &EpisodeDownloadLink{},
		&AppSettings{}, &TelegramSettings{}, &ChatbotSettings{}, &FAQ{},
		&Notice{}, &Ad{},
		&ContentRequest{}, &Comment{}, &DMCARequest{}, &ContactMessage{}, &LinkReport{},
	}
}
