package forms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
	"github.com/rs/zerolog/log"
)

// ErrInvalid is returned when a submission fails validation
var ErrInvalid = errors.New("invalid submission")

// Store is the persistence the form handlers need
type Store interface {
	GetContentByID(ctx context.Context, id string) (*model.ContentItem, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	ApprovedComments(ctx context.Context, contentID string) ([]*model.Comment, error)
	CreateDMCARequest(ctx context.Context, req *model.DMCARequest) error
	CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error
	CreateLinkReport(ctx context.Context, report *model.LinkReport) error
}

// ReportNotifier is told about every accepted link report
type ReportNotifier interface {
	NotifyLinkReport(ctx context.Context, report *model.LinkReport, item *model.ContentItem) error
}

// CommentInput is a visitor comment submission
type CommentInput struct {
	ContentID string `json:"content_id" validate:"required,max=36"`
	Name      string `json:"name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=200"`
	Message   string `json:"message" validate:"required,max=2000"`
}

// DMCAInput is a takedown notice submission
type DMCAInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Company        string `json:"company" validate:"max=200"`
	Email          string `json:"email" validate:"required,email,max=200"`
	OriginalLink   string `json:"original_link" validate:"required,url,max=1000"`
	InfringingLink string `json:"infringing_link" validate:"required,url,max=1000"`
	ProofLink      string `json:"proof_link" validate:"omitempty,url,max=1000"`
	Message        string `json:"message" validate:"max=5000"`
	Attested       bool   `json:"attested" validate:"eq=true"`
}

// ContactInput is a contact form submission
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=200"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}

// LinkReportInput reports a broken download link
type LinkReportInput struct {
	ContentID  string `json:"content_id" validate:"required,max=36"`
	EpisodeID  string `json:"episode_id" validate:"max=36"`
	Resolution string `json:"resolution" validate:"required,resolution"`
	Provider   string `json:"provider" validate:"required,provider"`
	Note       string `json:"note" validate:"max=500"`
}

// Service validates and persists visitor submissions
type Service struct {
	store    Store
	notifier ReportNotifier
	validate *validator.Validate
}

// NewService creates a form service. notifier may be nil.
func NewService(store Store, notifier ReportNotifier) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	mustRegister(v, "resolution", func(fl validator.FieldLevel) bool {
		_, ok := provider.ParseResolution(fl.Field().String())
		return ok
	})
	mustRegister(v, "provider", func(fl validator.FieldLevel) bool {
		_, ok := provider.Lookup(fl.Field().String())
		return ok
	})
	return &Service{store: store, notifier: notifier, validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("forms: register %q validator: %v", tag, err))
	}
}

// check trims every string field in place, then validates the struct
func (s *Service) check(input interface{}, fields ...*string) error {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %s", ErrInvalid, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// SubmitComment stores a comment. Comments are published immediately.
func (s *Service) SubmitComment(ctx context.Context, in CommentInput) (*model.Comment, error) {
	if err := s.check(&in, &in.ContentID, &in.Name, &in.Email, &in.Message); err != nil {
		return nil, err
	}
	item, err := s.store.GetContentByID(ctx, in.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: unknown content", ErrInvalid)
	}

	comment := &model.Comment{
		ContentID:  in.ContentID,
		Name:       in.Name,
		Email:      in.Email,
		Message:    in.Message,
		IsApproved: true,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

// Comments lists approved comments for a content item, newest first
func (s *Service) Comments(ctx context.Context, contentID string) ([]*model.Comment, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, fmt.Errorf("%w: content id is required", ErrInvalid)
	}
	comments, err := s.store.ApprovedComments(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return comments, nil
}

// SubmitDMCA stores a takedown notice
func (s *Service) SubmitDMCA(ctx context.Context, in DMCAInput) (*model.DMCARequest, error) {
	if err := s.check(&in, &in.Name, &in.Company, &in.Email, &in.OriginalLink,
		&in.InfringingLink, &in.ProofLink, &in.Message); err != nil {
		return nil, err
	}
	req := &model.DMCARequest{
		Name:           in.Name,
		Company:        in.Company,
		Email:          in.Email,
		OriginalLink:   in.OriginalLink,
		InfringingLink: in.InfringingLink,
		ProofLink:      in.ProofLink,
		Message:        in.Message,
	}
	if err := s.store.CreateDMCARequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save dmca request: %w", err)
	}
	log.Info().Str("id", req.ID).Str("infringing", req.InfringingLink).Msg("DMCA request received")
	return req, nil
}

// SubmitContact stores a contact message
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (*model.ContactMessage, error) {
	if err := s.check(&in, &in.Name, &in.Email, &in.Subject, &in.Message); err != nil {
		return nil, err
	}
	msg := &model.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return msg, nil
}

// SubmitLinkReport stores a broken link report and alerts the admin chat.
// A failed alert does not fail the report.
func (s *Service) SubmitLinkReport(ctx context.Context, in LinkReportInput) (*model.LinkReport, error) {
	if err := s.check(&in, &in.ContentID, &in.EpisodeID, &in.Resolution, &in.Provider, &in.Note); err != nil {
		return nil, err
	}
	item, err := s.store.GetContentByID(ctx, in.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: unknown content", ErrInvalid)
	}

	res, _ := provider.ParseResolution(in.Resolution)
	report := &model.LinkReport{
		ContentID:  in.ContentID,
		EpisodeID:  in.EpisodeID,
		Resolution: string(res),
		Provider:   in.Provider,
		Note:       in.Note,
	}
	if err := s.store.CreateLinkReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save link report: %w", err)
	}

	log.Info().
		Str("content", item.Slug).
		Str("resolution", report.Resolution).
		Str("provider", report.Provider).
		Msg("Link report received")

	if s.notifier != nil {
		if err := s.notifier.NotifyLinkReport(ctx, report, item); err != nil {
			log.Warn().Err(err).Str("report", report.ID).Msg("Failed to send link report alert")
		}
	}
	return report, nil
}
