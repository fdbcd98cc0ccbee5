package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/selector"
)

var (
	// ErrNotFound is returned when no item matches both type and slug
	ErrNotFound = errors.New("content not found")
	// ErrUnknownType is returned for a type segment other than movie, series or anime
	ErrUnknownType = errors.New("unknown content type")
)

// ContentStore is the slice of the store the resolver reads
type ContentStore interface {
	GetContent(ctx context.Context, contentType model.ContentType, slug string) (*model.ContentItem, error)
	GetSeasons(ctx context.Context, contentID string) ([]*model.Season, error)
}

// Document is a content item with everything a detail page needs
type Document struct {
	Item       *model.ContentItem `json:"item"`
	Seasons    []*model.Season    `json:"seasons,omitempty"`
	URL        string             `json:"url"`
	Categories string             `json:"categories"`
	Qualities  string             `json:"qualities"`
	Sizes      string             `json:"sizes"`
}

// LinkSets returns the flat link rows of the item
func (d *Document) LinkSets() []model.LinkSet {
	return selector.FlatSets(d.Item.DownloadLinks)
}

// Resolver turns a (type, slug) pair into a Document
type Resolver struct {
	store ContentStore
}

// New creates a resolver
func New(store ContentStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve loads the item identified by typeSegment and slug. Serial items
// also get their seasons, episodes and episode links, ordered by number.
func (r *Resolver) Resolve(ctx context.Context, typeSegment, slug string) (*Document, error) {
	contentType, ok := model.ParseContentType(typeSegment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeSegment)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}

	item, err := r.store.GetContent(ctx, contentType, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	doc := &Document{
		Item:       item,
		URL:        ContentURL(string(item.Type), item.Slug),
		Categories: categoryNames(item.Categories),
	}
	sets := selector.FlatSets(item.DownloadLinks)
	doc.Qualities = selector.QualitySummary(item.Downloads, sets)
	doc.Sizes = selector.SizeSummary(item.Downloads, sets)

	if item.IsSerial() {
		seasons, err := r.store.GetSeasons(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load seasons: %w", err)
		}
		sortSeasons(seasons)
		doc.Seasons = seasons
	}

	return doc, nil
}

func categoryNames(cats []model.Category) string {
	if len(cats) == 0 {
		return "N/A"
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// ContentURL builds the canonical path of an item. The plural "movies" maps to "movie".
func ContentURL(contentType, slug string) string {
	segment := contentType
	if segment == "movies" {
		segment = string(model.TypeMovie)
	}
	return "/" + segment + "/" + slug
}
