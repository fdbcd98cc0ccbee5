package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/resolver"
	"golang.org/x/sync/errgroup"
)

const (
	HomeRowSize   = 12
	SearchLimit   = 50
	RelatedLimit  = 10
	minQueryRunes = 1
)

// Store is the read side of the catalog
type Store interface {
	LatestByType(ctx context.Context, contentType model.ContentType, limit int) ([]*model.ContentItem, error)
	SearchContent(ctx context.Context, query string, limit int) ([]*model.ContentItem, error)
	RelatedContent(ctx context.Context, contentType model.ContentType, excludeID string, limit int) ([]*model.ContentItem, error)
	ContentByCategory(ctx context.Context, categorySlug string) (*model.Category, []*model.ContentItem, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	SitemapEntries(ctx context.Context) ([]*model.ContentItem, error)
}

// Home is the landing page feed
type Home struct {
	Movies     []*model.ContentItem `json:"movies"`
	Series     []*model.ContentItem `json:"series"`
	Anime      []*model.ContentItem `json:"anime"`
	Categories []*model.Category    `json:"categories"`
}

// Genre is a category page
type Genre struct {
	Category *model.Category      `json:"category"`
	Items    []*model.ContentItem `json:"items"`
}

// Service serves browse pages
type Service struct {
	store Store
}

// NewService creates a catalog service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Home loads the three newest rows and the genre list concurrently
func (s *Service) Home(ctx context.Context) (*Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)

	rows := []struct {
		typ  model.ContentType
		dest *[]*model.ContentItem
	}{
		{model.TypeMovie, &home.Movies},
		{model.TypeSeries, &home.Series},
		{model.TypeAnime, &home.Anime},
	}
	for _, row := range rows {
		row := row
		g.Go(func() error {
			items, err := s.store.LatestByType(gctx, row.typ, HomeRowSize)
			if err != nil {
				return err
			}
			*row.dest = items
			return nil
		})
	}
	g.Go(func() error {
		cats, err := s.store.ListCategories(gctx)
		if err != nil {
			return err
		}
		home.Categories = cats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load home feed: %w", err)
	}
	return &home, nil
}

// List returns every item of a type, newest first
func (s *Service) List(ctx context.Context, typeSegment string) ([]*model.ContentItem, error) {
	typ, ok := model.ParseContentType(typeSegment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", resolver.ErrUnknownType, typeSegment)
	}
	items, err := s.store.LatestByType(ctx, typ, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", typ, err)
	}
	return items, nil
}

// Search matches titles. A blank query returns no results.
func (s *Service) Search(ctx context.Context, query string) ([]*model.ContentItem, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryRunes {
		return []*model.ContentItem{}, nil
	}
	items, err := s.store.SearchContent(ctx, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return items, nil
}

// Genre returns a category and its items
func (s *Service) Genre(ctx context.Context, slug string) (*Genre, error) {
	cat, items, err := s.store.ContentByCategory(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, fmt.Errorf("failed to load genre: %w", err)
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: genre %q", resolver.ErrNotFound, slug)
	}
	if items == nil {
		items = []*model.ContentItem{}
	}
	return &Genre{Category: cat, Items: items}, nil
}

// Related returns other items of the same type, never the item itself
func (s *Service) Related(ctx context.Context, typeSegment, excludeID string) ([]*model.ContentItem, error) {
	typ, ok := model.ParseContentType(typeSegment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", resolver.ErrUnknownType, typeSegment)
	}
	items, err := s.store.RelatedContent(ctx, typ, excludeID, RelatedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load related: %w", err)
	}
	out := make([]*model.ContentItem, 0, len(items))
	for _, it := range items {
		if it.ID != excludeID {
			out = append(out, it)
		}
	}
	return out, nil
}
