package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContentStore struct {
	items      map[string]*model.ContentItem // key: type/slug
	seasons    map[string][]*model.Season
	err        error
	seasonCall int
}

func (f *fakeContentStore) GetContent(ctx context.Context, contentType model.ContentType, slug string) (*model.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[string(contentType)+"/"+slug], nil
}

func (f *fakeContentStore) GetSeasons(ctx context.Context, contentID string) ([]*model.Season, error) {
	f.seasonCall++
	return f.seasons[contentID], nil
}

func newFake() *fakeContentStore {
	return &fakeContentStore{
		items: map[string]*model.ContentItem{
			"movie/inception": {
				ID: "m1", Type: model.TypeMovie, Slug: "inception", Title: "Inception",
				Categories: []model.Category{{Name: "Sci-Fi"}, {Name: "Thriller"}},
				DownloadLinks: []model.DownloadLink{{LinkSet: model.LinkSet{
					Resolution: "720p", FileSize: "1GB",
					Providers: model.ProviderURLs{{Key: "mega_link", URL: "https://mega.example/i"}},
				}}},
			},
			"series/dark": {ID: "s1", Type: model.TypeSeries, Slug: "dark", RunningStatus: model.RunningOngoing},
		},
		seasons: map[string][]*model.Season{
			"s1": {
				{SeasonNumber: 2, Episodes: []model.Episode{{EpisodeNumber: 2}, {EpisodeNumber: 1}}},
				{SeasonNumber: 1, Episodes: []model.Episode{{EpisodeNumber: 4}, {EpisodeNumber: 1}, {EpisodeNumber: 2}}},
			},
		},
	}
}

func TestResolve_Movie(t *testing.T) {
	st := newFake()
	doc, err := New(st).Resolve(context.Background(), "movies", "inception")
	require.NoError(t, err)

	assert.Equal(t, "Inception", doc.Item.Title)
	assert.Equal(t, "/movie/inception", doc.URL)
	assert.Equal(t, "Sci-Fi, Thriller", doc.Categories)
	assert.Equal(t, "720p", doc.Qualities)
	assert.Equal(t, "1GB", doc.Sizes)
	assert.Empty(t, doc.Seasons)
	assert.Zero(t, st.seasonCall, "movies do not load seasons")
	assert.Len(t, doc.LinkSets(), 1)
}

func TestResolve_SeriesOrdersSeasonsAndEpisodes(t *testing.T) {
	doc, err := New(newFake()).Resolve(context.Background(), "series", "dark")
	require.NoError(t, err)

	require.Len(t, doc.Seasons, 2)
	assert.Equal(t, 1, doc.Seasons[0].SeasonNumber)
	assert.Equal(t, 2, doc.Seasons[1].SeasonNumber)

	var nums []int
	for _, e := range doc.Seasons[0].Episodes {
		nums = append(nums, e.EpisodeNumber)
	}
	assert.Equal(t, []int{1, 2, 4}, nums, "gaps are passed through")
}

func TestResolve_NotFound(t *testing.T) {
	_, err := New(newFake()).Resolve(context.Background(), "anime", "inception")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = New(newFake()).Resolve(context.Background(), "movie", "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_UnknownType(t *testing.T) {
	_, err := New(newFake()).Resolve(context.Background(), "podcast", "inception")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestResolve_StoreError(t *testing.T) {
	st := newFake()
	st.err = errors.New("connection refused")
	_, err := New(st).Resolve(context.Background(), "movie", "inception")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestIsNew_LatestInSelectedSeason(t *testing.T) {
	item := &model.ContentItem{RunningStatus: model.RunningOngoing}
	season := &model.Season{SeasonNumber: 1, Episodes: []model.Episode{
		{EpisodeNumber: 1}, {EpisodeNumber: 2}, {EpisodeNumber: 4},
	}}

	assert.True(t, IsNew(item, season, FindEpisode(season, 4)))
	assert.False(t, IsNew(item, season, FindEpisode(season, 2)))
	assert.Equal(t, 4, LatestEpisode(season).EpisodeNumber)

	item.RunningStatus = model.RunningCompleted
	assert.False(t, IsNew(item, season, FindEpisode(season, 4)))
}

func TestIsNew_ScopedToSeason(t *testing.T) {
	item := &model.ContentItem{RunningStatus: model.RunningOngoing}
	s1 := &model.Season{SeasonNumber: 1, Episodes: []model.Episode{{EpisodeNumber: 1}, {EpisodeNumber: 10}}}
	s2 := &model.Season{SeasonNumber: 2, Episodes: []model.Episode{{EpisodeNumber: 1}, {EpisodeNumber: 3}}}

	assert.True(t, IsNew(item, s2, FindEpisode(s2, 3)))
	assert.True(t, IsNew(item, s1, FindEpisode(s1, 10)))
	assert.False(t, IsNew(item, s2, FindEpisode(s2, 1)))
}

func TestFindSeason(t *testing.T) {
	seasons := []*model.Season{{SeasonNumber: 1}, {SeasonNumber: 3}}
	assert.Equal(t, 1, FindSeason(seasons, 0).SeasonNumber)
	assert.Equal(t, 3, FindSeason(seasons, 3).SeasonNumber)
	assert.Nil(t, FindSeason(seasons, 2))
	assert.Nil(t, FindSeason(nil, 0))
	assert.Nil(t, LatestEpisode(nil))
	assert.Nil(t, FindEpisode(nil, 1))
}

func TestContentURL(t *testing.T) {
	assert.Equal(t, "/movie/x", ContentURL("movies", "x"))
	assert.Equal(t, "/anime/y", ContentURL("anime", "y"))
}
