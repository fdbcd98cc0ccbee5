package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nexiplay/nexiplay-go/internal/config"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// setupTestStore creates a store against a real database, skipping when none is reachable
func setupTestStore(t *testing.T) (*GormStore, func()) {
	driver := envOr("TEST_DB_DRIVER", "postgres")
	defaultPort := "5432"
	if driver == "mysql" {
		defaultPort = "3306"
	}
	port, _ := strconv.Atoi(envOr("TEST_DB_PORT", defaultPort))

	cfg := &config.DBConfig{
		Driver:          driver,
		Host:            envOr("TEST_DB_HOST", "localhost"),
		Port:            port,
		User:            envOr("TEST_DB_USER", "postgres"),
		Password:        envOr("TEST_DB_PASSWORD", "postgres"),
		Database:        envOr("TEST_DB_NAME", "nexiplay_test"),
		SSLMode:         "disable",
		MaxConns:        5,
		ConnectAttempts: 1,
	}

	store, err := NewGormStore(cfg)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to %s: %v", driver, err)
	}

	cleanup := func() {
		store.db.Exec("DELETE FROM episode_download_links")
		store.db.Exec("DELETE FROM episodes")
		store.db.Exec("DELETE FROM seasons")
		store.db.Exec("DELETE FROM download_links")
		store.db.Exec("DELETE FROM content_categories")
		store.db.Exec("DELETE FROM categories")
		store.db.Exec("DELETE FROM contents")
		store.db.Exec("DELETE FROM faqs")
		store.Close()
	}
	// Start from empty link tables
	store.db.Exec("DELETE FROM download_links")
	store.db.Exec("DELETE FROM contents")

	return store, cleanup
}

func seedContent(t *testing.T, s *GormStore, slug string, typ model.ContentType) *model.ContentItem {
	item := &model.ContentItem{Title: "Title " + slug, Slug: slug, Type: typ, Status: model.StatusPublished}
	require.NoError(t, s.db.Create(item).Error)
	return item
}

func TestGormStore_StaleOrdering(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	item := seedContent(t, store, "stale-order", model.TypeMovie)
	old := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	recent := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	rows := []*model.DownloadLink{
		{ContentID: item.ID, LinkSet: model.LinkSet{Resolution: "720p", LastCheckedAt: &recent}},
		{ContentID: item.ID, LinkSet: model.LinkSet{Resolution: "480p"}},
		{ContentID: item.ID, LinkSet: model.LinkSet{Resolution: "1080p", LastCheckedAt: &old}},
	}
	for _, r := range rows {
		require.NoError(t, store.db.Create(r).Error)
	}

	got, err := store.StaleDownloadLinks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "480p", got[0].Resolution, "never checked rows come first")
	assert.Equal(t, "1080p", got[1].Resolution)
	assert.Equal(t, "720p", got[2].Resolution)

	limited, err := store.StaleDownloadLinks(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGormStore_UpdateDownloadLinkStatus(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	item := seedContent(t, store, "update-status", model.TypeMovie)
	row := &model.DownloadLink{
		ContentID: item.ID,
		LinkSet: model.LinkSet{
			Resolution: "720p",
			Providers:  model.ProviderURLs{{Key: "mega_link", URL: "https://mega.nz/file/a"}},
			LinkStatus: model.LinkStatusMap{"gdrive_link": model.LinkActive},
		},
	}
	require.NoError(t, store.db.Create(row).Error)

	checkedAt := time.Now().UTC().Truncate(time.Second)
	status := model.LinkStatusMap{"gdrive_link": model.LinkActive, "mega_link": model.LinkExpired}
	require.NoError(t, store.UpdateDownloadLinkStatus(ctx, row.ID, status, checkedAt))

	got, err := store.GetContent(ctx, model.TypeMovie, "update-status")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.DownloadLinks, 1)
	link := got.DownloadLinks[0]
	assert.Equal(t, status, link.LinkStatus)
	require.NotNil(t, link.LastCheckedAt)
	assert.True(t, link.LastCheckedAt.Equal(checkedAt))
	assert.Equal(t, "https://mega.nz/file/a", link.Providers.Get("mega_link"))

	assert.Error(t, store.UpdateDownloadLinkStatus(ctx, "missing-id", status, checkedAt))

	// rewriting identical values is still a successful write
	assert.NoError(t, store.UpdateDownloadLinkStatus(ctx, row.ID, status, checkedAt))
}

func TestGormStore_GetContentNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.GetContent(context.Background(), model.TypeSeries, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormStore_GetSeasonsOrdered(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	item := seedContent(t, store, "ordered-seasons", model.TypeSeries)
	for _, n := range []int{2, 1} {
		season := &model.Season{ContentID: item.ID, SeasonNumber: n}
		require.NoError(t, store.db.Create(season).Error)
		for _, e := range []int{3, 1, 2} {
			ep := &model.Episode{SeasonID: season.ID, EpisodeNumber: e}
			require.NoError(t, store.db.Create(ep).Error)
		}
	}

	seasons, err := store.GetSeasons(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 1, seasons[0].SeasonNumber)
	assert.Equal(t, 2, seasons[1].SeasonNumber)
	for _, s := range seasons {
		require.Len(t, s.Episodes, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{s.Episodes[0].EpisodeNumber, s.Episodes[1].EpisodeNumber, s.Episodes[2].EpisodeNumber})
	}
}

func TestGormStore_SeedFAQsOnlyWhenEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	store.db.Exec("DELETE FROM faqs")

	n, err := store.SeedFAQs(ctx, []*model.FAQ{{Answer: "a", Keywords: "join", IsActive: true}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.SeedFAQs(ctx, []*model.FAQ{{Answer: "b", Keywords: "link", IsActive: true}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// For any batch of never-checked rows, the row just checked sorts last.
func TestProperty_StaleRotation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("checked rows move to the back of the queue", prop.ForAll(
		func(count int) bool {
			ctx := context.Background()
			store.db.Exec("DELETE FROM download_links")
			store.db.Exec("DELETE FROM contents")

			item := &model.ContentItem{Title: "rotation", Slug: fmt.Sprintf("rotation-%d", count), Type: model.TypeMovie}
			if err := store.db.Create(item).Error; err != nil {
				return false
			}
			for i := 0; i < count; i++ {
				row := &model.DownloadLink{ContentID: item.ID, LinkSet: model.LinkSet{Resolution: "720p"}}
				if err := store.db.Create(row).Error; err != nil {
					return false
				}
			}

			first, err := store.StaleDownloadLinks(ctx, 1)
			if err != nil || len(first) != 1 {
				return false
			}
			if err := store.UpdateDownloadLinkStatus(ctx, first[0].ID, model.LinkStatusMap{}, time.Now()); err != nil {
				return false
			}

			next, err := store.StaleDownloadLinks(ctx, count)
			if err != nil || len(next) != count {
				return false
			}
			return next[len(next)-1].ID == first[0].ID
		},
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
