package selector

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionsWithLinks(t *testing.T) {
	sets := []model.LinkSet{
		{Resolution: "1080p", Providers: model.ProviderURLs{{Key: provider.GDrive, URL: "https://drive.example/1080"}}},
		{Resolution: "480p", Providers: model.ProviderURLs{{Key: provider.Mega, URL: ""}}},
		{Resolution: "360p"},
		{Resolution: "720p", Providers: model.ProviderURLs{{Key: provider.Mega, URL: "https://mega.example/720"}}},
	}

	got := ResolutionsWithLinks(sets)
	assert.Equal(t, []provider.Resolution{provider.Res720p, provider.Res1080p}, got)
}

func TestResolutionsWithLinks_IgnoresStatus(t *testing.T) {
	sets := []model.LinkSet{{
		Resolution: "480p",
		Providers:  model.ProviderURLs{{Key: provider.Mega, URL: "https://mega.example/a"}},
		LinkStatus: model.LinkStatusMap{provider.Mega: model.LinkExpired},
	}}
	assert.Equal(t, []provider.Resolution{provider.Res480p}, ResolutionsWithLinks(sets))
}

func TestProvidersFor_RegistryOrder(t *testing.T) {
	set := &model.LinkSet{
		Resolution: "720p",
		Providers: model.ProviderURLs{
			{Key: provider.YouTube, URL: "https://youtube.example/v"},
			{Key: provider.Mega, URL: "https://mega.example/a"},
			{Key: "unknown_link", URL: "https://elsewhere.example"},
			{Key: provider.MediaFire, URL: "https://mediafire.example/m"},
		},
	}

	entries := ProvidersFor(set)
	require.Len(t, entries, 3)
	assert.Equal(t, provider.Mega, entries[0].Key)
	assert.Equal(t, provider.MediaFire, entries[1].Key)
	assert.Equal(t, provider.YouTube, entries[2].Key)
	assert.Equal(t, "Mega", entries[0].Name)
	for _, e := range entries {
		assert.True(t, e.Actionable)
		assert.Empty(t, e.Notice)
	}
}

func TestProvidersFor_ExpiredIsKeptButNotActionable(t *testing.T) {
	set := &model.LinkSet{
		Providers: model.ProviderURLs{
			{Key: provider.Mega, URL: "https://mega.example/a"},
			{Key: provider.GDrive, URL: "https://drive.example/b"},
		},
		LinkStatus: model.LinkStatusMap{
			provider.Mega:   model.LinkExpired,
			provider.GDrive: model.LinkActive,
		},
	}

	entries := ProvidersFor(set)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Actionable)
	assert.Equal(t, ExpiredNotice, entries[0].Notice)
	assert.Equal(t, model.LinkExpired, entries[0].Status)
	assert.True(t, entries[1].Actionable)
}

func TestProvidersFor_Nil(t *testing.T) {
	assert.Nil(t, ProvidersFor(nil))
}

func TestRowFor_LastWins(t *testing.T) {
	sets := []model.LinkSet{
		{Resolution: "720p", FileSize: "1GB"},
		{Resolution: "720P", FileSize: "1.2GB"},
	}
	row := RowFor(sets, provider.Res720p)
	require.NotNil(t, row)
	assert.Equal(t, "1.2GB", row.FileSize)
	assert.Nil(t, RowFor(sets, provider.Res360p))
}

func TestQualitySummary(t *testing.T) {
	downloads := []model.Download{
		{Quality: "480p", FileSize: "400MB"},
		{Quality: "HDCam"},
		{Quality: "1080p", FileSize: "2GB"},
		{Quality: "720p", FileSize: "1GB"},
		{Quality: "1080p", FileSize: "2GB"},
	}
	assert.Equal(t, "1080p, 720p, 480p, HDCam", QualitySummary(downloads, nil))
	assert.Equal(t, "400MB, 2GB, 1GB", SizeSummary(downloads, nil))
}

func TestQualitySummary_FallsBackToLinkRows(t *testing.T) {
	sets := []model.LinkSet{
		{Resolution: "480p", FileSize: "350MB", Providers: model.ProviderURLs{{Key: provider.Mega, URL: "https://mega.example/4"}}},
		{Resolution: "1080p", FileSize: "1.8GB", Providers: model.ProviderURLs{{Key: provider.Mega, URL: "https://mega.example/1"}}},
	}
	assert.Equal(t, "1080p, 480p", QualitySummary(nil, sets))
	assert.Equal(t, "350MB, 1.8GB", SizeSummary(nil, sets))
	assert.Equal(t, "N/A", QualitySummary(nil, nil))
	assert.Equal(t, "N/A", SizeSummary(nil, nil))
}

func TestBuildPanel(t *testing.T) {
	sets := []model.LinkSet{
		{Resolution: "720p", FileSize: "900MB", Providers: model.ProviderURLs{{Key: provider.Mega, URL: "https://mega.example/720"}}},
	}

	p := BuildPanel(sets, "")
	require.Len(t, p.Resolutions, 4)
	assert.False(t, p.Resolutions[0].Available)
	assert.True(t, p.Resolutions[2].Available)
	assert.Equal(t, "900MB", p.Resolutions[2].FileSize)
	assert.Empty(t, p.Entries)
	assert.Empty(t, p.Message)

	p = BuildPanel(sets, provider.Res720p)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, provider.Res720p, p.Selected)

	p = BuildPanel(sets, provider.Res1080p)
	assert.Empty(t, p.Entries)
	assert.Equal(t, "No links available for 1080p yet ⏳", p.Message)

	p = BuildPanel(nil, "")
	assert.Equal(t, ComingSoon, p.Message)
}

var providerKeys = []string{
	provider.Mega, provider.GDrive, provider.MediaFire,
	provider.TeraBox, provider.PCloud, provider.YouTube, "other_link",
}

// genLinkSet builds a row from a bitmask of populated providers and a
// bitmask of status entries that may name any provider.
func genLinkSet() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 127),
		gen.IntRange(0, 127),
		gen.IntRange(0, 127),
	).Map(func(v []interface{}) model.LinkSet {
		urls, statuses, expired := v[0].(int), v[1].(int), v[2].(int)
		set := model.LinkSet{Resolution: "720p", LinkStatus: model.LinkStatusMap{}}
		for i, k := range providerKeys {
			if urls&(1<<i) != 0 {
				set.Providers = append(set.Providers, model.ProviderURL{Key: k, URL: "https://" + k + ".example"})
			}
			if statuses&(1<<i) != 0 {
				state := model.LinkActive
				if expired&(1<<i) != 0 {
					state = model.LinkExpired
				}
				set.LinkStatus[k] = state
			}
		}
		return set
	})
}

// Providers without a URL never appear, whatever link_status says.
func TestProperty_NoPhantomProviders(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every entry has a populated URL", prop.ForAll(
		func(set model.LinkSet) bool {
			entries := ProvidersFor(&set)
			for _, e := range entries {
				if set.Providers.Get(e.Key) == "" {
					return false
				}
			}
			// and every registered populated provider is present
			want := 0
			for _, pu := range set.Providers {
				if provider.Index(pu.Key) >= 0 {
					want++
				}
			}
			return len(entries) == want
		},
		genLinkSet(),
	))

	properties.TestingRun(t)
}

// Running the selector twice on the same row yields identical output in registry order.
func TestProperty_SelectorIdempotentAndOrdered(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("stable registry order", prop.ForAll(
		func(set model.LinkSet) bool {
			a := ProvidersFor(&set)
			b := ProvidersFor(&set)
			if !reflect.DeepEqual(a, b) {
				return false
			}
			for i := 1; i < len(a); i++ {
				if provider.Index(a[i-1].Key) >= provider.Index(a[i].Key) {
					return false
				}
			}
			for _, e := range a {
				if e.Actionable == (set.LinkStatus[e.Key] == model.LinkExpired) {
					return false
				}
			}
			return true
		},
		genLinkSet(),
	))

	properties.TestingRun(t)
}
