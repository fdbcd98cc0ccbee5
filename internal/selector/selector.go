// Package selector derives user-facing download availability from raw link rows.
package selector

import (
	"sort"
	"strings"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
)

const (
	ExpiredNotice    = "⚠️ Link Expired - Report to Admin"
	ComingSoon       = "Download links coming soon ⏳"
	notAvailableTmpl = "No links available for %s yet ⏳"
	summaryNone      = "N/A"
)

// Entry is one provider button of a resolution
type Entry struct {
	provider.Provider
	URL string `json:"url"`
	// Status is empty when the link was never checked
	Status     model.LinkState `json:"status,omitempty"`
	Actionable bool            `json:"actionable"`
	Notice     string          `json:"notice,omitempty"`
}

// FlatSets extracts the link sets of flat download rows
func FlatSets(links []model.DownloadLink) []model.LinkSet {
	out := make([]model.LinkSet, 0, len(links))
	for _, l := range links {
		out = append(out, l.LinkSet)
	}
	return out
}

// EpisodeSets extracts the link sets of an episode
func EpisodeSets(ep *model.Episode) []model.LinkSet {
	if ep == nil {
		return nil
	}
	out := make([]model.LinkSet, 0, len(ep.DownloadLinks))
	for _, l := range ep.DownloadLinks {
		out = append(out, l.LinkSet)
	}
	return out
}

// RowFor returns the row of a resolution. When several rows share a
// resolution the last one wins.
func RowFor(sets []model.LinkSet, res provider.Resolution) *model.LinkSet {
	var found *model.LinkSet
	for i := range sets {
		if r, ok := provider.ParseResolution(sets[i].Resolution); ok && r == res {
			found = &sets[i]
		}
	}
	return found
}

// hasRegisteredLink reports whether any registered provider has a URL
func hasRegisteredLink(set *model.LinkSet) bool {
	for _, pu := range set.Providers.Populated() {
		if provider.Index(pu.Key) >= 0 {
			return true
		}
	}
	return false
}

// ResolutionsWithLinks returns the resolutions whose row has at least one
// provider URL, in display order. Link status is ignored.
func ResolutionsWithLinks(sets []model.LinkSet) []provider.Resolution {
	var out []provider.Resolution
	for _, res := range provider.Resolutions() {
		if row := RowFor(sets, res); row != nil && hasRegisteredLink(row) {
			out = append(out, res)
		}
	}
	return out
}

// ProvidersFor lists the providers of a row that carry a URL, in registry
// order. Expired entries are kept but marked non-actionable.
func ProvidersFor(set *model.LinkSet) []Entry {
	if set == nil {
		return nil
	}

	populated := set.Providers.Populated()
	entries := make([]Entry, 0, len(populated))
	for _, p := range provider.All() {
		url := populated.Get(p.Key)
		if url == "" {
			continue
		}
		status := set.LinkStatus[p.Key]
		e := Entry{
			Provider:   p,
			URL:        url,
			Status:     status,
			Actionable: status != model.LinkExpired,
		}
		if !e.Actionable {
			e.Notice = ExpiredNotice
		}
		entries = append(entries, e)
	}
	return entries
}

// ProvidersForResolution is ProvidersFor applied to the row of res
func ProvidersForResolution(sets []model.LinkSet, res provider.Resolution) []Entry {
	return ProvidersFor(RowFor(sets, res))
}

var qualityPriority = map[string]int{"1080p": 0, "720p": 1, "480p": 2}

func priority(q string) int {
	if p, ok := qualityPriority[strings.ToLower(q)]; ok {
		return p
	}
	return len(qualityPriority)
}

// SortQualities orders qualities 1080p, 720p, 480p, then the rest as given
func SortQualities(qualities []string) []string {
	out := append([]string(nil), qualities...)
	sort.SliceStable(out, func(i, j int) bool {
		return priority(out[i]) < priority(out[j])
	})
	return out
}

// QualitySummary lists the distinct qualities of an item. Legacy download
// rows are used when present, otherwise the resolutions that have links.
func QualitySummary(downloads []model.Download, sets []model.LinkSet) string {
	var qualities []string
	if len(downloads) > 0 {
		for _, d := range downloads {
			qualities = append(qualities, d.Quality)
		}
	} else {
		for _, r := range ResolutionsWithLinks(sets) {
			qualities = append(qualities, string(r))
		}
	}
	return joinOrNone(SortQualities(unique(qualities)))
}

// SizeSummary lists the distinct non-empty file sizes of an item
func SizeSummary(downloads []model.Download, sets []model.LinkSet) string {
	var sizes []string
	if len(downloads) > 0 {
		for _, d := range downloads {
			sizes = append(sizes, d.FileSize)
		}
	} else {
		for _, s := range sets {
			sizes = append(sizes, s.FileSize)
		}
	}
	return joinOrNone(unique(sizes))
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func joinOrNone(in []string) string {
	if len(in) == 0 {
		return summaryNone
	}
	return strings.Join(in, ", ")
}
