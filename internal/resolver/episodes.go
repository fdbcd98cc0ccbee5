package resolver

import (
	"sort"

	"github.com/nexiplay/nexiplay-go/internal/model"
)

// sortSeasons orders seasons and their episodes by number. Gaps are kept.
func sortSeasons(seasons []*model.Season) {
	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].SeasonNumber < seasons[j].SeasonNumber
	})
	for _, s := range seasons {
		sort.SliceStable(s.Episodes, func(i, j int) bool {
			return s.Episodes[i].EpisodeNumber < s.Episodes[j].EpisodeNumber
		})
	}
}

// FindSeason returns the season with the given number. Number 0 selects the
// first season.
func FindSeason(seasons []*model.Season, number int) *model.Season {
	if number == 0 && len(seasons) > 0 {
		return seasons[0]
	}
	for _, s := range seasons {
		if s.SeasonNumber == number {
			return s
		}
	}
	return nil
}

// FindEpisode returns the episode with the given number within a season
func FindEpisode(season *model.Season, number int) *model.Episode {
	if season == nil {
		return nil
	}
	for i := range season.Episodes {
		if season.Episodes[i].EpisodeNumber == number {
			return &season.Episodes[i]
		}
	}
	return nil
}

// LatestEpisode returns the episode with the highest number in the season
func LatestEpisode(season *model.Season) *model.Episode {
	if season == nil {
		return nil
	}
	var latest *model.Episode
	for i := range season.Episodes {
		if latest == nil || season.Episodes[i].EpisodeNumber > latest.EpisodeNumber {
			latest = &season.Episodes[i]
		}
	}
	return latest
}

// IsNew reports whether ep gets the NEW badge: the item is ongoing and ep is
// the latest episode of the selected season.
func IsNew(item *model.ContentItem, season *model.Season, ep *model.Episode) bool {
	if item == nil || ep == nil || item.RunningStatus != model.RunningOngoing {
		return false
	}
	latest := LatestEpisode(season)
	return latest != nil && latest.EpisodeNumber == ep.EpisodeNumber
}
