package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
	"github.com/nexiplay/nexiplay-go/internal/resolver"
	"github.com/nexiplay/nexiplay-go/internal/selector"
	"github.com/nexiplay/nexiplay-go/internal/sitecfg"
)

// DownloadsResponse is the download panel of a movie or of one episode
type DownloadsResponse struct {
	Panel   selector.Panel `json:"panel"`
	Season  int            `json:"season,omitempty"`
	Episode int            `json:"episode,omitempty"`
	IsNew   bool           `json:"is_new,omitempty"`
}

// SiteResponse is the page chrome configuration for one path
type SiteResponse struct {
	Notices       sitecfg.NoticeSet       `json:"notices"`
	AdsEnabled    bool                    `json:"ads_enabled"`
	PopunderURL   string                  `json:"popunder_url,omitempty"`
	DirectLinkURL string                  `json:"direct_link_url,omitempty"`
	Ad            *model.Ad               `json:"ad,omitempty"`
	Telegram      *model.TelegramSettings `json:"telegram,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.deps.Catalog.Home(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Catalog.List(r.Context(), mux.Vars(r)["type"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := s.deps.Catalog.Genre(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	items, err := s.deps.Catalog.Related(r.Context(), vars["type"], vars["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doc, err := s.deps.Resolver.Resolve(r.Context(), vars["type"], vars["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func queryInt(r *http.Request, key string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// handleDownloads builds the download panel. Serial items take ?season= and
// ?episode=; season 0 is the first season and episode 0 the latest episode.
func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	var selected provider.Resolution
	if raw := r.URL.Query().Get("resolution"); raw != "" {
		res, ok := provider.ParseResolution(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown resolution"})
			return
		}
		selected = res
	}
	seasonNum, ok1 := queryInt(r, "season")
	episodeNum, ok2 := queryInt(r, "episode")
	if !ok1 || !ok2 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "season and episode must be non-negative numbers"})
		return
	}

	vars := mux.Vars(r)
	doc, err := s.deps.Resolver.Resolve(r.Context(), vars["type"], vars["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !doc.Item.IsSerial() {
		writeJSON(w, http.StatusOK, DownloadsResponse{Panel: selector.BuildPanel(doc.LinkSets(), selected)})
		return
	}

	season := resolver.FindSeason(doc.Seasons, seasonNum)
	if season == nil {
		writeError(w, r, resolver.ErrNotFound)
		return
	}
	var ep *model.Episode
	if episodeNum == 0 {
		ep = resolver.LatestEpisode(season)
	} else if ep = resolver.FindEpisode(season, episodeNum); ep == nil {
		writeError(w, r, resolver.ErrNotFound)
		return
	}

	resp := DownloadsResponse{Season: season.SeasonNumber}
	if ep == nil {
		resp.Panel = selector.BuildPanel(nil, selected)
	} else {
		resp.Episode = ep.EpisodeNumber
		resp.IsNew = resolver.IsNew(doc.Item, season, ep)
		resp.Panel = selector.BuildPanel(selector.EpisodeSets(ep), selected)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSite returns notices, ad slots and the community link for ?path=
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	device := model.AdDevice(q.Get("device"))
	switch device {
	case "", model.DeviceDesktop, model.DeviceMobile, model.DeviceBoth:
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown device"})
		return
	}

	snap, err := s.deps.Site.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := SiteResponse{
		Notices:    snap.NoticesFor(path),
		AdsEnabled: snap.AdsEnabled(),
		Telegram:   snap.TelegramLink(),
	}
	if resp.AdsEnabled {
		resp.PopunderURL = snap.App.PopunderURL
		resp.DirectLinkURL = snap.App.DirectLinkURL
	}
	if placement := q.Get("placement"); placement != "" {
		resp.Ad = snap.AdFor(placement, device)
	}
	writeJSON(w, http.StatusOK, resp)
}
