package server

import (
	"net/http"

	"github.com/nexiplay/nexiplay-go/internal/catalog"
	"github.com/rs/zerolog/log"
)

func (s *Server) siteURL() string {
	if s.config == nil {
		return ""
	}
	return s.config.SiteURL
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	set, err := s.deps.Catalog.Sitemap(r.Context(), s.siteURL(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := set.Marshal()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write sitemap")
	}
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(catalog.Robots(s.siteURL()))); err != nil {
		log.Warn().Err(err).Msg("Failed to write robots.txt")
	}
}
