package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// CronResponse is the acknowledgement returned to the external trigger
type CronResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) authorizedCron(r *http.Request) bool {
	if s.config == nil || s.config.CronSecret == "" {
		return true
	}
	got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.config.CronSecret)) == 1
}

// handleCheckLinks runs one sweep. Sweep failures, including panics, are
// reported in the body with HTTP 200; per-row failures still count as success.
func (s *Server) handleCheckLinks(w http.ResponseWriter, r *http.Request) {
	if !s.authorizedCron(r) {
		writeJSON(w, http.StatusUnauthorized, CronResponse{Success: false, Error: "unauthorized"})
		return
	}

	resp := s.runCronSweep(r)
	if resp.Success {
		cronRunsTotal.WithLabelValues("success").Inc()
	} else {
		cronRunsTotal.WithLabelValues("failure").Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runCronSweep(r *http.Request) (resp CronResponse) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("Link sweep panicked")
			resp = CronResponse{Success: false, Error: fmt.Sprint(p)}
		}
	}()

	if s.deps.Sweeps == nil {
		return CronResponse{Success: false, Error: "link checker not configured"}
	}
	// a caller hanging up must not abandon rows the sweep already selected
	ctx := context.WithoutCancel(r.Context())
	if _, err := s.deps.Sweeps.RunNow(ctx); err != nil {
		return CronResponse{Success: false, Error: err.Error()}
	}
	return CronResponse{Success: true, Message: "Link check complete"}
}
