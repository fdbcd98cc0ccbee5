package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nexiplay/nexiplay-go/internal/catalog"
	"github.com/nexiplay/nexiplay-go/internal/chatbot"
	"github.com/nexiplay/nexiplay-go/internal/config"
	"github.com/nexiplay/nexiplay-go/internal/forms"
	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/resolver"
	"github.com/nexiplay/nexiplay-go/internal/scheduler"
	"github.com/nexiplay/nexiplay-go/internal/sitecfg"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Pinger checks database connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// SweepRunner runs link sweeps on demand
type SweepRunner interface {
	RunNow(ctx context.Context) (linkcheck.SweepResult, error)
	LastStatus() *scheduler.Status
}

// ContentResolver loads detail pages
type ContentResolver interface {
	Resolve(ctx context.Context, typeSegment, slug string) (*resolver.Document, error)
}

// Catalog serves browse pages
type Catalog interface {
	Home(ctx context.Context) (*catalog.Home, error)
	List(ctx context.Context, typeSegment string) ([]*model.ContentItem, error)
	Search(ctx context.Context, query string) ([]*model.ContentItem, error)
	Genre(ctx context.Context, slug string) (*catalog.Genre, error)
	Related(ctx context.Context, typeSegment, excludeID string) ([]*model.ContentItem, error)
	Sitemap(ctx context.Context, baseURL string, now time.Time) (*catalog.URLSet, error)
}

// Assistant answers chat messages
type Assistant interface {
	Welcome(ctx context.Context) (string, error)
	Reply(ctx context.Context, message string) (*chatbot.Reply, error)
}

// Forms accepts visitor submissions
type Forms interface {
	SubmitComment(ctx context.Context, in forms.CommentInput) (*model.Comment, error)
	Comments(ctx context.Context, contentID string) ([]*model.Comment, error)
	SubmitDMCA(ctx context.Context, in forms.DMCAInput) (*model.DMCARequest, error)
	SubmitContact(ctx context.Context, in forms.ContactInput) (*model.ContactMessage, error)
	SubmitLinkReport(ctx context.Context, in forms.LinkReportInput) (*model.LinkReport, error)
}

// SiteSettings provides the cached site configuration
type SiteSettings interface {
	Get(ctx context.Context) (*sitecfg.Snapshot, error)
}

// Deps are the services behind the HTTP routes
type Deps struct {
	DB        Pinger
	Sweeps    SweepRunner
	Resolver  ContentResolver
	Catalog   Catalog
	Assistant Assistant
	Forms     Forms
	Site      SiteSettings
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Database  string            `json:"database"`
	Uptime    string            `json:"uptime"`
	LastSweep *scheduler.Status `json:"last_sweep,omitempty"`
}

// Server handles HTTP requests for the public API, cron trigger, health and metrics
type Server struct {
	deps      Deps
	config    *config.ServerConfig
	router    *mux.Router
	server    *http.Server
	startTime time.Time
	now       func() time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(deps Deps, cfg *config.ServerConfig) *Server {
	s := &Server{
		deps:      deps,
		config:    cfg,
		router:    mux.NewRouter(),
		startTime: time.Now(),
		now:       time.Now,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(instrument)

	r.HandleFunc("/api/cron/check-links", s.handleCheckLinks).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/api/home", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/api/list/{type}", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/api/genre/{slug}", s.handleGenre).Methods(http.MethodGet)
	r.HandleFunc("/api/related/{type}/{id}", s.handleRelated).Methods(http.MethodGet)
	r.HandleFunc("/api/content/{type}/{slug}", s.handleContent).Methods(http.MethodGet)
	r.HandleFunc("/api/content/{type}/{slug}/downloads", s.handleDownloads).Methods(http.MethodGet)
	r.HandleFunc("/api/site", s.handleSite).Methods(http.MethodGet)

	r.HandleFunc("/api/chat", s.handleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/api/comments", s.handleCreateComment).Methods(http.MethodPost)
	r.HandleFunc("/api/comments/{contentID}", s.handleListComments).Methods(http.MethodGet)
	r.HandleFunc("/api/dmca", s.handleDMCA).Methods(http.MethodPost)
	r.HandleFunc("/api/contact", s.handleContact).Methods(http.MethodPost)
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodPost)

	r.HandleFunc("/sitemap.xml", s.handleSitemap).Methods(http.MethodGet)
	r.HandleFunc("/robots.txt", s.handleRobots).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	// WriteTimeout leaves room for a cron sweep, which can take minutes
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth returns JSON with status, database connectivity, uptime and the last sweep
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	if err := s.deps.DB.Ping(r.Context()); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	status := "healthy"
	if dbStatus != "healthy" {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
	}
	if s.deps.Sweeps != nil {
		response.LastSweep = s.deps.Sweeps.LastStatus()
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode health response")
	}
}
