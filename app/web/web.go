// Package web implements local JSON API over the job tracker: job list and details, summary, backend health,
// history of finished jobs and user actions (start, pause, resume, cancel, delete).
package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/history"
	"github.com/umputun/jobwatch/app/tracker"
)

//go:generate moq -out mocks/tracker.go -pkg mocks -skip-ensure -fmt goimports . Tracker
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . History

// Tracker defines tracker operations used by the api, implemented by tracker.Tracker
type Tracker interface {
	Jobs() []tracker.JobView
	Get(id string) (tracker.JobView, bool)
	Summary() tracker.Summary
	Health(ctx context.Context) (backend.Health, error)
	LastHealth() (backend.Health, bool)
	Refresh(ctx context.Context) error
	Start(ctx context.Context, kind enums.JobKind, name string) (tracker.JobView, error)
	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// History provides finished jobs journal, implemented by history.Store
type History interface {
	List(ctx context.Context, q history.Query) ([]history.Record, error)
	Get(ctx context.Context, jobID string) (history.Record, error)
}

// Server is the api server
type Server struct {
	tracker       Tracker
	history       History
	version       string
	actionTimeout time.Duration
	actionLimit   float64
}

// Config holds server configuration
type Config struct {
	Tracker       Tracker
	History       History       // optional, history endpoints return 404 without it
	Version       string
	ActionTimeout time.Duration // limits backend call of a user action, defaults to 30s
	ActionLimit   float64       // max action requests per second from one client, defaults to 10
}

// New makes api server
func New(cfg Config) (*Server, error) {
	if cfg.Tracker == nil || reflect.ValueOf(cfg.Tracker).IsNil() {
		return nil, fmt.Errorf("web server initialization failed: tracker is required")
	}
	s := &Server{
		tracker:       cfg.Tracker,
		version:       cfg.Version,
		actionTimeout: cfg.ActionTimeout,
		actionLimit:   cfg.ActionLimit,
	}
	if cfg.History != nil && !reflect.ValueOf(cfg.History).IsNil() {
		s.history = cfg.History
	}
	if s.actionTimeout <= 0 {
		s.actionTimeout = 30 * time.Second
	}
	if s.actionLimit <= 0 {
		s.actionLimit = 10
	}
	return s, nil
}

// Run starts http server and blocks until ctx is canceled or the server fails
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.actionTimeout + 5*time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())
	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(1000),
		rest.AppInfo("jobwatch", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024),
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	actionLimiter := tollbooth.NewLimiter(s.actionLimit, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Minute})
	actionLimiter.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	actionLimiter.SetMessageContentType("application/json; charset=utf-8")
	actionLimiter.SetMessage(`{"error":"Too many requests, try again shortly."}`)

	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /jobs", s.handleJobs)
		api.HandleFunc("GET /jobs/{id}", s.handleJob)
		api.HandleFunc("GET /summary", s.handleSummary)
		api.HandleFunc("GET /health", s.handleHealth)
		api.HandleFunc("GET /history", s.handleHistory)
		api.HandleFunc("GET /history/{id}", s.handleHistoryRecord)

		actions := api.With(tollbooth.HTTPMiddleware(actionLimiter))
		actions.HandleFunc("POST /refresh", s.handleRefresh)
		actions.HandleFunc("POST /jobs", s.handleStart)
		actions.HandleFunc("POST /jobs/{id}/pause", s.handleAction(enums.ActionPause))
		actions.HandleFunc("POST /jobs/{id}/resume", s.handleAction(enums.ActionResume))
		actions.HandleFunc("POST /jobs/{id}/cancel", s.handleAction(enums.ActionCancel))
		actions.HandleFunc("DELETE /jobs/{id}", s.handleAction(enums.ActionDelete))
	})

	return router
}
