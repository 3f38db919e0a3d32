// Copyright (c) 2026 Pagebound. All rights reserved.

// Package api composes the HTTP server and its operational endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pagebound/bookclub/internal/club/author"
	"github.com/pagebound/bookclub/internal/club/book"
	"github.com/pagebound/bookclub/internal/club/dashboard"
	"github.com/pagebound/bookclub/internal/club/genre"
	"github.com/pagebound/bookclub/internal/club/meeting"
	"github.com/pagebound/bookclub/internal/club/member"
	"github.com/pagebound/bookclub/internal/club/review"
	"github.com/pagebound/bookclub/internal/platform/config"
	"github.com/pagebound/bookclub/internal/platform/constants"
	"github.com/pagebound/bookclub/internal/platform/middleware"
)

// Server wraps the chi router and the [http.Server]. Built once in
// main with every dependency injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers collects the per-domain handler sets the router mounts.
// New domains add a field here; no other change to server.go is
// required.
type Handlers struct {
	// Liveness answers /health, Readiness answers /ready.
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	// Book handles the catalogue: search, top-rated, per-genre discovery.
	Book *book.Handler

	// Member manages club membership.
	Member *member.Handler

	// Meeting manages gatherings and their book/member associations.
	Meeting *meeting.Handler

	// Review manages per-book member reviews.
	Review *review.Handler

	// Genre manages the catalogue taxonomy.
	Genre *genre.Handler

	// Author manages the author registry.
	Author *author.Handler

	// Dashboard serves the aggregated statistics snapshot.
	Dashboard *dashboard.Handler
}

// NewServer builds the router, installs the middleware chain, and
// mounts every route group under /api/v1.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// Order matters: the request ID must exist before logging, and the
	// logger must exist before anything that may fail.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// Probes for container orchestration stay outside the API prefix.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/books", h.Book.Routes())
		api.Mount("/members", h.Member.Routes())
		api.Mount("/meetings", h.Meeting.Routes())
		api.Mount("/reviews", h.Review.Routes())
		api.Mount("/genres", h.Genre.Routes())
		api.Mount("/authors", h.Author.Routes())
		api.Mount("/dashboard", h.Dashboard.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// ListenAndServe blocks until the server closes or fails.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, bounded by timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
