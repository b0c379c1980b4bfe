// Package server exposes image reduction over HTTP.
//
// Routes:
//
//	GET  /healthz  liveness probe, always "ok"
//	POST /reduce   body is an encoded image; the reduced image is returned
//
// /reduce takes its options from the query string:
//
//	palette    comma-separated hex colors (required), e.g. %23000,%23fff
//	threshold  area threshold in pixels (default from Config)
//	matcher    lab | kdtree
//	labeler    unionfind | floodfill
//	format     png | jpeg | webp (default png)
//
// The response carries X-Regions and X-Merged-Regions headers with the
// region counts of the reduction.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maax3v3/colorreduce"
)

// Config configures the HTTP server.
type Config struct {
	Addr             string
	MaxBodyBytes     int64 // request body limit for /reduce
	DefaultThreshold int   // used when the query has no threshold
	Workers          int   // mapping goroutines per request, 0 = NumCPU
}

// DefaultConfig returns sensible server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:             ":8080",
		MaxBodyBytes:     32 << 20,
		DefaultThreshold: colorreduce.DefaultAreaThreshold,
	}
}

// Server is the HTTP front end. Every request runs an independent
// reduction; nothing is shared between requests.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/reduce", s.handleReduce)

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}
	return srv.ListenAndServe()
}
