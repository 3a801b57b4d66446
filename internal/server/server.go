// Package server exposes the solver, history and image extraction over a
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/yechim/internal/extract"
	"github.com/abhisek/yechim/internal/solver"
	"github.com/abhisek/yechim/internal/store"
	"github.com/abhisek/yechim/internal/tracker"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Solver  *solver.Solver
	Tracker *tracker.Tracker

	// History persists solves. Nil keeps history in memory only.
	History store.HistoryRepo

	// Extractor reads problems out of images. Nil disables /v1/solve/image.
	Extractor *extract.Extractor

	// Registry receives the server metrics. Nil creates a private one.
	Registry *prometheus.Registry

	// Mode is the gin mode: debug, release or test.
	Mode string

	// ExtractTimeout bounds a single image extraction.
	ExtractTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	deps    Deps
	metrics *Metrics
	engine  *gin.Engine
}

// New builds a Server and its routes.
func New(deps Deps) *Server {
	if deps.Solver == nil {
		deps.Solver = solver.New(solver.Options{})
	}
	if deps.Tracker == nil {
		deps.Tracker = tracker.New(0)
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.ExtractTimeout <= 0 {
		deps.ExtractTimeout = 60 * time.Second
	}
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}

	s := &Server{
		deps:    deps,
		metrics: NewMetrics(deps.Registry),
	}

	r := gin.New()
	if deps.Extractor != nil {
		r.MaxMultipartMemory = deps.Extractor.MaxBytes() + 1<<20
	}
	r.Use(gin.Recovery(), s.requestLogger())
	s.routes(r)
	s.engine = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	{
		v1.POST("/solve", s.handleSolve)
		v1.POST("/solve/image", s.handleSolveImage)
		v1.POST("/classify", s.handleClassify)

		v1.GET("/history", s.handleHistory)
		v1.GET("/history/:id", s.handleHistoryEntry)
		v1.GET("/stats", s.handleStats)
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		took := time.Since(start)
		status := c.Writer.Status()
		s.metrics.observeRequest(c.Request.Method, route, status)

		ev := log.Debug()
		if status >= 500 {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", took).
			Msg("http request")
	}
}
