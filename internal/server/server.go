// Package server exposes boards over a JSON HTTP API.
//
// Every request that touches a board loads its document from the store into
// a fresh [board.Board], applies the operation and writes the exported
// document back. Requests for the same dashboard are serialized with a
// per-id lock; different dashboards proceed in parallel.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/store"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// Config holds the server dependencies.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Grid is used for boards created without explicit dimensions.
	Grid board.Config

	Store  store.Store
	Types  *widget.Registry
	Logger *log.Logger
}

// Server serves the board API.
type Server struct {
	cfg    Config
	store  store.Store
	types  *widget.Registry
	logger *log.Logger
	locks  *keyedMutex
}

// New returns a server. A nil registry serves no widget types and a nil
// logger discards output.
func New(cfg Config) *Server {
	if cfg.Types == nil {
		cfg.Types = widget.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Server{
		cfg:    cfg,
		store:  cfg.Store,
		types:  cfg.Types,
		logger: cfg.Logger,
		locks:  newKeyedMutex(),
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/types", s.handleTypes)

	r.Route("/boards", func(r chi.Router) {
		r.Get("/", s.handleListBoards)
		r.Post("/", s.handleCreateBoard)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetBoard)
			r.Put("/", s.handlePutBoard)
			r.Delete("/", s.handleDeleteBoard)
			r.Post("/evaluate", s.handleEvaluate)
			r.Post("/drop", s.handleDrop)
			r.Post("/resize", s.handleResize)
			r.Delete("/widgets/{row}/{col}", s.handleRemoveWidget)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
