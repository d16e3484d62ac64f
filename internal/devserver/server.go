// Package devserver is a local stand-in for the trac8 REST API.
//
// Every resource except readers answers the server-side list contract
// (sort, search, paging, count). The reader endpoint only returns the whole
// table, like the production API, so clients must emulate the rest.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mazi76erX2/trac8-frontend/internal/devserver/store"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

const shutdownTimeout = 5 * time.Second

// Server holds the record store and the simulated reader hardware state.
type Server struct {
	store       *store.Store
	log         zerolog.Logger
	token       string
	currentUser string

	mu        sync.Mutex
	connected map[string]bool
	alarms    map[string]bool
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option { return func(s *Server) { s.token = token } }

// WithLogger replaces the disabled default logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }

// WithCurrentUser sets the user id the /own profile endpoints act for.
func WithCurrentUser(id string) Option { return func(s *Server) { s.currentUser = id } }

// New returns a server over st.
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{
		store:       st,
		log:         zerolog.Nop(),
		currentUser: "1",
		connected:   map[string]bool{},
		alarms:      map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router. Specific routes are registered before the
// generic resource routes they would otherwise be shadowed by.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(recovery(s.log), requestLog(s.log), bearerAuth(s.token))

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.readerRoutes(r)
	s.extraRoutes(r)
	s.resourceRoutes(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		WriteNotFound(w, "no route for "+req.Method+" "+req.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, req.Method+" not allowed on "+req.URL.Path)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthPing(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

// Seed stores rs under resource.
func (s *Server) Seed(ctx context.Context, resource string, rs ...record.Record) error {
	for _, r := range rs {
		if _, err := s.store.Put(ctx, resource, r); err != nil {
			return err
		}
	}
	return nil
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("dev server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("dev server stopped")
	return nil
}
