// Package httpapi exposes the JSON API consumed by the clients: auth and
// profile operations plus the public catalog listings.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/uncovr/uncovr/internal/logging"
	"github.com/uncovr/uncovr/internal/server/services"
)

type Server struct {
	addr     string
	logger   logging.Logger
	users    *services.UserService
	releases *services.ReleaseService
}

func NewServer(addr string, logger logging.Logger, users *services.UserService, releases *services.ReleaseService) *Server {
	return &Server{
		addr:     addr,
		logger:   logger,
		users:    users,
		releases: releases,
	}
}

// Router builds the route table. Everything API lives under /api/v1;
// /healthz stays at the root for load balancers.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/releases", s.handleReleases).Methods(http.MethodGet)
	api.HandleFunc("/releases/featured", s.handleFeaturedReleases).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/password", s.handleChangePassword).Methods(http.MethodPut)
	authed.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/me", s.handleUpdateProfile).Methods(http.MethodPut)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
