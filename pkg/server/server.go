// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/logging"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name used in logs.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version used in logs.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithStore sets the store suggestions are served from.
func WithStore(store *suggestion.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLoaded sets the check /ready consults in addition to the serving state.
func WithLoaded(loaded func() bool) Option {
	return func(s *Server) {
		s.loaded = loaded
	}
}

// Server represents the HTTP server
type Server struct {
	name        string
	version     string
	config      *Config
	store       *suggestion.Store
	httpServer  *http.Server
	adminServer *http.Server
	rateLimiter *rate.Limiter
	loaded      func() bool
	ready       atomic.Bool
}

// New creates a new server instance
func New(opts ...Option) *Server {
	s := &Server{
		name:    "suggestd",
		version: "dev",
		config:  NewConfig(),
		store:   suggestion.NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rateLimiter = s.config.limiter()

	s.httpServer = &http.Server{
		Addr:                         s.config.Addr(),
		Handler:                      s.setupRoutes(),
		ReadTimeout:                  s.config.ReadTimeout,
		ReadHeaderTimeout:            s.config.ReadHeaderTimeout,
		WriteTimeout:                 s.config.WriteTimeout,
		IdleTimeout:                  s.config.IdleTimeout,
		DisableGeneralOptionsHandler: true,
		ErrorLog:                     logging.NewLogLogger(slog.LevelWarn),
	}
	// one request per connection
	s.httpServer.SetKeepAlivesEnabled(false)

	s.adminServer = &http.Server{
		Addr:              s.config.AdminAddr(),
		Handler:           s.setupAdminRoutes(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn),
	}

	return s
}

// Handler returns the suggest listener's handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// AdminHandler returns the admin listener's handler.
func (s *Server) AdminHandler() http.Handler {
	return s.adminServer.Handler
}

// SetReady marks the server as ready to serve traffic
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Run listens on the configured addresses and serves until ctx is done.
// The admin listener is started only when an admin port is configured.
func (s *Server) Run(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}

	adminLn, err := s.ListenAdmin(ctx)
	if err != nil {
		ln.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Serve(gctx, ln)
	})
	if adminLn != nil {
		g.Go(func() error {
			return s.ServeAdmin(gctx, adminLn)
		})
	}
	return g.Wait()
}

// Listen binds the configured address.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	return listen(ctx, s.httpServer.Addr)
}

// ListenAdmin binds the admin address. It returns a nil listener when the
// admin listener is disabled.
func (s *Server) ListenAdmin(ctx context.Context) (net.Listener, error) {
	if s.adminServer.Addr == "" {
		return nil, nil
	}
	return listen(ctx, s.adminServer.Addr)
}

func listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to listen", err,
			map[string]any{"address": addr})
	}
	return ln, nil
}

// Serve accepts suggest connections on ln until ctx is done, then shuts
// down gracefully. The server reports ready while Serve runs. ln is closed
// on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.SetReady(true)
	defer s.SetReady(false)

	slog.Info("server listening",
		"name", s.name,
		"version", s.version,
		"address", ln.Addr().String(),
		"rateLimit", float64(s.config.RateLimit),
		"rateLimitBurst", s.config.RateLimitBurst,
	)

	return s.serve(ctx, s.httpServer, ln, func() { s.SetReady(false) })
}

// ServeAdmin serves /health, /ready and /metrics on ln until ctx is done.
// ln is closed on return.
func (s *Server) ServeAdmin(ctx context.Context, ln net.Listener) error {
	slog.Info("admin server listening",
		"name", s.name,
		"address", ln.Addr().String(),
	)

	return s.serve(ctx, s.adminServer, ln, nil)
}

// serve runs srv on ln. When ctx is done, beforeShutdown runs (if set) and
// srv is shut down within the configured timeout.
func (s *Server) serve(ctx context.Context, srv *http.Server, ln net.Listener, beforeShutdown func()) error {
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		if beforeShutdown != nil {
			beforeShutdown()
		}
		return s.shutdown(context.WithoutCancel(ctx), srv)
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrCodeInternal, "server failed", err)
	}
}

// Shutdown gracefully shuts down the suggest and admin listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	return errors.Join(
		s.shutdown(ctx, s.httpServer),
		s.shutdown(ctx, s.adminServer),
	)
}

func (s *Server) shutdown(ctx context.Context, srv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server", "name", s.name, "address", srv.Addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeTimeout, "graceful shutdown failed", err)
	}
	return nil
}
