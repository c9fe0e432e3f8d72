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

package api

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/suggestd/pkg/config"
	"github.com/NVIDIA/suggestd/pkg/k8s/client"
	"github.com/NVIDIA/suggestd/pkg/logging"
	"github.com/NVIDIA/suggestd/pkg/oci"
	"github.com/NVIDIA/suggestd/pkg/refresher"
	"github.com/NVIDIA/suggestd/pkg/server"
	"github.com/NVIDIA/suggestd/pkg/source"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

const (
	name           = "suggestd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/suggestd/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Version returns the build version.
func Version() string {
	return version
}

// Serve runs the server until ctx is done or SIGINT/SIGTERM is received.
func Serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.Logging.Level)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	listener      net.Listener
	adminListener net.Listener
	sourceOptions []source.Option
	notify        func(state string)
}

// WithListener serves on ln instead of binding the configured address.
func WithListener(ln net.Listener) AppOption {
	return func(o *appOptions) {
		o.listener = ln
	}
}

// WithAdminListener serves /health, /ready and /metrics on ln instead of
// binding the configured admin port.
func WithAdminListener(ln net.Listener) AppOption {
	return func(o *appOptions) {
		o.adminListener = ln
	}
}

// WithSourceOptions appends options used when building the data source.
func WithSourceOptions(opts ...source.Option) AppOption {
	return func(o *appOptions) {
		o.sourceOptions = append(o.sourceOptions, opts...)
	}
}

// WithNotifier replaces the systemd notifier.
func WithNotifier(notify func(state string)) AppOption {
	return func(o *appOptions) {
		o.notify = notify
	}
}

// App wires the store, source, refresher and server together.
type App struct {
	store     *suggestion.Store
	source    source.Source
	refresher *refresher.Refresher
	server    *server.Server
	listener  net.Listener
	adminLn   net.Listener
	notify    func(state string)
}

// NewApp builds an App from cfg without starting anything.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	o := &appOptions{notify: sdNotify}
	for _, opt := range opts {
		opt(o)
	}

	srcOpts := []source.Option{
		source.WithLockTimeout(cfg.Data.LockTimeout),
		source.WithOCIOptions(oci.PullOptions{
			PlainHTTP:   cfg.Data.OCI.PlainHTTP,
			InsecureTLS: cfg.Data.OCI.InsecureTLS,
		}),
	}
	if cfg.Data.Kubeconfig != "" {
		kc, _, err := client.BuildKubeClient(cfg.Data.Kubeconfig)
		if err != nil {
			return nil, err
		}
		srcOpts = append(srcOpts, source.WithKubeClient(kc))
	}
	srcOpts = append(srcOpts, o.sourceOptions...)

	src, err := source.New(cfg.DataLocation(), srcOpts...)
	if err != nil {
		return nil, err
	}

	store := suggestion.NewStore()

	refOpts := []refresher.Option{
		refresher.WithInterval(cfg.Data.RefreshInterval),
		refresher.WithLoadTimeout(cfg.Data.LoadTimeout),
	}
	if cfg.Data.NormalizeIDs {
		refOpts = append(refOpts, refresher.WithNormalizer(suggestion.NFC))
	}
	ref, err := refresher.New(src, store, refOpts...)
	if err != nil {
		return nil, err
	}

	srv := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithConfig(serverConfig(cfg)),
		server.WithStore(store),
		server.WithLoaded(ref.Loaded),
	)

	return &App{
		store:     store,
		source:    src,
		refresher: ref,
		server:    srv,
		listener:  o.listener,
		adminLn:   o.adminListener,
		notify:    o.notify,
	}, nil
}

// Run performs the initial load, then serves and refreshes until ctx is
// done. A failed initial load is returned without serving.
func (a *App) Run(ctx context.Context) error {
	if err := a.refresher.Reload(ctx); err != nil {
		return err
	}

	ln := a.listener
	if ln == nil {
		var err error
		if ln, err = a.server.Listen(ctx); err != nil {
			return err
		}
	}

	adminLn := a.adminLn
	if adminLn == nil {
		var err error
		if adminLn, err = a.server.ListenAdmin(ctx); err != nil {
			ln.Close()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Serve(gctx, ln)
	})

	if adminLn != nil {
		g.Go(func() error {
			return a.server.ServeAdmin(gctx, adminLn)
		})
	}

	g.Go(func() error {
		return a.refresher.Start(gctx)
	})

	a.notify(daemon.SdNotifyReady)

	err := g.Wait()
	a.notify(daemon.SdNotifyStopping)
	return err
}

// Store returns the store served by the app.
func (a *App) Store() *suggestion.Store {
	return a.store
}

func serverConfig(cfg *config.Config) *server.Config {
	sc := server.NewConfig()
	sc.Address = cfg.Server.Address
	sc.Port = cfg.Server.Port
	sc.AdminPort = cfg.Server.AdminPort
	sc.RateLimit = rate.Limit(cfg.Server.RateLimit)
	sc.RateLimitBurst = cfg.Server.RateLimitBurst
	sc.MaxBodyBytes = cfg.Server.MaxBodyBytes
	sc.ShutdownTimeout = cfg.Server.ShutdownTimeout
	return sc
}

func sdNotify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("systemd notify failed", "state", state, "error", err)
		return
	}
	if sent {
		slog.Debug("systemd notified", "state", state)
	}
}
