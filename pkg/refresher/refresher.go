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

package refresher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/source"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// Option configures a Refresher.
type Option func(*Refresher)

// WithInterval sets the reload period.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		r.interval = d
	}
}

// WithClock sets the clock driving the ticker.
func WithClock(c clock.WithTicker) Option {
	return func(r *Refresher) {
		r.clock = c
	}
}

// WithNormalizer sets the identifier normalizer used when building indexes.
func WithNormalizer(n suggestion.Normalizer) Option {
	return func(r *Refresher) {
		r.normalize = n
	}
}

// WithLoadTimeout bounds a single source load.
func WithLoadTimeout(d time.Duration) Option {
	return func(r *Refresher) {
		r.loadTimeout = d
	}
}

// Refresher owns the only write path into a suggestion.Store.
type Refresher struct {
	source      source.Source
	store       *suggestion.Store
	interval    time.Duration
	clock       clock.WithTicker
	normalize   suggestion.Normalizer
	loadTimeout time.Duration

	mu     sync.Mutex
	loaded atomic.Bool
}

// New creates a Refresher writing into store.
func New(src source.Source, store *suggestion.Store, opts ...Option) (*Refresher, error) {
	if src == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "source is required")
	}
	if store == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "store is required")
	}

	r := &Refresher{
		source:      src,
		store:       store,
		interval:    defaults.RefreshInterval,
		clock:       clock.RealClock{},
		loadTimeout: defaults.SourceLoadTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.interval < defaults.MinRefreshInterval {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "refresh interval too short",
			map[string]any{"interval": r.interval.String(), "minimum": defaults.MinRefreshInterval.String()})
	}

	return r, nil
}

// Interval returns the reload period.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Loaded reports whether at least one reload has succeeded.
func (r *Refresher) Loaded() bool {
	return r.loaded.Load()
}

// Reload loads the source once and replaces the store snapshot. On error
// the store is left untouched.
func (r *Refresher) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.clock.Now()
	defer func() {
		reloadDuration.Observe(r.clock.Since(start).Seconds())
	}()

	loadCtx := ctx
	if r.loadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, r.loadTimeout)
		defer cancel()
	}

	records, err := r.source.Load(loadCtx)
	if err != nil {
		code := apperrors.CodeOf(err)
		if ctx.Err() == nil && errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
			code = apperrors.ErrCodeTimeout
		}
		reloadsTotal.WithLabelValues(string(code)).Inc()
		return apperrors.WrapWithContext(code, "failed to reload suggestions", err,
			map[string]any{"source": r.source.String()})
	}

	idx := suggestion.NewIndex(records, r.normalize)
	r.store.Replace(idx)
	r.loaded.Store(true)

	reloadsTotal.WithLabelValues(resultSuccess).Inc()
	lastSuccessTimestamp.Set(float64(r.clock.Now().Unix()))
	indexIdentifiers.Set(float64(idx.Len()))
	indexEntries.Set(float64(idx.Entries()))

	slog.Info("suggestions reloaded",
		"source", r.source.String(),
		"records", len(records),
		"identifiers", idx.Len(),
		"entries", idx.Entries())

	return nil
}

// Start reloads on every tick until ctx is done. Failures are logged and
// the previous snapshot keeps serving.
func (r *Refresher) Start(ctx context.Context) error {
	slog.Info("refresher started", "source", r.source.String(), "interval", r.interval.String())

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresher stopped")
			return nil
		case <-ticker.C():
			if err := r.Reload(ctx); err != nil {
				slog.Error("reload failed, keeping previous suggestions",
					"source", r.source.String(),
					"code", string(apperrors.CodeOf(err)),
					"error", err)
			}
		}
	}
}
