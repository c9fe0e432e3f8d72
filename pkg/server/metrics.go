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
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "suggestd"
	metricsSubsystem = "http"

	labelOther = "other"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "requests_total",
		Help:      "Requests served, by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "request_duration_seconds",
		Help:      "Time from request receipt to the last byte written.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"method", "route"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "response_size_bytes",
		Help:      "Response body size.",
		Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
	}, []string{"route"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "requests_in_flight",
		Help:      "Requests currently being served.",
	})

	rateLimitRejects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "rate_limit_rejects_total",
		Help:      "Requests answered with 429 by the rate limiter.",
	})

	panicRecoveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "panic_recoveries_total",
		Help:      "Handler panics converted into 500 responses.",
	})

	protocolErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "protocol_errors_total",
		Help:      "Requests rejected by the validation pipeline, by reason.",
	}, []string{"reason"})

	suggestLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "suggest_lookups_total",
		Help:      "Identifier lookups, by outcome (hit or miss).",
	}, []string{"outcome"})
)

// routeLabel keeps the route label bounded regardless of the raw target.
func routeLabel(r *http.Request) string {
	if r.RequestURI == SuggestPath {
		return SuggestPath
	}
	return labelOther
}

// methodLabel keeps the method label bounded: any token is a valid method,
// so only the RFC 9110 methods get their own series.
func methodLabel(r *http.Request) string {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return r.Method
	default:
		return labelOther
	}
}

// metricsMiddleware records RED metrics for every request it wraps.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		method, route := methodLabel(r), routeLabel(r)
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(rec.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		httpResponseSize.WithLabelValues(route).Observe(float64(rec.Written()))
	}
}
