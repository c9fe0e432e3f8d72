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

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Admin endpoint paths, served only on the admin listener.
const (
	HealthPath  = "/health"
	ReadyPath   = "/ready"
	MetricsPath = "/metrics"
)

// setupRoutes returns the suggest listener's handler. Every request, whatever
// its method or target, goes through the suggest pipeline so the raw
// request-target reaches validation unaltered.
func (s *Server) setupRoutes() http.Handler {
	return s.withMiddleware(s.handleSuggest)
}

// setupAdminRoutes configures the admin listener's routes.
func (s *Server) setupAdminRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	mux.HandleFunc("GET "+ReadyPath, s.handleReady)
	mux.Handle("GET "+MetricsPath, promhttp.Handler())

	return mux
}
