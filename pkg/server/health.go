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
	"time"

	"github.com/NVIDIA/suggestd/pkg/serializer"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// handleReady handles GET /ready
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if ready, reason := s.readiness(); !ready {
		resp := HealthResponse{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Reason:    reason,
		}
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

func (s *Server) readiness() (bool, string) {
	if !s.ready.Load() {
		return false, "service is not serving"
	}
	if s.loaded != nil && !s.loaded() {
		return false, "suggestions not loaded"
	}
	return true, ""
}
