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

// Package server implements the suggestd HTTP endpoint.
//
// # Architecture
//
// Every accepted connection is served on its own goroutine and closed after
// a single response; keep-alives are disabled. Every request on the suggest
// listener enters the suggest pipeline with its raw request-target, never a
// cleaned path.
//
// GET /health, GET /ready and GET /metrics are served on a separate admin
// listener (Config.AdminPort, disabled when zero). On the suggest listener
// those targets are ordinary protocol errors.
//
// The suggest pipeline runs behind metrics, request ID, panic recovery, rate
// limiting and logging middleware, then validates in order:
//
//  1. method must be POST, else 400 "Unknown HTTP-method"
//  2. target must start with "/" and not contain "..", else 400 "Illegal request-target"
//  3. target must equal /v1/api/suggest, else 400 "Not Found"
//  4. body must be a JSON object with a string "input", else 400 "Bad Request"
//
// Validation failures answer with Content-Type text/html and the reason as
// the body. A valid request answers 200 with
//
//	{"suggestions":[{"text":"y","position":0},{"text":"x","position":1}]}
//
// # Usage
//
//	store := suggestion.NewStore()
//	s := server.New(
//	    server.WithName("suggestd"),
//	    server.WithVersion(version),
//	    server.WithConfig(cfg),
//	    server.WithStore(store),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Observability
//
// All suggest requests accept an optional X-Request-Id header (UUID format).
// If not provided, the server generates one. Prometheus metrics are served on
// GET /metrics on the admin listener.
//
// Rate Limiting:
//
//	Token bucket (golang.org/x/time/rate) on the suggest pipeline. Rejected
//	requests receive 429 with a JSON ErrorResponse and Retry-After: 1.
package server
