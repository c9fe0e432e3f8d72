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

// Package api is the composition root of the suggestd server.
//
// Usage:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	if err := api.Serve(ctx, cfg); err != nil {
//	    return err
//	}
//
// # Architecture
//
// The API layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Building the suggestion store, data source and refresher
//   - Performing the initial load; a failure there is fatal
//   - Running the HTTP server and the refresher until shutdown
//   - Notifying systemd (READY=1 / STOPPING=1) when run as a notify service
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - POST /v1/api/suggest - ranked suggestions for {"input": "<id>"}
//
// Admin Endpoints (admin port only, no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check, 200 once suggestions are loaded
//   - GET /metrics - Prometheus metrics
//
// Example:
//
//	curl -X POST -d '{"input":"a"}' http://localhost:8080/v1/api/suggest
//	{"suggestions":[{"text":"y","position":0},{"text":"x","position":1}]}
//
//	curl http://localhost:9090/ready   # with --admin-port 9090
package api
