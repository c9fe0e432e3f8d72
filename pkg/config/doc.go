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

// Package config assembles the suggestd runtime configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults
//  2. an optional YAML file (--config or SUGGESTD_CONFIG)
//  3. environment variables
//  4. command line arguments and flags
//
// Example file:
//
//	server:
//	  address: 0.0.0.0
//	  port: 8080
//	  rate_limit: 500
//	  rate_limit_burst: 1000
//	  shutdown_timeout: 30s
//	data:
//	  dir: /srv/suggestd
//	  source: cm://prod/suggestions#suggestions.json
//	  refresh_interval: 15m
//	  normalize_ids: false
//	logging:
//	  level: info
//
// Recognized environment variables: PORT, LOG_LEVEL, SUGGEST_SOURCE,
// REFRESH_INTERVAL and SHUTDOWN_TIMEOUT_SECONDS.
package config
