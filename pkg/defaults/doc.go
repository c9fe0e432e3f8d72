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

// Package defaults provides centralized configuration constants for suggestd.
//
// This package defines refresh intervals, timeout values and size limits used
// across the codebase. Centralizing these values keeps the server, the
// refresher and the data sources consistent.
//
// # Categories
//
//   - Refresh: how often the suggestion data is reloaded
//   - Server timeouts: HTTP server configuration
//   - Source timeouts: loading data from files, URLs, ConfigMaps and registries
//   - HTTP client timeouts: outbound requests made by remote sources
//   - Limits: request and document size caps
//
// # Usage
//
//	import "github.com/NVIDIA/suggestd/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SourceLoadTimeout)
//	defer cancel()
package defaults
