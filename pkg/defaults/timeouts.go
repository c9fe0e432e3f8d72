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

package defaults

import "time"

// Refresh settings for the suggestion data.
const (
	// RefreshInterval is the period between two reloads of the suggestion data.
	RefreshInterval = 15 * time.Minute

	// MinRefreshInterval guards against configurations that would reload
	// the data in a tight loop.
	MinRefreshInterval = time.Second
)

// Source timeouts for loading suggestion data.
const (
	// SourceLoadTimeout bounds a single load of the suggestion data,
	// regardless of where it comes from.
	SourceLoadTimeout = 60 * time.Second

	// FileLockTimeout is how long a file source waits for a shared lock
	// on the data file before giving up on the cycle.
	FileLockTimeout = 10 * time.Second

	// FileLockRetryDelay is the polling interval while waiting for the lock.
	FileLockRetryDelay = 100 * time.Millisecond

	// ConfigMapReadTimeout is the timeout for reading a ConfigMap.
	ConfigMapReadTimeout = 30 * time.Second

	// OCIPullTimeout is the timeout for pulling a data artifact from a registry.
	OCIPullTimeout = 2 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading the entire request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Size limits.
const (
	// MaxRequestBodyBytes caps the body of a suggest request.
	MaxRequestBodyBytes int64 = 64 << 10

	// MaxDocumentBytes caps the size of a suggestion data document.
	MaxDocumentBytes int64 = 256 << 20
)
