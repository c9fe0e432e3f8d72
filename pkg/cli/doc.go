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

// Package cli implements the suggestd command line.
//
// # Usage
//
//	suggestd [flags] <address> <port> <dir>
//
// Serves POST /v1/api/suggest on address:port using <dir>/suggestions.json,
// reloaded every 15 minutes. An empty address binds all interfaces.
//
//	suggestd 0.0.0.0 8080 /srv/suggestd
//	suggestd --source cm://prod/suggestions 0.0.0.0 8080 /
//	suggestd --config /etc/suggestd.yaml --log-level debug 127.0.0.1 8080 .
//
// # Flags
//
//	--config            YAML config file (env: SUGGESTD_CONFIG)
//	--log-level         debug, info, warn, error
//	--source            data location overriding <dir>
//	--refresh-interval  reload period (default: 15m)
//	--normalize-ids     Unicode NFC-normalize identifiers
//	--help, -h          Show command help
//	--version, -v       Show version information
//
// Positional arguments take precedence over the config file and the
// environment. A failure to start, including a missing or unparsable data
// document, exits with status 1.
package cli
