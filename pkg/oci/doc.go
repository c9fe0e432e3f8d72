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

// Package oci pulls suggestion data documents out of OCI artifacts.
//
// A data location of the form
//
//	oci://ghcr.io/org/suggestions:v1#suggestions.json
//
// names a registry repository, a tag (or digest) and the file inside the
// artifact. The file is matched against the org.opencontainers.image.title
// annotation of the manifest layers, which is how `oras push` records file
// names. When the fragment is omitted and the manifest has exactly one layer,
// that layer is used.
//
// Credentials are loaded from the Docker configuration (~/.docker/config.json)
// through the ORAS credentials package.
package oci
