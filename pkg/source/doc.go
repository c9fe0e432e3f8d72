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

// Package source loads suggestion records from a data location.
//
// A location is one of:
//
//	/srv/data/suggestions.json            local file (plain path or file://)
//	https://example.com/suggestions.json  HTTP(S) document
//	cm://namespace/name[#key]             Kubernetes ConfigMap key
//	oci://registry/repo:tag[#file]        file inside an OCI artifact
//
// Documents are JSON arrays of {"id","name","cost"} objects. Locations
// ending in .yaml or .yml are decoded as YAML with the same shape. Every
// record must carry all three fields; a document with a missing or
// mistyped field is rejected as a whole.
//
// Load failures are returned as *errors.StructuredError: NOT_FOUND when the
// data does not exist, INVALID_REQUEST when it cannot be parsed and
// SERVICE_UNAVAILABLE when a remote end cannot be reached.
package source
