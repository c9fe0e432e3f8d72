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

// Package serializer decodes suggestion data documents and writes HTTP
// responses.
//
// Supported document formats:
//   - JSON: the canonical suggestions.json layout
//   - YAML: the same records expressed in YAML
//
// Decoding:
//
//	records, err := serializer.Decode[[]suggestion.Input](serializer.FormatJSON, data)
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, resp)
//	serializer.RespondText(w, http.StatusBadRequest, "text/html", "Not Found")
//
// Remote documents are fetched with HttpReader, which applies connection,
// TLS and size limits to every request.
package serializer
