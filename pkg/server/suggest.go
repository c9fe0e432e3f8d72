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
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/NVIDIA/suggestd/pkg/serializer"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// SuggestPath is the only target the suggest pipeline accepts.
const SuggestPath = "/v1/api/suggest"

// handleSuggest handles POST /v1/api/suggest.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeProtocolError(w, ReasonUnknownMethod)
		return
	}

	target := r.RequestURI
	if !validTarget(target) {
		writeProtocolError(w, ReasonIllegalTarget)
		return
	}

	if target != SuggestPath {
		writeProtocolError(w, ReasonNotFound)
		return
	}

	id, err := readInput(w, r, s.config.MaxBodyBytes)
	if err != nil {
		slog.Debug("rejecting request body",
			"requestID", r.Context().Value(contextKeyRequestID),
			"error", err)
		writeProtocolError(w, ReasonBadRequest)
		return
	}

	entries := s.store.Get(id)
	if len(entries) == 0 {
		suggestLookups.WithLabelValues("miss").Inc()
	} else {
		suggestLookups.WithLabelValues("hit").Inc()
	}

	w.Header().Set("Connection", "close")
	serializer.RespondJSON(w, http.StatusOK, suggestion.NewResponse(entries))
}

// validTarget reports whether target is an origin-form path without
// parent-directory segments.
func validTarget(target string) bool {
	return target != "" && target[0] == '/' && !strings.Contains(target, "..")
}

var (
	errBodyNotObject = errors.New("body is not a JSON object")
	errInputMissing  = errors.New(`"input" must be a string`)
)

// readInput reads at most limit bytes of body and extracts the "input" field.
func readInput(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		return "", errBodyNotObject
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return "", errBodyNotObject
	}

	input := doc.Get("input")
	if input.Type != gjson.String {
		return "", errInputMissing
	}
	return input.String(), nil
}
