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
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/serializer"
)

// Protocol error reasons returned as text/html bodies.
const (
	ReasonUnknownMethod = "Unknown HTTP-method"
	ReasonIllegalTarget = "Illegal request-target"
	ReasonNotFound      = "Not Found"
	ReasonBadRequest    = "Bad Request"
)

const contentTypeHTML = "text/html"

// writeProtocolError answers a request that failed validation.
func writeProtocolError(w http.ResponseWriter, reason string) {
	protocolErrors.WithLabelValues(reason).Inc()
	w.Header().Set("Connection", "close")
	serializer.RespondText(w, http.StatusBadRequest, contentTypeHTML, reason)
}

// WriteError writes a JSON ErrorResponse whose status and retry hint
// follow from code.
func WriteError(w http.ResponseWriter, r *http.Request, code apperrors.ErrorCode,
	message string, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: apperrors.Retryable(code),
	}

	serializer.RespondJSON(w, apperrors.HTTPStatus(code), errResp)
}
