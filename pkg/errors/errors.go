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

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure independently of its message.
type ErrorCode string

const (
	// ErrCodeNotFound: the data document or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTimeout: a load or request exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal: anything not otherwise classified.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest: malformed input, configuration or data.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeRateLimitExceeded: the client exceeded the request budget.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeUnavailable: a remote data source could not be reached.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// StructuredError carries a code, a message, an optional cause and
// optional key/value context for logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is matches another *StructuredError with the same code, so callers can
// test a chain with errors.Is(err, errors.New(ErrCodeNotFound, "")).
func (e *StructuredError) Is(target error) bool {
	t, ok := target.(*StructuredError)
	return ok && t.Code == e.Code
}

// New returns an error without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext returns an error without a cause, annotated with context.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap classifies cause under code.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext classifies cause under code, annotated with context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the first StructuredError in err's chain,
// or ErrCodeInternal when there is none. A nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HTTPStatus maps a code to the status used in JSON error responses.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether repeating the operation unchanged may succeed.
func Retryable(code ErrorCode) bool {
	switch code {
	case ErrCodeTimeout, ErrCodeUnavailable, ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}
