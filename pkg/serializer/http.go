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

package serializer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/suggestd/pkg/defaults"
)

// RespondJSON writes a JSON response with the given status code and data.
// It buffers the JSON encoding before writing headers to prevent partial responses.
// The body is the compact document only: no trailing newline and no HTML
// escaping of <, > or &.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Serialize first to detect errors before writing headers
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

// RespondText writes body verbatim with the given content type and status.
func RespondText(w http.ResponseWriter, statusCode int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if _, err := io.WriteString(w, body); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

const (
	HttpReaderUserAgent = "suggestd/1.0"
)

var (
	HttpReaderDefaultTimeout               = defaults.HTTPClientTimeout
	HttpReaderDefaultKeepAlive             = defaults.HTTPKeepAlive
	HttpReaderDefaultConnectTimeout        = defaults.HTTPConnectTimeout
	HttpReaderDefaultTLSHandshakeTimeout   = defaults.HTTPTLSHandshakeTimeout
	HttpReaderDefaultResponseHeaderTimeout = defaults.HTTPResponseHeaderTimeout
	HttpReaderDefaultIdleConnTimeout       = defaults.HTTPIdleConnTimeout
	HttpReaderDefaultMaxBytes        int64 = defaults.MaxDocumentBytes
)

// StatusError is returned when the remote end answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch data from %s: status code %d", e.URL, e.StatusCode)
}

// HttpReaderOption defines a configuration option for HttpReader.
type HttpReaderOption func(*HttpReader)

// HttpReader fetches documents over HTTP with bounded time and size.
type HttpReader struct {
	UserAgent             string
	TotalTimeout          time.Duration
	ConnectTimeout        time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration
	MaxBytes              int64
	InsecureSkipVerify    bool
	Client                *http.Client
}

// WithUserAgent sets the User-Agent header for HTTP requests.
func WithUserAgent(userAgent string) HttpReaderOption {
	return func(r *HttpReader) {
		r.UserAgent = userAgent
	}
}

// WithTotalTimeout sets the overall request timeout.
func WithTotalTimeout(timeout time.Duration) HttpReaderOption {
	return func(r *HttpReader) {
		r.TotalTimeout = timeout
	}
}

// WithMaxBytes caps the response body size.
func WithMaxBytes(n int64) HttpReaderOption {
	return func(r *HttpReader) {
		r.MaxBytes = n
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) HttpReaderOption {
	return func(r *HttpReader) {
		r.InsecureSkipVerify = skip
	}
}

// WithClient overrides the HTTP client. Timeouts configured on the reader
// are not applied to a caller-supplied client.
func WithClient(client *http.Client) HttpReaderOption {
	return func(r *HttpReader) {
		r.Client = client
	}
}

// NewHttpReader creates a new HttpReader with the specified options.
func NewHttpReader(options ...HttpReaderOption) *HttpReader {
	r := &HttpReader{
		UserAgent:             HttpReaderUserAgent,
		TotalTimeout:          HttpReaderDefaultTimeout,
		ConnectTimeout:        HttpReaderDefaultConnectTimeout,
		TLSHandshakeTimeout:   HttpReaderDefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: HttpReaderDefaultResponseHeaderTimeout,
		IdleConnTimeout:       HttpReaderDefaultIdleConnTimeout,
		MaxBytes:              HttpReaderDefaultMaxBytes,
	}
	for _, opt := range options {
		opt(r)
	}
	r.apply()
	return r
}

func (r *HttpReader) apply() {
	if r.Client != nil {
		return
	}

	r.Client = &http.Client{
		Timeout: r.TotalTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   r.ConnectTimeout,
				KeepAlive: HttpReaderDefaultKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   r.TLSHandshakeTimeout,
			ResponseHeaderTimeout: r.ResponseHeaderTimeout,
			IdleConnTimeout:       r.IdleConnTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			ForceAttemptHTTP2:     true,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: r.InsecureSkipVerify, //nolint:gosec // opt-in for private endpoints
				MinVersion:         tls.VersionTLS12,
			},
		},
	}
}

// Read fetches the document at url using a background context.
func (r *HttpReader) Read(url string) ([]byte, error) {
	return r.ReadWithContext(context.Background(), url)
}

// ReadWithContext fetches the document at url. Non-200 responses are
// returned as *StatusError; bodies larger than MaxBytes are rejected.
func (r *HttpReader) ReadWithContext(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", r.UserAgent)

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body := io.Reader(resp.Body)
	if r.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, r.MaxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	if r.MaxBytes > 0 && int64(len(data)) > r.MaxBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, r.MaxBytes)
	}

	slog.Debug("fetched document", "url", url, "bytes", len(data))
	return data, nil
}
