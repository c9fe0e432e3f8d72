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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)

	assert.NotNil(t, s.config)
	assert.NotNil(t, s.httpServer)
	assert.NotNil(t, s.rateLimiter)
	assert.NotNil(t, s.store)
	assert.True(t, s.httpServer.DisableGeneralOptionsHandler)
	assert.Equal(t, "suggestd", s.name)
}

func TestNew_Options(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 9999
	store := suggestion.NewStore()

	s := New(WithName("test"), WithVersion("v1.2.3"), WithConfig(cfg), WithStore(store), WithConfig(nil))

	assert.Equal(t, "test", s.name)
	assert.Equal(t, "v1.2.3", s.version)
	assert.Same(t, cfg, s.config)
	assert.Same(t, store, s.store)
	assert.Equal(t, ":9999", s.httpServer.Addr)
}

func serveAdmin(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.AdminHandler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	w := serveAdmin(s, http.MethodGet, HealthPath)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		ready          bool
		loaded         func() bool
		expectedStatus int
		expectedState  string
	}{
		{"not serving", false, nil, http.StatusServiceUnavailable, "not_ready"},
		{"serving without loader", true, nil, http.StatusOK, "ready"},
		{"serving not loaded", true, func() bool { return false }, http.StatusServiceUnavailable, "not_ready"},
		{"serving and loaded", true, func() bool { return true }, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithLoaded(tt.loaded))
			s.SetReady(tt.ready)

			w := serveAdmin(s, http.MethodGet, ReadyPath)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedState, resp.Status)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, scenarioRecords)
	serve(s, http.MethodPost, SuggestPath, `{"input":"a"}`)

	w := serveAdmin(s, http.MethodGet, MetricsPath)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "suggestd_suggest_lookups_total")
	assert.Contains(t, w.Body.String(), "suggestd_http_requests_total")
}

func TestAdminHandler_Routes(t *testing.T) {
	s := New()

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"health", http.MethodGet, HealthPath, http.StatusOK},
		{"post health", http.MethodPost, HealthPath, http.StatusMethodNotAllowed},
		{"suggest not routed", http.MethodPost, SuggestPath, http.StatusNotFound},
		{"unknown", http.MethodGet, "/other", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAdmin(s, tt.method, tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandler_AdminPathsGoThroughSuggestPipeline(t *testing.T) {
	s := newTestServer(t, scenarioRecords)

	for _, target := range []string{HealthPath, ReadyPath, MetricsPath} {
		t.Run(target, func(t *testing.T) {
			w := serve(s, http.MethodGet, target, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
			assert.Equal(t, ReasonUnknownMethod, w.Body.String())
		})
	}
}

// startServer runs s on a loopback listener and returns its address.
func startServer(t *testing.T, s *Server) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	})

	return ln.Addr().String(), cancel, done
}

// rawRequest writes req verbatim and returns the response and whether the
// server closed the connection afterwards.
func rawRequest(t *testing.T, addr, req string) (*http.Response, string, bool) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = io.WriteString(conn, req)
	require.NoError(t, err)

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = br.ReadByte()
	return resp, string(body), err == io.EOF
}

func TestServe_RawTargets(t *testing.T) {
	s := newTestServer(t, scenarioRecords)
	addr, _, _ := startServer(t, s)

	body := `{"input":"a"}`
	post := func(target string) string {
		return "POST " + target + " HTTP/1.1\r\nHost: test\r\nContent-Type: application/json\r\n" +
			"Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body
	}

	tests := []struct {
		name       string
		req        string
		wantStatus int
		wantBody   string
	}{
		{"success", post(SuggestPath), http.StatusOK, `{"suggestions":[{"text":"y","position":0},{"text":"x","position":1}]}`},
		{"uncleaned traversal", post("/v1/api/../api/suggest"), http.StatusBadRequest, ReasonIllegalTarget},
		{"absolute form", post("http://test/v1/api/suggest"), http.StatusBadRequest, ReasonIllegalTarget},
		{"not found", post("/v1/api/other"), http.StatusBadRequest, ReasonNotFound},
		{"get", "GET /v1/api/suggest HTTP/1.1\r\nHost: test\r\n\r\n", http.StatusBadRequest, ReasonUnknownMethod},
		{"options asterisk", "OPTIONS * HTTP/1.1\r\nHost: test\r\n\r\n", http.StatusBadRequest, ReasonUnknownMethod},
		{"get health", "GET /health HTTP/1.1\r\nHost: test\r\n\r\n", http.StatusBadRequest, ReasonUnknownMethod},
		{"get ready", "GET /ready HTTP/1.1\r\nHost: test\r\n\r\n", http.StatusBadRequest, ReasonUnknownMethod},
		{"get metrics", "GET /metrics HTTP/1.1\r\nHost: test\r\n\r\n", http.StatusBadRequest, ReasonUnknownMethod},
		{"post health", post("/health"), http.StatusBadRequest, ReasonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, got, closed := rawRequest(t, addr, tt.req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.True(t, closed, "connection should be closed after one response")
			assert.True(t, resp.Close, "response should carry Connection: close")
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
				assert.Equal(t, tt.wantBody, got)
			} else {
				assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
				assert.Equal(t, tt.wantBody, got)
			}
		})
	}
}

func TestServe_KeepAliveIgnored(t *testing.T) {
	s := newTestServer(t, scenarioRecords)
	addr, _, _ := startServer(t, s)

	body := `{"input":"a"}`
	resp, _, closed := rawRequest(t, addr,
		"POST /v1/api/suggest HTTP/1.1\r\nHost: test\r\nConnection: keep-alive\r\n"+
			"Content-Length: "+strconv.Itoa(len(body))+"\r\n\r\n"+body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, closed)
}

func TestServeAdmin(t *testing.T) {
	s := newTestServer(t, scenarioRecords)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeAdmin(ctx, ln) }()

	client := &http.Client{Timeout: time.Second}
	base := "http://" + ln.Addr().String()

	resp, err := client.Get(base + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the suggest listener is not serving yet
	resp, err = client.Get(base + ReadyPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = client.Get(base + MetricsPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("admin server did not shut down")
	}
}

// freePorts returns n distinct loopback ports that were free when probed.
func freePorts(t *testing.T, n int) []int {
	t.Helper()
	ports := make([]int, 0, n)
	for range n {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()
		ports = append(ports, ln.Addr().(*net.TCPAddr).Port)
	}
	return ports
}

func TestRun_AdminListener(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	ports := freePorts(t, 2)
	cfg.Port, cfg.AdminPort = ports[0], ports[1]
	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + cfg.AdminAddr() + ReadyPath)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	resp, body, _ := rawRequest(t, cfg.Addr(), "GET /health HTTP/1.1\r\nHost: test\r\n\r\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ReasonUnknownMethod, body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, scenarioRecords)
	addr, cancel, done := startServer(t, s)

	require.Eventually(t, func() bool {
		ok, _ := s.readiness()
		return ok
	}, time.Second, 5*time.Millisecond)

	client := &http.Client{Timeout: time.Second}
	resp, err := client.Post("http://"+addr+SuggestPath, "application/json", strings.NewReader(`{"input":"a"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	ok, _ := s.readiness()
	assert.False(t, ok)

	_, err = client.Get("http://" + addr + HealthPath)
	assert.Error(t, err)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = -5
	s := New(WithConfig(cfg))

	assert.Error(t, s.Run(context.Background()))
}

func TestRun_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	cfg := NewConfig()
	cfg.Address = host
	cfg.Port, err = strconv.Atoi(port)
	require.NoError(t, err)
	s := New(WithConfig(cfg))

	assert.Error(t, s.Run(context.Background()))
}
