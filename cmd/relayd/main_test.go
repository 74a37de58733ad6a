// Copyright 2025 The Rivaas Authors
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
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/relay/logging"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testApp(t *testing.T, configYAML string) *app {
	t.Helper()

	g := &Globals{Config: writeConfig(t, "relay.yaml", configYAML)}
	s, err := g.loadSettings(context.Background())
	require.NoError(t, err)

	a, err := newApp(s, logging.Discard(), io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.close(context.Background()) })
	return a
}

func do(h http.Handler, method, target, body string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for _, fn := range setup {
		fn(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       func(t *testing.T) []string
		wantCode   int
		wantStdout []string
		wantStderr string
	}{
		{
			name:       "routes table",
			args:       func(*testing.T) []string { return []string{"--dotenv=", "routes"} },
			wantStdout: []string{"METHOD", "GET", "/first", "/admin/routes", "body -> body"},
		},
		{
			name: "invalid settings",
			args: func(t *testing.T) []string {
				return []string{"--dotenv=", "--config=" + writeConfig(t, "bad.yaml", "log:\n  format: xml\n"), "routes"}
			},
			wantCode:   1,
			wantStderr: "log.format must be one of",
		},
		{
			name: "unknown log level",
			args: func(*testing.T) []string {
				return []string{"--dotenv=", "--log-level=loud", "routes"}
			},
			wantCode:   1,
			wantStderr: "loud",
		},
		{
			name:       "unknown command",
			args:       func(*testing.T) []string { return []string{"explode"} },
			wantCode:   2,
			wantStderr: "parsing arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args(t), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, stderr.String())
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestApp_Endpoints(t *testing.T) {
	t.Parallel()

	a := testApp(t, "admin:\n  users:\n    ops: s3cret\n")
	auth := func(r *http.Request) { r.SetBasicAuth("ops", "s3cret") }

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		setup      []func(*http.Request)
		wantStatus int
		wantBody   string
	}{
		{name: "hello world", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: "Hello world"},
		{name: "increment", method: http.MethodGet, target: "/first", body: `{"value":1}`, wantStatus: http.StatusOK, wantBody: `{"value":2}`},
		{name: "increment rejects bad json", method: http.MethodGet, target: "/first", body: `{"value":`, wantStatus: http.StatusUnprocessableEntity},
		{name: "convert yaml", method: http.MethodPost, target: "/convert", body: "name: relay\n", wantStatus: http.StatusOK, wantBody: `{"name":"relay"}`},
		{name: "greet", method: http.MethodPost, target: "/greet", body: `{"name":"Ada","language":"fr"}`, wantStatus: http.StatusOK, wantBody: "Bonjour Ada"},
		{name: "greet validates", method: http.MethodPost, target: "/greet", body: `{"language":"de"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "greet rejects unknown fields", method: http.MethodPost, target: "/greet", body: `{"name":"Ada","age":3}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "health", method: http.MethodGet, target: "/health", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "unknown", method: http.MethodGet, target: "/nope", wantStatus: http.StatusNotFound, wantBody: "Not Found"},
		{name: "admin without credentials", method: http.MethodGet, target: "/admin/routes", wantStatus: http.StatusUnauthorized, wantBody: "Unauthorized"},
		{name: "admin with credentials", method: http.MethodGet, target: "/admin/routes", setup: []func(*http.Request){auth}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(a.router, tt.method, tt.target, tt.body, tt.setup...)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestApp_AdminRoutesListsMountedTable(t *testing.T) {
	t.Parallel()

	a := testApp(t, "admin:\n  users:\n    ops: s3cret\n")
	rec := do(a.router, http.MethodGet, "/admin/routes", "", func(r *http.Request) { r.SetBasicAuth("ops", "s3cret") })
	require.Equal(t, http.StatusOK, rec.Code)

	var routes []routeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))

	patterns := make([]string, 0, len(routes))
	for _, r := range routes {
		patterns = append(patterns, r.Method+" "+r.Pattern)
	}
	assert.Equal(t, []string{
		"GET /",
		"GET /admin/routes",
		"POST /convert",
		"OPTIONS /convert",
		"GET /first",
		"POST /greet",
		"OPTIONS /greet",
		"GET /health",
	}, patterns)
}

func TestApp_CrossOriginAndCompression(t *testing.T) {
	t.Parallel()

	a := testApp(t, `
admin:
  users:
    ops: s3cret
cors:
  origins: [https://app.example.com]
compression:
  min_size: 16
`)

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		rec := do(a.router, http.MethodOptions, "/greet", "", func(r *http.Request) {
			r.Header.Set("Origin", "https://app.example.com")
			r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
	})

	t.Run("foreign origin", func(t *testing.T) {
		t.Parallel()

		rec := do(a.router, http.MethodGet, "/", "", func(r *http.Request) {
			r.Header.Set("Origin", "https://evil.example")
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("gzip admin table", func(t *testing.T) {
		t.Parallel()

		rec := do(a.router, http.MethodGet, "/admin/routes", "", func(r *http.Request) {
			r.SetBasicAuth("ops", "s3cret")
			r.Header.Set("Origin", "https://app.example.com")
			r.Header.Set("Accept-Encoding", "gzip")
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		assert.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))

		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		var routes []routeView
		require.NoError(t, json.NewDecoder(zr).Decode(&routes))
		assert.NotEmpty(t, routes)
	})

	t.Run("health stays plain", func(t *testing.T) {
		t.Parallel()

		rec := do(a.router, http.MethodGet, "/health", "", func(r *http.Request) {
			r.Header.Set("Accept-Encoding", "gzip")
		})
		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, "ok", rec.Body.String())
	})
}

func TestApp_ObserversAndFormatter(t *testing.T) {
	t.Parallel()

	var spans bytes.Buffer
	g := &Globals{Config: writeConfig(t, "relay.toml", `
[errors]
format = "rfc9457"

[tracing]
stdout = true
`)}
	s, err := g.loadSettings(context.Background())
	require.NoError(t, err)

	a, err := newApp(s, logging.Discard(), &spans)
	require.NoError(t, err)

	rec := do(a.router, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

	do(a.router, http.MethodGet, "/", "")
	m := do(a.recorder.Handler(), http.MethodGet, "/metrics", "")
	assert.Contains(t, m.Body.String(), `relay_http_requests_total{method="GET",route="/",service="relayd",status="200"} 1`)

	require.NoError(t, a.close(context.Background()))
	assert.Contains(t, spans.String(), `"Name":"GET /"`)
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Settings {
		s := &Settings{}
		s.Server.Addr = ":8080"
		s.Server.MaxBodyBytes = 1
		s.Log.Format = "json"
		s.Errors.Format = "plain"
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "empty addr", mutate: func(s *Settings) { s.Server.Addr = "" }, wantErr: "server.addr is required"},
		{name: "zero body size", mutate: func(s *Settings) { s.Server.MaxBodyBytes = 0 }, wantErr: "max_body_bytes"},
		{name: "log format", mutate: func(s *Settings) { s.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "error format", mutate: func(s *Settings) { s.Errors.Format = "html" }, wantErr: "errors.format"},
		{name: "negative min size", mutate: func(s *Settings) { s.Compression.MinSize = -1 }, wantErr: "compression.min_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
