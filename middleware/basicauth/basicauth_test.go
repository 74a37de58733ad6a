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

package basicauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/relay/codec"
	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router"
)

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []Option
		path       string
		auth       string
		wantStatus int
		wantUser   string
	}{
		{name: "valid", auth: basic("admin", "secret"), wantStatus: http.StatusOK, wantUser: "admin"},
		{name: "wrong password", auth: basic("admin", "nope"), wantStatus: http.StatusUnauthorized},
		{name: "unknown user", auth: basic("eve", "secret"), wantStatus: http.StatusUnauthorized},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "bearer scheme", auth: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "bad base64", auth: "Basic !!!", wantStatus: http.StatusUnauthorized},
		{name: "no colon", auth: "Basic " + base64.StdEncoding.EncodeToString([]byte("admin")), wantStatus: http.StatusUnauthorized},
		{name: "skipped path", path: "/health", wantStatus: http.StatusOK},
		{
			name:       "custom validator",
			opts:       []Option{WithValidator(func(u, p string) bool { return u == p })},
			auth:       basic("same", "same"),
			wantStatus: http.StatusOK,
			wantUser:   "same",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			var user string
			opts := append([]Option{
				WithUsers(map[string]string{"admin": "secret"}),
				WithRealm("Admin"),
				WithSkipPaths("/health"),
			}, tt.opts...)

			r := router.MustNew()
			r.Use(New(opts...))
			handler := router.Infallible(router.NoInput(), codec.String(), func(ctx context.Context, _ router.In[struct{}]) string {
				calls.Add(1)
				user = Username(ctx)
				return "ok"
			})
			r.GET("/", handler)
			r.GET("/health", handler)

			path := tt.path
			if path == "" {
				path = "/"
			}
			req := router.NewRequest(context.Background(), http.MethodGet, path, "")
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}

			resp, err := r.Dispatch(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode())

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="Admin"`, resp.Header.Get("WWW-Authenticate"))
				assert.Equal(t, "Unauthorized", resp.Body)
				assert.Zero(t, calls.Load())
				return
			}
			assert.Equal(t, int32(1), calls.Load())
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestBasicAuth_OtherErrorsUntouched(t *testing.T) {
	t.Parallel()

	m := New()
	other := riverrors.New(http.StatusUnauthorized, "Unauthorized")

	resp, err := m.After(context.Background(), nil, other)
	assert.Nil(t, resp)
	require.ErrorIs(t, err, other)
}
