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

// Package basicauth provides HTTP Basic Authentication as a router middleware.
package basicauth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/middleware"
	"rivaas.dev/relay/router"
)

// New returns a middleware that requires HTTP Basic Authentication.
//
// The pre step short-circuits with a 401 when the Authorization header is
// missing, malformed or wrong; the handler does not run. The after step turns
// that 401 into a response carrying the WWW-Authenticate challenge, so
// clients are prompted for credentials. Other errors pass through untouched.
//
// Basic usage:
//
//	r.Use(basicauth.New(
//	    basicauth.WithUsers(map[string]string{"admin": "secret"}),
//	    basicauth.WithRealm("Admin Area"),
//	))
//
// Custom validator:
//
//	r.Use(basicauth.New(
//	    basicauth.WithValidator(func(username, password string) bool {
//	        return db.CheckCredentials(username, password)
//	    }),
//	))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	challenge := `Basic realm="` + cfg.realm + `"`
	unauthorized := riverrors.ShortCircuit(http.StatusUnauthorized, cfg.message)

	pre := func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
		if err != nil {
			return nil, err
		}
		if cfg.skipPaths[req.Path] {
			return req, nil
		}

		username, ok := cfg.authenticate(req.Header.Get("Authorization"))
		if !ok {
			return nil, unauthorized
		}
		return req.WithContext(context.WithValue(ctx, middleware.AuthUsernameKey, username)), nil
	}

	after := func(_ context.Context, resp *router.Response, err error) (*router.Response, error) {
		if err != unauthorized { //nolint:errorlint // identity check against our own value
			return resp, err
		}
		h := make(http.Header)
		h.Set("WWW-Authenticate", challenge)
		h.Set("Content-Type", "text/plain; charset=utf-8")
		return &router.Response{Status: http.StatusUnauthorized, Header: h, Body: cfg.message}, nil
	}

	return router.Middleware{Pre: pre, After: after}
}

// authenticate parses a Basic Authorization header and checks it.
func (cfg *config) authenticate(auth string) (string, bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(auth[len(prefix):])
	if err != nil {
		return "", false
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", false
	}

	if cfg.validator != nil {
		return username, cfg.validator(username, password)
	}

	expected, exists := cfg.users[username]
	if !exists {
		// Compare anyway so unknown users take as long as wrong passwords.
		subtle.ConstantTimeCompare([]byte(password), []byte(password))
		return "", false
	}
	return username, subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

// Username returns the authenticated username from the context, or "".
func Username(ctx context.Context) string {
	if username, ok := ctx.Value(middleware.AuthUsernameKey).(string); ok {
		return username
	}
	return ""
}
