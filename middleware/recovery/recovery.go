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

// Package recovery turns errors into a fixed response in the after stage.
//
// After steps always run, whether the error came from a pre step, the
// handler or an earlier after step, so a recovery step added last decides
// what clients see for every failure it matches.
package recovery

import (
	"context"
	"net/http"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router"
)

// New returns a middleware whose after step replaces matching errors with
// a response. By default it matches 5xx errors and answers
// 500 "Internal Server Error", hiding internal messages from clients.
//
// Example:
//
//	r.Use(recovery.New(
//	    recovery.WithLogger(logger),
//	    recovery.WithResponse(http.StatusServiceUnavailable, "try again later"),
//	))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return router.Middleware{
		After: func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
			if err == nil {
				return resp, nil
			}
			e := riverrors.From(err)
			if !cfg.matches(e.Status) {
				return resp, err
			}
			if cfg.logger != nil {
				cfg.logger.ErrorContext(ctx, "error recovered",
					"status", e.Status, "kind", e.Kind.String(), "error", e.Body)
			}
			return cfg.handler(ctx, e), nil
		},
	}
}

func (cfg *config) matches(status int) bool {
	if cfg.statuses != nil {
		return cfg.statuses[status]
	}
	return status >= cfg.minStatus
}

func fixedResponse(status int, body string) func(context.Context, *riverrors.Error) *router.Response {
	return func(context.Context, *riverrors.Error) *router.Response {
		h := make(http.Header)
		h.Set("Content-Type", "text/plain; charset=utf-8")
		return &router.Response{Status: status, Header: h, Body: body}
	}
}
