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

// Package timeout bounds how long a route may run.
//
// The pre step gives the request a context with a deadline. Handlers that
// honour ctx.Done() return early; the after step then turns any outcome
// observed past the deadline into a 408.
package timeout

import (
	"context"
	"errors"
	"net/http"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router"
)

type cancelKey struct{}

// New returns a timeout middleware.
//
// Example:
//
//	r.Use(timeout.New(timeout.WithDuration(5 * time.Second)))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	pre := func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
		if err != nil {
			return nil, err
		}
		if cfg.skipPaths[req.Path] {
			return req, nil
		}

		tctx, cancel := context.WithTimeout(ctx, cfg.duration)
		tctx = context.WithValue(tctx, cancelKey{}, cancel)
		return req.WithContext(tctx), nil
	}

	after := func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
		cancel, ok := ctx.Value(cancelKey{}).(context.CancelFunc)
		if !ok {
			return resp, err
		}
		expired := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()

		if !expired {
			return resp, err
		}
		if cfg.logger != nil {
			cfg.logger.WarnContext(ctx, "request timed out", "timeout", cfg.duration.String())
		}
		return nil, riverrors.ShortCircuit(http.StatusRequestTimeout, cfg.message)
	}

	return router.Middleware{Pre: pre, After: after}
}
