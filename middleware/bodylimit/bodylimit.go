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

// Package bodylimit rejects requests whose body exceeds a size limit.
//
// The router's transport already bounds how much it reads (see
// router.WithMaxBodySize); this middleware sets a tighter limit for a group
// of routes and answers with a 413 before the body is decoded.
package bodylimit

import (
	"context"
	"fmt"
	"net/http"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router"
)

// New returns a middleware whose pre step short-circuits with 413 when the
// request body is longer than the limit.
//
// Example:
//
//	r.Use(bodylimit.New(bodylimit.WithLimit(64 << 10)))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	tooLarge := riverrors.ShortCircuit(http.StatusRequestEntityTooLarge,
		fmt.Sprintf("request entity too large: max %s", formatSize(cfg.limit)))

	return router.Middleware{
		Pre: func(_ context.Context, req *router.Request, err error) (*router.Request, error) {
			if err != nil {
				return nil, err
			}
			if cfg.skipPaths[req.Path] {
				return req, nil
			}
			if int64(len(req.Body)) > cfg.limit {
				return nil, tooLarge
			}
			return req, nil
		},
	}
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	switch {
	case n >= unit*unit*unit:
		return fmt.Sprintf("%.1fGB", float64(n)/(unit*unit*unit))
	case n >= unit*unit:
		return fmt.Sprintf("%.1fMB", float64(n)/(unit*unit))
	case n >= unit:
		return fmt.Sprintf("%.1fKB", float64(n)/unit)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
