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

package router

import (
	"log/slog"
	"time"

	riverrors "rivaas.dev/relay/errors"
)

// Option configures a Router.
type Option func(*Router)

// DefaultMaxBodySize is the request body limit applied by ServeHTTP unless
// WithMaxBodySize says otherwise.
const DefaultMaxBodySize int64 = 4 << 20

type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// WithLogger sets the logger used for registration and transport events.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithErrorFormatter sets how ServeHTTP renders errors.
// The default is [riverrors.NewPlain]: status = code, body = message.
//
// Example:
//
//	r := router.MustNew(router.WithErrorFormatter(errors.NewRFC9457("https://api.example.com/problems")))
func WithErrorFormatter(f riverrors.Formatter) Option {
	return func(r *Router) {
		r.formatter = f
	}
}

// WithMaxBodySize limits how many bytes ServeHTTP reads from a request body.
// Larger bodies reach the route as a 413 error.
//
// Default: 4 MiB. Must be > 0 or validation will fail.
func WithMaxBodySize(n int64) Option {
	return func(r *Router) {
		r.maxBodySize = n
	}
}

// WithDiagnostics sets a diagnostic handler for the router.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithObserver adds an observer for requests served over HTTP.
// Observers start in the order added and end in reverse.
func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithPipeline sets the pipeline that wraps every route registered
// afterwards. Pre, After and Use extend it.
func WithPipeline(p Pipeline) Option {
	return func(r *Router) {
		r.pipeline = p
	}
}

// WithH2C enables HTTP/2 Cleartext support in Serve.
//
// Only use in development or behind a trusted load balancer.
//
// Example:
//
//	r := router.MustNew(router.WithH2C(true))
//	r.Serve(":8080")
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts configures HTTP server timeouts.
//
// Defaults (if not set):
//
//	ReadHeaderTimeout: 5s  - Time to read request headers
//	ReadTimeout:       15s - Time to read entire request
//	WriteTimeout:      30s - Time to write response
//	IdleTimeout:       60s - Keep-alive idle time
//
// Example:
//
//	r := router.MustNew(router.WithServerTimeouts(
//	    10*time.Second,  // ReadHeaderTimeout
//	    30*time.Second,  // ReadTimeout
//	    60*time.Second,  // WriteTimeout
//	    120*time.Second, // IdleTimeout
//	))
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// defaultServerTimeouts returns default timeout configuration.
func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}
