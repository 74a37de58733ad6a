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
package cors

import "net/http"

// Option defines functional options for cors middleware configuration.
type Option func(*config)

type config struct {
	allowedOrigins   map[string]bool
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
}

// defaultConfig is restrictive: no origin is allowed until configured.
func defaultConfig() *config {
	return &config{
		allowedOrigins: make(map[string]bool),
		allowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// WithAllowedOrigins allows the exact origins given, e.g.
// "https://app.example.com".
func WithAllowedOrigins(origins ...string) Option {
	return func(cfg *config) {
		for _, o := range origins {
			cfg.allowedOrigins[o] = true
		}
	}
}

// WithAllowAllOrigins answers every origin. Combined with credentials the
// request origin is echoed, since browsers reject "*" with credentials.
func WithAllowAllOrigins(allow bool) Option {
	return func(cfg *config) {
		cfg.allowAllOrigins = allow
	}
}

// WithAllowOriginFunc decides origins dynamically. It takes precedence over
// WithAllowedOrigins.
func WithAllowOriginFunc(fn func(origin string) bool) Option {
	return func(cfg *config) {
		cfg.allowOriginFunc = fn
	}
}

// WithAllowedMethods replaces the methods announced to preflights.
func WithAllowedMethods(methods ...string) Option {
	return func(cfg *config) {
		cfg.allowedMethods = methods
	}
}

// WithAllowedHeaders replaces the request headers announced to preflights.
func WithAllowedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.allowedHeaders = headers
	}
}

// WithExposedHeaders lists response headers scripts may read.
func WithExposedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.exposedHeaders = headers
	}
}

// WithAllowCredentials allows cookies and Authorization on cross-origin
// requests.
func WithAllowCredentials(allow bool) Option {
	return func(cfg *config) {
		cfg.allowCredentials = allow
	}
}

// WithMaxAge sets how long, in seconds, a preflight may be cached.
// Negative values are ignored. Default: 3600.
func WithMaxAge(seconds int) Option {
	return func(cfg *config) {
		if seconds >= 0 {
			cfg.maxAge = seconds
		}
	}
}
