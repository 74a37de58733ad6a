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

package timeout

import (
	"log/slog"
	"time"
)

// Option defines functional options for timeout middleware configuration.
type Option func(*config)

type config struct {
	duration  time.Duration
	message   string
	logger    *slog.Logger
	skipPaths map[string]bool
}

func defaultConfig() *config {
	return &config{
		duration:  30 * time.Second,
		message:   "Request timeout",
		skipPaths: make(map[string]bool),
	}
}

// WithDuration sets the deadline applied to each request.
// Non-positive values are ignored. Default: 30s.
func WithDuration(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.duration = d
		}
	}
}

// WithMessage sets the body of the 408 response.
func WithMessage(msg string) Option {
	return func(cfg *config) {
		cfg.message = msg
	}
}

// WithLogger logs timed-out requests at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithSkipPaths leaves the given request paths without a deadline.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}
