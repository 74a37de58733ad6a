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

package bodylimit

// Option defines functional options for bodylimit middleware configuration.
type Option func(*config)

type config struct {
	limit     int64
	skipPaths map[string]bool
}

func defaultConfig() *config {
	return &config{
		limit:     2 * 1024 * 1024, // 2MB default
		skipPaths: make(map[string]bool),
	}
}

// WithLimit sets the maximum body size in bytes. Non-positive values are ignored.
// Default: 2MB.
func WithLimit(limit int64) Option {
	return func(cfg *config) {
		if limit > 0 {
			cfg.limit = limit
		}
	}
}

// WithSkipPaths disables the limit for the given request paths.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}
