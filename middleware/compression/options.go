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
package compression

import (
	"compress/gzip"
	"log/slog"
	"strings"
)

// Option defines functional options for compression middleware configuration.
type Option func(*config)

type config struct {
	logger *slog.Logger

	gzipLevel   int
	brotliLevel int
	minSize     int

	enableGzip   bool
	enableBrotli bool

	excludePaths        map[string]bool
	excludeExtensions   []string
	excludeContentTypes []string
}

func defaultConfig() *config {
	return &config{
		logger:       slog.New(slog.DiscardHandler),
		gzipLevel:    gzip.DefaultCompression,
		brotliLevel:  4, // Conservative for dynamic content
		enableGzip:   true,
		enableBrotli: true,
		excludePaths: make(map[string]bool),
		// Already compressed or streamed.
		excludeContentTypes: []string{"text/event-stream", "application/grpc", "application/octet-stream"},
	}
}

func (cfg *config) excluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, ext := range cfg.excludeExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// WithGzipLevel sets the gzip level, from gzip.HuffmanOnly to
// gzip.BestCompression. Out-of-range values are ignored.
// Default: gzip.DefaultCompression.
func WithGzipLevel(level int) Option {
	return func(cfg *config) {
		if level >= gzip.HuffmanOnly && level <= gzip.BestCompression {
			cfg.gzipLevel = level
		}
	}
}

// WithBrotliLevel sets the Brotli level, clamped to [0, 11].
// For dynamic content, use 4-5. Higher levels are CPU-expensive.
// Default: 4.
func WithBrotliLevel(level int) Option {
	return func(cfg *config) {
		cfg.brotliLevel = max(0, min(level, 11))
	}
}

// WithBrotliDisabled disables Brotli compression (gzip only).
func WithBrotliDisabled() Option {
	return func(cfg *config) {
		cfg.enableBrotli = false
	}
}

// WithGzipDisabled disables gzip compression (Brotli only).
func WithGzipDisabled() Option {
	return func(cfg *config) {
		cfg.enableGzip = false
	}
}

// WithMinSize leaves bodies shorter than size bytes uncompressed.
// Default: 0, every body is compressed.
func WithMinSize(size int) Option {
	return func(cfg *config) {
		cfg.minSize = max(0, size)
	}
}

// WithExcludePaths disables compression for exact request paths.
//
// Example:
//
//	compression.New(compression.WithExcludePaths("/metrics", "/stream"))
func WithExcludePaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.excludePaths[path] = true
		}
	}
}

// WithExcludeExtensions disables compression for paths ending in one of
// the given extensions, such as ".png" or ".zip".
func WithExcludeExtensions(extensions ...string) Option {
	return func(cfg *config) {
		cfg.excludeExtensions = append(cfg.excludeExtensions, extensions...)
	}
}

// WithExcludeContentTypes disables compression for responses whose
// Content-Type contains one of the given values. The streaming and binary
// defaults stay excluded.
func WithExcludeContentTypes(types ...string) Option {
	return func(cfg *config) {
		for _, ct := range types {
			cfg.excludeContentTypes = append(cfg.excludeContentTypes, strings.ToLower(ct))
		}
	}
}

// WithLogger logs encoder failures. The uncompressed response is sent
// in that case.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
