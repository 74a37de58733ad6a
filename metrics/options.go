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
package metrics

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// Option defines functional options for Recorder configuration.
type Option func(*Recorder)

// WithRegistry registers the exporter in reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg == nil {
			return
		}
		r.registerer = reg
		r.gatherer = reg
	}
}

// WithNamespace prefixes every metric name, e.g. "relay_http_requests_total".
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		r.namespace = namespace
	}
}

// WithServiceName adds a service label to every series.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.constAttrs = append(r.constAttrs, attribute.String("service", name))
	}
}

// WithDurationBuckets sets custom histogram bucket boundaries for request duration metrics.
// Buckets are specified in seconds. If not set, DefaultDurationBuckets is used.
//
// Example:
//
//	recorder := metrics.MustNew(
//	    metrics.WithDurationBuckets(0.01, 0.05, 0.1, 0.5, 1, 5), // in seconds
//	)
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets sets custom histogram bucket boundaries for response size metrics.
// Buckets are specified in bytes. If not set, DefaultSizeBuckets is used.
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}

// WithExcludePaths excludes specific paths from metrics collection.
// This is useful for health checks, metrics endpoints, etc.
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		r.pathFilter.addPaths(paths...)
	}
}

// WithExcludePrefixes excludes paths with the given prefixes from metrics collection.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) {
		r.pathFilter.addPrefixes(prefixes...)
	}
}

// WithExcludePatterns excludes paths matching the given regex patterns.
// Invalid patterns make New return an error.
func WithExcludePatterns(patterns ...string) Option {
	return func(r *Recorder) {
		for _, pattern := range patterns {
			compiled, err := regexp.Compile(pattern)
			if err != nil {
				r.validationErrors = append(r.validationErrors,
					fmt.Errorf("invalid regex pattern for path exclusion %q: %w", pattern, err))
				continue
			}
			r.pathFilter.addPatterns(compiled)
		}
	}
}

// WithLogger sets the logger for internal events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
