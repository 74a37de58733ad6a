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
// Package metrics records request metrics for a [router.Router] on an
// OpenTelemetry meter and exports them in the Prometheus format.
//
// A [Recorder] is a [router.Observer]: attach it with [router.WithObserver]
// and expose its registry with [Recorder.Handler]. Call [Recorder.Shutdown]
// when the process stops.
//
// # Basic Usage
//
//	recorder := metrics.MustNew(
//	    metrics.WithNamespace("relay"),
//	    metrics.WithExcludePaths("/metrics", "/health"),
//	)
//	r := router.MustNew(router.WithObserver(recorder))
//	http.Handle("/metrics", recorder.Handler())
//
// # Collected Metrics
//
//   - http_requests_total{method,route,status}: counter
//   - http_request_duration_seconds{method,route}: histogram
//   - http_response_size_bytes{method,route}: histogram
//   - http_requests_in_flight: gauge (an OTel up-down counter)
//
// Routes are labelled by pattern ("/users/{id}"), never by raw path, and
// unmatched requests share the [router.NotFoundRoute] label, so label
// cardinality is bounded by the route table.
//
// # Thread Safety
//
// All [Recorder] methods are safe for concurrent use.
//
// [router.Router]: https://pkg.go.dev/rivaas.dev/relay/router#Router
// [router.Observer]: https://pkg.go.dev/rivaas.dev/relay/router#Observer
// [router.WithObserver]: https://pkg.go.dev/rivaas.dev/relay/router#WithObserver
// [router.NotFoundRoute]: https://pkg.go.dev/rivaas.dev/relay/router#NotFoundRoute
package metrics
