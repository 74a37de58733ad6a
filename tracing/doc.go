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
// Package tracing records an OpenTelemetry server span for every request
// served by a relay router.
//
// A [Tracer] is a router.Observer. Spans are named "METHOD pattern", for
// example "GET /users/{id}", and carry the route, status and body size.
// Responses with a 5xx status mark the span as an error.
//
// # Basic Usage
//
//	tp, err := tracing.NewStdoutProvider(os.Stdout, "orders", "v1.2.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tp.Shutdown(context.Background())
//
//	tracer := tracing.MustNew(tracing.WithTracerProvider(tp))
//	r := router.MustNew(router.WithObserver(tracer))
//
// # Context Propagation
//
// Incoming W3C trace context and baggage headers are extracted, so the
// server span joins the caller's trace. Handlers reach the span through the
// request context with trace.SpanFromContext.
//
// # Security
//
// Sensitive headers (Authorization, Cookie, X-API-Key, etc.) are never
// recorded, even when named in [WithHeaders].
package tracing
