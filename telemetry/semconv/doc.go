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
// Package semconv holds the attribute keys shared by the relay telemetry
// packages, so spans, access logs and logger metadata name the same thing
// the same way.
//
// Span attributes follow the OpenTelemetry HTTP server conventions. Log
// correlation keys use the flat trace_id/span_id spelling most log
// backends index by default.
//
//	span.SetAttributes(attribute.String(semconv.HTTPRoute, "/users/{id}"))
//	logger.Info("access", semconv.RequestID, id)
package semconv
