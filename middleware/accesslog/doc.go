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

// Package accesslog logs one line per request: method, path, status, bytes,
// duration, request ID and error.
//
// 5xx responses are logged at error level, 4xx and slow requests at warn
// level, everything else at info level.
//
// When the request context carries a valid OpenTelemetry span context, as it
// does once a tracing observer is attached to the router, the line also gets
// trace_id and span_id.
package accesslog
