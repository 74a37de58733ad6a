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

/*
Package middleware provides ready-made pipeline steps for rivaas.dev/relay/router.

This package contains shared types and constants. Each middleware is provided
in its own sub-package and returns a [router.Middleware], a pre step and an
after step that share per-request state through the request context.

# Available Middlewares

Security:
  - basicauth: HTTP Basic Authentication, short-circuiting with 401

Observability:
  - accesslog: Structured access logging with sampling and filtering
  - requestid: Request ID generation and echoing

Reliability:
  - recovery: Turns errors into a fixed response in the after stage
  - timeout: Request deadlines
  - bodylimit: Request body size limiting

# Usage Examples

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	r := router.MustNew()
	r.Use(requestid.New())
	r.Use(accesslog.New(accesslog.WithLogger(logger)))
	r.Use(recovery.New())

# Ordering

Pre steps run in the order added and so do after steps. An after step added
later sees what earlier after steps produced, so add recovery last when it
should have the final word.

[router.Middleware]: https://pkg.go.dev/rivaas.dev/relay/router#Middleware
*/
package middleware
