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
package semconv

// Resource attributes. Set once per process.
const (
	ServiceName       = "service.name"
	ServiceVersion    = "service.version"
	DeploymentEnviron = "deployment.environment"
)

// HTTP server attributes.
const (
	// HTTPRequestMethod is the request method as received.
	HTTPRequestMethod = "http.request.method"
	// HTTPRoute is the registered pattern, e.g. "/users/{id}", never the
	// concrete path.
	HTTPRoute = "http.route"
	// URLPath is the concrete request path.
	URLPath                = "url.path"
	HTTPResponseStatusCode = "http.response.status_code"
	HTTPResponseBodySize   = "http.response.body.size"
	ServerAddress          = "server.address"
	UserAgentOriginal      = "user_agent.original"

	// HTTPRequestHeaderPrefix is followed by the lowercased header name.
	HTTPRequestHeaderPrefix = "http.request.header."
)

// Log correlation keys.
const (
	TraceID   = "trace_id"
	SpanID    = "span_id"
	RequestID = "request_id"
)
