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

// Package errors defines the failure value shared by routing, middleware and
// handler dispatch, and the formatters that render it at the HTTP boundary.
//
// Every stage of a request reports failure by returning an [*Error], a
// (status, body) pair tagged with a [Kind]:
//   - KindDeserialization: the request body did not decode (422)
//   - KindSerialization: the handler output did not encode (422)
//   - KindHandlerDeclared: the handler chose the status and body itself
//   - KindShortCircuit: a pre or after step substituted its own error
//
// Nothing in the request path panics to signal failure. An after step may
// turn any error back into a success; if none does, the router renders the
// final error with a [Formatter]:
//   - Plain: status = code, body = message (default)
//   - Simple: {"error": ..., "code": ...}
//   - RFC9457: RFC 9457 Problem Details (application/problem+json)
//
// Foreign errors can still take part: [From] wraps them as a 500, and the
// formatters honour the optional ErrorType, ErrorCode and ErrorDetails
// interfaces.
//
// Example:
//
//	if user == nil {
//		return Out{}, errors.New(http.StatusNotFound, "no such user")
//	}
package errors
