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

package errors

import (
	"errors"
	"net/http"
)

// Formatter renders a failed request at the transport boundary.
// Implementations must be safe for concurrent use.
//
// Example:
//
//	formatter := errors.NewRFC9457("https://api.example.com/problems")
//	rendered := formatter.Format(req, err)
//	w.Header().Set("Content-Type", rendered.ContentType)
//	w.WriteHeader(rendered.Status)
//	io.WriteString(w, rendered.Body)
type Formatter interface {
	// Format converts err into response parts. req may be nil when the
	// error is rendered outside an HTTP exchange.
	Format(req *http.Request, err error) Response
}

// Response holds the parts a formatter produced.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the already encoded response body.
	Body string

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
// [*Error] implements it; foreign errors may too.
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information,
// such as field-level validation failures.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewPlain returns the default boundary formatter: status = code, body = message.
func NewPlain() *Plain {
	return &Plain{}
}

// NewSimple creates a formatter that emits {"error": ..., "code": ...} objects.
func NewSimple() *Simple {
	return &Simple{}
}

// NewRFC9457 creates a new RFC9457 formatter.
// The baseURL parameter is prepended to problem type slugs to create full URIs.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{
		BaseURL: baseURL,
	}
}

// statusOf resolves the HTTP status for err: resolver first, then
// [ErrorType], then 500.
func statusOf(resolver func(error) int, err error) int {
	if resolver != nil {
		return resolver(err)
	}
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}
