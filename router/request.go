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

package router

import (
	"context"
	"net/http"
	"net/url"
)

// Request is the string-bodied request a route sees.
// The transport fills it from an *http.Request; tests and other
// transports can build one with [NewRequest].
type Request struct {
	Method string
	Path   string
	Header http.Header
	Query  url.Values
	Body   string

	ctx context.Context
}

// NewRequest returns a request with empty header and query maps.
func NewRequest(ctx context.Context, method, path, body string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Header: make(http.Header),
		Query:  make(url.Values),
		Body:   body,
		ctx:    ctx,
	}
}

// Context returns the request's context, or context.Background if none
// was attached.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of r with its context set to ctx.
// Pre steps use it to hand values to later steps and the handler.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic("router: nil context")
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}
