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

import "net/http"

// Response is the string-bodied result of a route.
// A zero Status is written as 200.
type Response struct {
	Status int
	Header http.Header
	Body   string
}

// NewResponse returns a 200 response carrying body.
func NewResponse(body string) *Response {
	return &Response{
		Status: http.StatusOK,
		Header: make(http.Header),
		Body:   body,
	}
}

// StatusCode returns Status, defaulting to 200.
func (r *Response) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}
