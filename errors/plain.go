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

import "net/http"

// Plain renders an error as its bare message in a text/plain body.
// It is the formatter routers use unless configured otherwise.
type Plain struct {
	// StatusResolver determines HTTP status from error.
	// If nil, uses ErrorType interface or defaults to 500.
	StatusResolver func(err error) int
}

// Format returns the error message as the body and the resolved status.
func (f *Plain) Format(_ *http.Request, err error) Response {
	return Response{
		Status:      statusOf(f.StatusResolver, err),
		ContentType: "text/plain; charset=utf-8",
		Body:        err.Error(),
	}
}
