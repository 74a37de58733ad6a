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

package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is a sentinel error for validation failures.
// Use errors.Is(err, ErrValidation) to check if an error is a validation error.
var ErrValidation = errors.New("validation")

// ErrCannotValidateNilValue is returned when attempting to validate a nil value.
var ErrCannotValidateNilValue = errors.New("cannot validate nil value")

// FieldError is one failed rule on one field.
type FieldError struct {
	Path    string `json:"path"`            // JSON path (e.g., "items[2].price")
	Code    string `json:"code"`            // Stable code (e.g., "tag.required")
	Message string `json:"message"`         // Human-readable message
	Param   string `json:"param,omitempty"` // Rule parameter, e.g. "3" for min=3
}

// Error returns "path: message", or just the message if path is empty.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns [ErrValidation] for errors.Is/errors.As compatibility.
func (e FieldError) Unwrap() error {
	return ErrValidation
}

// Error collects the field errors of one value.
type Error struct {
	Fields []FieldError `json:"errors"`
}

// Error returns a formatted error message.
func (v *Error) Error() string {
	switch len(v.Fields) {
	case 0:
		return ""
	case 1:
		return v.Fields[0].Error()
	}

	msgs := make([]string, 0, len(v.Fields))
	for _, fe := range v.Fields {
		msgs = append(msgs, fe.Error())
	}

	return strings.Join(msgs, "; ")
}

// Unwrap returns [ErrValidation] for errors.Is/errors.As compatibility.
func (v *Error) Unwrap() error {
	return ErrValidation
}

// HTTPStatus implements rivaas.dev/relay/errors.ErrorType.
func (v *Error) HTTPStatus() int {
	return 422
}

// Details implements rivaas.dev/relay/errors.ErrorDetails.
func (v *Error) Details() any {
	return v.Fields
}

// Code implements rivaas.dev/relay/errors.ErrorCode.
func (v *Error) Code() string {
	return "validation_error"
}

// Has reports whether path has at least one error.
func (v *Error) Has(path string) bool {
	for _, fe := range v.Fields {
		if fe.Path == path {
			return true
		}
	}
	return false
}

// Sort orders the errors by path, then code.
func (v *Error) Sort() {
	sort.SliceStable(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}
		return v.Fields[i].Code < v.Fields[j].Code
	})
}
