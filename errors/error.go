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
	"fmt"
	"net/http"
)

// Kind classifies where an [Error] originated.
type Kind uint8

const (
	// KindHandlerDeclared is an error chosen by the route's own computation.
	KindHandlerDeclared Kind = iota
	// KindDeserialization is a failure to decode the request body.
	KindDeserialization
	// KindSerialization is a failure to encode the handler output.
	KindSerialization
	// KindShortCircuit is an error substituted by a pre or after step.
	KindShortCircuit
)

// String returns the machine-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHandlerDeclared:
		return "handler_declared"
	case KindDeserialization:
		return "deserialization_failure"
	case KindSerialization:
		return "serialization_failure"
	case KindShortCircuit:
		return "short_circuit"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the single failure value threaded through the pipeline.
// It renders at the boundary as status = Status, body = Body.
//
// Error values are treated as immutable once constructed; steps that want a
// different outcome return a new Error instead of editing the one they got.
type Error struct {
	Status int
	Body   string
	Kind   Kind

	cause error
}

// New returns a handler-declared error with the given status and body.
//
// Example:
//
//	return errors.New(http.StatusNotFound, "no such user")
func New(status int, body string) *Error {
	return &Error{Status: status, Body: body, Kind: KindHandlerDeclared}
}

// Newf is like [New] with a formatted body.
func Newf(status int, format string, args ...any) *Error {
	return New(status, fmt.Sprintf(format, args...))
}

// ShortCircuit returns an error produced deliberately by a middleware step.
func ShortCircuit(status int, body string) *Error {
	return &Error{Status: status, Body: body, Kind: KindShortCircuit}
}

// Deserialization wraps a codec decode failure as a 422 whose body is the
// codec's message.
func Deserialization(err error) *Error {
	return &Error{
		Status: http.StatusUnprocessableEntity,
		Body:   message(err),
		Kind:   KindDeserialization,
		cause:  err,
	}
}

// Serialization wraps a codec encode failure as a 422 whose body is the
// codec's message.
func Serialization(err error) *Error {
	return &Error{
		Status: http.StatusUnprocessableEntity,
		Body:   message(err),
		Kind:   KindSerialization,
		cause:  err,
	}
}

// From converts any error into an *Error.
// An *Error anywhere in the chain is returned as is. Other errors become a
// handler-declared error carrying the error text, with the status they report
// through [ErrorType] or 500. A nil error yields nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	status := http.StatusInternalServerError
	var typed ErrorType
	if errors.As(err, &typed) {
		status = typed.HTTPStatus()
	}
	return &Error{
		Status: status,
		Body:   err.Error(),
		Kind:   KindHandlerDeclared,
		cause:  err,
	}
}

// Error implements the error interface and returns the body.
func (e *Error) Error() string {
	return e.Body
}

// Unwrap returns the codec or foreign error this value was built from, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus implements [ErrorType].
func (e *Error) HTTPStatus() int {
	return e.Status
}

// Code implements [ErrorCode] and reports the kind name.
func (e *Error) Code() string {
	return e.Kind.String()
}

// Is reports whether target is an *Error with the same status and body.
// It lets tests and callers compare against a prototype with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status && e.Body == t.Body
}

func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
