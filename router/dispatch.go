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

	"rivaas.dev/relay/codec"
	riverrors "rivaas.dev/relay/errors"
)

// Runner is a route after binding: it turns the upstream result, a request
// or an error, into a response or an error. Runners are built once at
// registration and called concurrently.
type Runner func(ctx context.Context, req *Request, err error) (*Response, error)

// InputShape is what a computation takes besides the context.
type InputShape uint8

const (
	// InputNone ignores the body.
	InputNone InputShape = iota
	// InputBody passes the decoded body.
	InputBody
	// InputBodyWithRequest passes the decoded body and the request.
	InputBodyWithRequest
)

func (s InputShape) String() string {
	switch s {
	case InputNone:
		return "none"
	case InputBody:
		return "body"
	case InputBodyWithRequest:
		return "body+request"
	default:
		return "unknown"
	}
}

// OutputShape is what a computation returns.
type OutputShape uint8

const (
	// OutputBody returns a value that becomes the body of a 200.
	OutputBody OutputShape = iota
	// OutputBodyWithResponse returns an [Out] with status and headers.
	OutputBodyWithResponse
)

func (s OutputShape) String() string {
	switch s {
	case OutputBody:
		return "body"
	case OutputBodyWithResponse:
		return "body+response"
	default:
		return "unknown"
	}
}

// Shape describes how a [Binding] adapts its computation.
type Shape struct {
	Input  InputShape
	Output OutputShape
	// ResultAware inputs receive upstream errors instead of being skipped.
	ResultAware bool
	// Fallible computations may return an error.
	Fallible bool
}

func (s Shape) String() string {
	in := s.Input.String()
	if s.ResultAware {
		in = "result(" + in + ")"
	}
	out := s.Output.String()
	if s.Fallible {
		out = "result(" + out + ")"
	}
	return in + " -> " + out
}

// In is the argument a computation receives.
type In[T any] struct {
	// Value is the decoded body. It is the zero value for InputNone and
	// when Err is set.
	Value T
	// Request is set for InputBodyWithRequest.
	Request *Request
	// Err is the upstream error. Only result-aware inputs see it.
	Err error
}

// Out is the result of an OutputBodyWithResponse computation.
type Out[U any] struct {
	Value U
	// Status defaults to 200.
	Status int
	Header http.Header
}

// Input selects the input shape and the body deserializer of a route.
type Input[T any] struct {
	shape       InputShape
	resultAware bool
	decode      func(body string) (T, error)
}

// NoInput ignores the request body.
func NoInput() Input[struct{}] {
	return Input[struct{}]{
		shape:  InputNone,
		decode: func(string) (struct{}, error) { return struct{}{}, nil },
	}
}

// Body decodes the request body with d.
func Body[T any](d codec.Deserializer[T]) Input[T] {
	return Input[T]{shape: InputBody, decode: d.Deserialize}
}

// BodyWithRequest decodes the request body with d and also passes the request.
func BodyWithRequest[T any](d codec.Deserializer[T]) Input[T] {
	return Input[T]{shape: InputBodyWithRequest, decode: d.Deserialize}
}

// Fallible makes in result-aware: instead of the route being skipped when an
// upstream error arrives, the computation runs with In.Err set and may
// recover. Nothing is decoded in that case.
func Fallible[T any](in Input[T]) Input[T] {
	in.resultAware = true
	return in
}

// Binding is a computation bound to its codecs, ready to be registered.
type Binding struct {
	runner Runner
	shape  Shape
}

// Runner returns the bound runner without any pipeline applied.
func (b Binding) Runner() Runner {
	return b.runner
}

// Shape reports how the binding adapts its computation.
func (b Binding) Shape() Shape {
	return b.shape
}

// Handle binds a fallible computation whose value becomes the body of a 200.
//
// Example:
//
//	router.Handle(router.Body(codec.JSON[Counter]()), codec.JSON[Counter](),
//		func(ctx context.Context, in router.In[Counter]) (Counter, error) {
//			return Counter{Value: in.Value.Value + 1}, nil
//		})
func Handle[T, U any](in Input[T], out codec.Serializer[U], fn func(context.Context, In[T]) (U, error)) Binding {
	return bind(in, out, OutputBody, true, func(ctx context.Context, arg In[T]) (Out[U], error) {
		v, err := fn(ctx, arg)
		return Out[U]{Value: v}, err
	})
}

// HandleWithResponse binds a fallible computation that also chooses the
// status and headers.
func HandleWithResponse[T, U any](in Input[T], out codec.Serializer[U], fn func(context.Context, In[T]) (Out[U], error)) Binding {
	return bind(in, out, OutputBodyWithResponse, true, fn)
}

// Infallible binds a computation that cannot fail.
func Infallible[T, U any](in Input[T], out codec.Serializer[U], fn func(context.Context, In[T]) U) Binding {
	return bind(in, out, OutputBody, false, func(ctx context.Context, arg In[T]) (Out[U], error) {
		return Out[U]{Value: fn(ctx, arg)}, nil
	})
}

// InfallibleWithResponse binds a computation that cannot fail and chooses
// the status and headers.
func InfallibleWithResponse[T, U any](in Input[T], out codec.Serializer[U], fn func(context.Context, In[T]) Out[U]) Binding {
	return bind(in, out, OutputBodyWithResponse, false, func(ctx context.Context, arg In[T]) (Out[U], error) {
		return fn(ctx, arg), nil
	})
}

// bind builds the runner shared by every shape:
//  1. an upstream error is returned unchanged unless the input is result-aware;
//  2. the body is decoded, failures become a 422 deserialization error;
//  3. the computation runs;
//  4. its value is encoded, failures become a 422 serialization error.
func bind[T, U any](in Input[T], out codec.Serializer[U], outShape OutputShape, fallible bool, fn func(context.Context, In[T]) (Out[U], error)) Binding {
	if in.decode == nil || out == nil || fn == nil {
		return Binding{}
	}

	runner := func(ctx context.Context, req *Request, err error) (*Response, error) {
		var arg In[T]
		if err != nil {
			if !in.resultAware {
				return nil, err
			}
			arg.Err = err
		} else {
			if req == nil {
				return nil, emptyStepError()
			}
			v, decErr := in.decode(req.Body)
			if decErr != nil {
				return nil, riverrors.Deserialization(decErr)
			}
			arg.Value = v
			if in.shape == InputBodyWithRequest {
				arg.Request = req
			}
		}

		result, err := fn(ctx, arg)
		if err != nil {
			return nil, riverrors.From(err)
		}

		body, err := out.Serialize(result.Value)
		if err != nil {
			return nil, riverrors.Serialization(err)
		}

		resp := &Response{
			Status: result.Status,
			Header: result.Header,
			Body:   body,
		}
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}
		if resp.Header == nil {
			resp.Header = make(http.Header)
		}
		if ct := contentTypeOf(out); ct != "" && resp.Header.Get("Content-Type") == "" {
			resp.Header.Set("Content-Type", ct)
		}
		return resp, nil
	}

	return Binding{
		runner: runner,
		shape: Shape{
			Input:       in.shape,
			Output:      outShape,
			ResultAware: in.resultAware,
			Fallible:    fallible,
		},
	}
}

func contentTypeOf(v any) string {
	if ct, ok := v.(codec.ContentTyper); ok {
		return ct.ContentType()
	}
	return ""
}
