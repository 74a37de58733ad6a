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

// Package router binds typed computations to HTTP routes and composes
// them with middleware.
//
// A route is a [Runner]: it receives the upstream result, a request or an
// error, and produces a response or an error. Runners are built from
// ordinary functions by the bind helpers, which decode the string body with
// a codec, call the function and encode its result.
//
// # Routing
//
// Each of the nine methods has its own tree. Patterns are '/'-separated and
// empty segments are ignored. A segment of the form "{name}" matches any
// one segment; the name is documentation only and the matched text is not
// captured. Literal segments win over wildcards, and there is no
// backtracking:
//
//	r.GET("/users/{id}", getUser)
//	r.GET("/users/me", getMe)   // "/users/me" never reaches getUser
//
// Registering the same method and path twice panics at start-up.
//
// # Pipeline
//
// Middleware is a list of pre steps and a list of after steps. Pre steps
// run in order on the request; if any of them returns an error, the
// handler is skipped unless its input is wrapped in Fallible, in which case
// it receives the error and may recover. After steps always run, in order, on whatever came
// out: the handler's response, the handler's error or the short-circuit
// error. Any step may recover an error by returning a value.
//
// Middleware applies to routes registered after it is added:
//
//	r := router.MustNew()
//	r.GET("/health", health)          // no middleware
//	r.Use(requestid.New())
//	r.GET("/users", listUsers)        // with request ids
//
// Mounting a child router wraps every child route in the parent's
// pipeline: parent pre, child pre, handler, child after, parent after.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//
//	    "rivaas.dev/relay/codec"
//	    "rivaas.dev/relay/router"
//	)
//
//	type Counter struct {
//	    Value int `json:"value"`
//	}
//
//	func main() {
//	    r := router.MustNew()
//
//	    r.GET("/", router.Infallible(router.NoInput(), codec.String(),
//	        func(context.Context, router.In[struct{}]) string { return "Hello, World!" }))
//
//	    r.POST("/increment", router.Infallible(router.Body(codec.JSON[Counter]()), codec.JSON[Counter](),
//	        func(_ context.Context, in router.In[Counter]) Counter {
//	            return Counter{Value: in.Value.Value + 1}
//	        }))
//
//	    r.Serve(":8080")
//	}
//
// # Errors
//
// Every failure is an *errors.Error carrying the status and body to send.
// A body that does not decode becomes a 422 whose body is the codec's
// message; a value that does not encode becomes a 422 as well. Errors of
// other types returned by handlers or steps become a 500. ServeHTTP renders
// errors with the configured errors.Formatter.
package router
