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
)

// NotFoundRoute is the route pattern reported to observers when no route matched.
// Observers should label by pattern, never by raw path, to keep cardinality bounded.
const NotFoundRoute = "_not_found"

// Observer receives lifecycle hooks for every request served over HTTP.
// The metrics and tracing packages provide implementations.
//
// Lifecycle:
//  1. OnRequestStart(ctx, req) returns an enriched context and an opaque state.
//     The enriched context is always used, even when state is nil.
//  2. The route runs.
//  3. OnRequestEnd(ctx, state, info) is called only if state != nil.
//
// Returning a nil state excludes a request (for example /metrics) from the
// observer without affecting context propagation.
//
// All methods must be safe for concurrent use.
type Observer interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	OnRequestEnd(ctx context.Context, state any, info RequestInfo)
}

// RequestInfo describes a finished request.
type RequestInfo struct {
	Method string
	// Route is the matched pattern, or [NotFoundRoute].
	Route  string
	Status int
	// Size is the number of body bytes written.
	Size int64
	// Err is the error the route produced, if any.
	Err error
}

type observation struct {
	observer Observer
	state    any
}

func (r *Router) startObservers(ctx context.Context, req *http.Request) (context.Context, []observation) {
	if len(r.observers) == 0 {
		return ctx, nil
	}
	active := make([]observation, 0, len(r.observers))
	for _, o := range r.observers {
		var state any
		ctx, state = o.OnRequestStart(ctx, req)
		if state != nil {
			active = append(active, observation{observer: o, state: state})
		}
	}
	return ctx, active
}

// endObservers runs in reverse start order so nested spans close inside out.
func endObservers(ctx context.Context, active []observation, info RequestInfo) {
	for i := len(active) - 1; i >= 0; i-- {
		active[i].observer.OnRequestEnd(ctx, active[i].state, info)
	}
}
