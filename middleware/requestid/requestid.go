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

package requestid

import (
	"context"
	"crypto/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"rivaas.dev/relay/middleware"
	"rivaas.dev/relay/router"
)

// generateUUIDv7 generates a UUID v7 string for request IDs.
// UUID v7 is time-ordered and lexicographically sortable (RFC 9562).
func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ulidEntropy is a thread-safe entropy source for ULID generation.
// It provides monotonic ordering within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

// generateULID generates a ULID string for request IDs.
func generateULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// New returns a middleware that gives every request an ID.
//
// The pre step takes the ID from the configured header when client IDs are
// allowed, generates one otherwise, and stores it in the request context and
// header. The after step copies it onto the response header. Error outcomes
// have no response to carry the header.
//
// Basic usage (UUID v7 by default):
//
//	r := router.MustNew()
//	r.Use(requestid.New())
//
// Using ULID (shorter, 26 characters):
//
//	r.Use(requestid.New(requestid.WithULID()))
//
// Reading the ID in a handler that takes the request:
//
//	func(ctx context.Context, in router.In[Order]) (Receipt, error) {
//	    id := requestid.Get(ctx)
//	    ...
//	}
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	pre := func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
		if err != nil {
			return nil, err
		}

		var id string
		if cfg.allowClientID {
			id = req.Header.Get(cfg.headerName)
		}
		if id == "" {
			id = cfg.generator()
		}

		req = req.WithContext(context.WithValue(ctx, middleware.RequestIDKey, id))
		header := req.Header.Clone()
		if header == nil {
			header = make(http.Header)
		}
		header.Set(cfg.headerName, id)
		req.Header = header
		return req, nil
	}

	after := func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
		id := Get(ctx)
		if err != nil || id == "" {
			return resp, err
		}
		if resp.Header == nil {
			resp.Header = make(http.Header)
		}
		resp.Header.Set(cfg.headerName, id)
		return resp, nil
	}

	return router.Middleware{Pre: pre, After: after}
}

// Get retrieves the request ID from the context.
// Returns an empty string if no request ID has been set.
func Get(ctx context.Context) string {
	if id, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
