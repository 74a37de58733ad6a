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
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router/trie"
)

// methods lists the methods the router keeps a tree for, in index order.
var methods = [...]string{
	http.MethodGet,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPost,
	http.MethodTrace,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodPatch,
	http.MethodHead,
}

const methodCount = len(methods)

func methodIndex(method string) int {
	switch method {
	case http.MethodGet:
		return 0
	case http.MethodPut:
		return 1
	case http.MethodDelete:
		return 2
	case http.MethodPost:
		return 3
	case http.MethodTrace:
		return 4
	case http.MethodOptions:
		return 5
	case http.MethodConnect:
		return 6
	case http.MethodPatch:
		return 7
	case http.MethodHead:
		return 8
	default:
		return -1
	}
}

// route is what a tree stores: the runner with its pipeline already applied.
type route struct {
	runner Runner
	shape  Shape
}

// Router maps (method, path) to runners.
//
// A Router has two phases. During registration, routes, middleware and
// mounts are added from a single goroutine. The first Dispatch, ServeHTTP or
// Serve freezes it; from then on it is read-only and safe for concurrent use,
// and any further registration panics with [ErrRouterFrozen].
type Router struct {
	trees    [methodCount]*trie.Tree[route]
	pipeline Pipeline
	frozen   atomic.Bool

	logger         *slog.Logger
	formatter      riverrors.Formatter
	maxBodySize    int64
	observers      []Observer
	diagnostics    DiagnosticHandler
	enableH2C      bool
	serverTimeouts *serverTimeouts

	serverMu sync.Mutex
	server   *http.Server
}

// New creates a router with the given options.
// It returns an error if the options are invalid.
//
// Example:
//
//	r, err := router.New(router.WithMaxBodySize(1 << 20))
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Router, error) {
	r := &Router{
		logger:      slog.New(slog.DiscardHandler),
		formatter:   riverrors.NewPlain(),
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew is like New but panics on invalid options.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

func (r *Router) validate() error {
	if r.maxBodySize <= 0 {
		return fmt.Errorf("%w: got %d", ErrMaxBodySizeInvalid, r.maxBodySize)
	}
	if t := r.serverTimeouts; t != nil {
		if t.readHeader <= 0 || t.read <= 0 || t.write <= 0 || t.idle <= 0 {
			return ErrServerTimeoutInvalid
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if r.formatter == nil {
		r.formatter = riverrors.NewPlain()
	}
	return nil
}

// Register adds b at method and path. It is the non-panicking form of the
// method helpers, for bootstrap code that reports errors itself.
//
// The route runs inside the router's pipeline as it is at this moment.
func (r *Router) Register(method, path string, b Binding) error {
	if r.frozen.Load() {
		return ErrRouterFrozen
	}
	idx := methodIndex(method)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	if err := validatePattern(path); err != nil {
		return err
	}
	if b.runner == nil {
		return fmt.Errorf("%w: %s %s", ErrNilHandler, method, path)
	}

	rt := route{runner: r.pipeline.Build(b.runner), shape: b.shape}
	if err := r.tree(idx).Insert(path, rt); err != nil {
		return fmt.Errorf("%s %w", method, err)
	}

	pattern := trie.Canonical(path)
	r.logger.Debug("route registered", "method", method, "path", pattern, "shape", b.shape.String())
	r.emit(DiagRouteRegistered, "route registered", map[string]any{
		"method": method,
		"path":   pattern,
	})
	return nil
}

// Handle registers b at method and path. It panics on a duplicate route,
// an unsupported method, a malformed pattern or a frozen router.
func (r *Router) Handle(method, path string, b Binding) {
	if err := r.Register(method, path, b); err != nil {
		panic(fmt.Errorf("router: %w", err))
	}
}

// GET registers b for GET requests at path.
func (r *Router) GET(path string, b Binding) { r.Handle(http.MethodGet, path, b) }

// PUT registers b for PUT requests at path.
func (r *Router) PUT(path string, b Binding) { r.Handle(http.MethodPut, path, b) }

// DELETE registers b for DELETE requests at path.
func (r *Router) DELETE(path string, b Binding) { r.Handle(http.MethodDelete, path, b) }

// POST registers b for POST requests at path.
func (r *Router) POST(path string, b Binding) { r.Handle(http.MethodPost, path, b) }

// TRACE registers b for TRACE requests at path.
func (r *Router) TRACE(path string, b Binding) { r.Handle(http.MethodTrace, path, b) }

// OPTIONS registers b for OPTIONS requests at path.
func (r *Router) OPTIONS(path string, b Binding) { r.Handle(http.MethodOptions, path, b) }

// CONNECT registers b for CONNECT requests at path.
func (r *Router) CONNECT(path string, b Binding) { r.Handle(http.MethodConnect, path, b) }

// PATCH registers b for PATCH requests at path.
func (r *Router) PATCH(path string, b Binding) { r.Handle(http.MethodPatch, path, b) }

// HEAD registers b for HEAD requests at path.
func (r *Router) HEAD(path string, b Binding) { r.Handle(http.MethodHead, path, b) }

// All registers b at path for every supported method.
func (r *Router) All(path string, b Binding) {
	for _, m := range methods {
		r.Handle(m, path, b)
	}
}

// Pre appends a pre step for routes registered from now on.
func (r *Router) Pre(step PreStep) {
	r.mustNotBeFrozen()
	r.pipeline = r.pipeline.Pre(step)
}

// After appends an after step for routes registered from now on.
func (r *Router) After(step AfterStep) {
	r.mustNotBeFrozen()
	r.pipeline = r.pipeline.After(step)
}

// Use appends both halves of m for routes registered from now on.
//
// Example:
//
//	r.Use(accesslog.New(logger))
//	r.GET("/", hello) // logged
func (r *Router) Use(m Middleware) {
	r.mustNotBeFrozen()
	r.pipeline = r.pipeline.Use(m)
}

// Pipeline returns the pipeline that new routes are wrapped in.
func (r *Router) Pipeline() Pipeline {
	return r.pipeline
}

// Lookup returns the runner registered for method and path, pipeline
// included. Literal segments win over wildcards at every depth.
func (r *Router) Lookup(method, path string) (Runner, bool) {
	rt, _, ok := r.lookup(method, path)
	if !ok {
		return nil, false
	}
	return rt.runner, true
}

func (r *Router) lookup(method, path string) (route, string, bool) {
	idx := methodIndex(method)
	if idx < 0 || r.trees[idx] == nil {
		return route{}, "", false
	}
	return r.trees[idx].Lookup(path)
}

// Dispatch routes req and runs the matched route. It returns [ErrNoRoute]
// when nothing is registered for the method and path; otherwise it returns
// whatever the route produced. Dispatch freezes the router.
//
// ctx is attached to req when req carries no context of its own. A nil req
// is answered with a 400 error.
func (r *Router) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	r.Freeze()
	if req == nil {
		return nil, riverrors.New(http.StatusBadRequest, "nil request")
	}
	rt, _, ok := r.lookup(req.Method, req.Path)
	if !ok {
		return nil, ErrNoRoute
	}
	if req.ctx == nil {
		req = req.WithContext(ctx)
	}
	return rt.runner(req.Context(), req, nil)
}

// Freeze ends the registration phase. It is called implicitly by the
// first Dispatch, ServeHTTP or Serve and is safe to call more than once.
func (r *Router) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether the router has stopped accepting registrations.
func (r *Router) Frozen() bool {
	return r.frozen.Load()
}

func (r *Router) tree(idx int) *trie.Tree[route] {
	if r.trees[idx] == nil {
		r.trees[idx] = trie.New[route]()
	}
	return r.trees[idx]
}

func (r *Router) mustNotBeFrozen() {
	if r.frozen.Load() {
		panic(fmt.Errorf("router: %w", ErrRouterFrozen))
	}
}

// validatePattern accepts '/'-rooted patterns whose segments are either
// literal or a whole "{name}" wildcard.
func validatePattern(path string) error {
	if path == "" || path[0] != '/' {
		return fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, path)
	}
	for seg := range strings.SplitSeq(path[1:], "/") {
		if !strings.ContainsAny(seg, "{}") {
			continue
		}
		if !trie.IsWildcard(seg) || strings.ContainsAny(seg[1:len(seg)-1], "{}") {
			return fmt.Errorf("%w: %q has a malformed segment %q", ErrInvalidPattern, path, seg)
		}
	}
	return nil
}
