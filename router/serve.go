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
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	riverrors "rivaas.dev/relay/errors"
)

// ServeHTTP implements http.Handler. For each request it:
//  1. freezes the router and starts the observers;
//  2. looks up the route, answering 404 through the formatter on a miss;
//  3. reads the body up to the configured limit and builds a [Request];
//     a read failure reaches the route as a 413 or 400 error, so after
//     steps still see it;
//  4. runs the route, turning a panic into a 500;
//  5. writes the response, or renders the error with the formatter.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Freeze()

	ctx, active := r.startObservers(req.Context(), req)
	if ctx != req.Context() {
		req = req.WithContext(ctx)
	}

	rt, pattern, ok := r.lookup(req.Method, req.URL.Path)

	info := RequestInfo{Method: req.Method, Route: pattern}
	defer func() { endObservers(ctx, active, info) }()

	var (
		resp *Response
		err  error
	)
	if !ok {
		info.Route = NotFoundRoute
		err = riverrors.New(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	} else {
		in, readErr := r.readRequest(w, req)
		resp, err = normalizeResponse(r.run(ctx, rt, in, readErr))
	}
	info.Err = err

	info.Status, info.Size = r.write(w, req, resp, err)
	if err != nil && info.Status >= http.StatusInternalServerError {
		r.logger.ErrorContext(ctx, "request failed",
			"method", req.Method, "route", info.Route, "status", info.Status, "error", err)
	}
}

// readRequest converts req into the string-bodied [Request] routes see.
func (r *Router) readRequest(w http.ResponseWriter, req *http.Request) (*Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, r.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, riverrors.Newf(http.StatusRequestEntityTooLarge,
				"request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, riverrors.Newf(http.StatusBadRequest, "reading request body: %v", err)
	}

	return &Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header,
		Query:  req.URL.Query(),
		Body:   string(body),
		ctx:    req.Context(),
	}, nil
}

// run calls the route, converting a panic into a 500.
func (r *Router) run(ctx context.Context, rt route, req *Request, upstream error) (resp *Response, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if p == http.ErrAbortHandler {
			panic(p)
		}
		r.logger.ErrorContext(ctx, "handler panicked", "panic", p, "stack", string(debug.Stack()))
		r.emit(DiagHandlerPanic, "handler panicked", map[string]any{"panic": fmt.Sprint(p)})
		resp = nil
		err = riverrors.New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}()

	return rt.runner(ctx, req, upstream)
}

// write sends resp, or err rendered by the formatter, and reports the
// status and body size written.
//
// Routes choose their own status codes. One that is not a final HTTP status
// is replaced by a 500 rendered through the formatter.
func (r *Router) write(w http.ResponseWriter, req *http.Request, resp *Response, err error) (int, int64) {
	if err == nil && !validStatus(resp.StatusCode()) {
		r.logger.ErrorContext(req.Context(), "invalid response status",
			"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode())
		err = internalError()
	}

	if err != nil {
		out := r.formatter.Format(req, err)
		if !validStatus(out.Status) {
			r.logger.ErrorContext(req.Context(), "invalid error status",
				"method", req.Method, "path", req.URL.Path, "status", out.Status, "error", err)
			out = r.formatter.Format(req, internalError())
		}
		h := w.Header()
		for k, vs := range out.Headers {
			for _, v := range vs {
				h.Add(k, v)
			}
		}
		if out.ContentType != "" {
			h.Set("Content-Type", out.ContentType)
		}
		w.WriteHeader(out.Status)
		n, _ := io.WriteString(w, out.Body)
		return out.Status, int64(n)
	}

	h := w.Header()
	for k, vs := range resp.Header {
		h[k] = vs
	}
	status := resp.StatusCode()
	w.WriteHeader(status)
	if req.Method == http.MethodHead {
		return status, 0
	}
	n, _ := io.WriteString(w, resp.Body)
	return status, int64(n)
}

// validStatus reports whether code can be sent as the final status of a
// response. net/http panics outside 100-999 and treats 1xx as informational.
func validStatus(code int) bool {
	return code >= 200 && code <= 999
}

func internalError() *riverrors.Error {
	return riverrors.New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// Serve starts the HTTP server on the specified address.
// Automatically enables h2c if configured via WithH2C().
//
// This method follows the stdlib pattern: it blocks until the server exits.
// For graceful shutdown, use the Shutdown method from another goroutine.
//
// Example:
//
//	go func() {
//	    if err := r.Serve(":8080"); err != nil && err != http.ErrServerClosed {
//	        log.Fatal(err)
//	    }
//	}()
//
//	<-ctx.Done()
//	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	r.Shutdown(shutdownCtx)
func (r *Router) Serve(addr string) error {
	h := http.Handler(r)

	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
		r.emit(DiagH2CEnabled, "H2C enabled; use only in dev or behind a trusted LB", nil)
	}

	srv := r.newServer(addr, h)
	r.logger.Info("server starting", "addr", addr, "h2c", r.enableH2C)
	return srv.ListenAndServe()
}

// ServeTLS starts the HTTPS server with TLS configuration.
// For TLS servers, HTTP/2 is automatically enabled via ALPN.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	srv := r.newServer(addr, r)
	r.logger.Info("server starting", "addr", addr, "tls", true)
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func (r *Router) newServer(addr string, h http.Handler) *http.Server {
	r.Freeze()

	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	r.serverMu.Lock()
	r.server = srv
	r.serverMu.Unlock()

	return srv
}

// Shutdown gracefully shuts down the server without interrupting active connections.
// It returns nil if no server is running, or the error from http.Server.Shutdown.
func (r *Router) Shutdown(ctx context.Context) error {
	r.serverMu.Lock()
	srv := r.server
	r.server = nil
	r.serverMu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
