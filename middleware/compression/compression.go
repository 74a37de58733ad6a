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
// Package compression encodes response bodies with Brotli or gzip.
//
// The pre step negotiates an encoding from Accept-Encoding and records it in
// the request context. The after step compresses successful responses whole,
// since bodies are complete strings by then, and sets Content-Encoding and
// Vary. Error results pass through untouched.
package compression

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"

	"rivaas.dev/relay/middleware"
	"rivaas.dev/relay/router"
)

type stateKey struct{}

// state is what the pre step hands to the after step. An empty encoding
// means the client accepts neither Brotli nor gzip.
type state struct {
	encoding string
}

// New returns a compression middleware.
//
// Example:
//
//	r.Use(compression.New(
//	    compression.WithMinSize(512),
//	    compression.WithExcludePaths("/metrics"),
//	))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	enc := newEncoders(cfg)

	pre := func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
		if err != nil {
			return nil, err
		}
		if cfg.excluded(req.Path) {
			return req, nil
		}
		st := &state{encoding: negotiate(req.Header.Get("Accept-Encoding"), cfg)}
		return req.WithContext(context.WithValue(ctx, stateKey{}, st)), nil
	}

	after := func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
		st, ok := ctx.Value(stateKey{}).(*state)
		if !ok || err != nil {
			return resp, err
		}

		out := &router.Response{Status: resp.Status, Header: resp.Header.Clone(), Body: resp.Body}
		if out.Header == nil {
			out.Header = make(http.Header)
		}
		middleware.AddVary(out.Header, "Accept-Encoding")

		if st.encoding == "" || !cfg.compressible(out) {
			return out, nil
		}

		body, cerr := enc.encode(st.encoding, out.Body)
		if cerr != nil {
			cfg.logger.ErrorContext(ctx, "compression failed", "encoding", st.encoding, "error", cerr)
			return out, nil
		}
		out.Body = body
		out.Header.Set("Content-Encoding", st.encoding)
		out.Header.Del("Content-Length")
		return out, nil
	}

	return router.Middleware{Pre: pre, After: after}
}

// compressible reports whether resp is worth encoding: a status that carries
// a body, no existing Content-Encoding, a body of at least the minimum size
// and a content type that is not excluded.
func (cfg *config) compressible(resp *router.Response) bool {
	switch resp.StatusCode() {
	case http.StatusNoContent, http.StatusNotModified, http.StatusPartialContent:
		return false
	}
	if resp.Body == "" || len(resp.Body) < cfg.minSize {
		return false
	}
	if resp.Header.Get("Content-Encoding") != "" {
		return false
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if ct == "" {
		return true
	}
	for _, excluded := range cfg.excludeContentTypes {
		if strings.Contains(ct, excluded) {
			return false
		}
	}
	return true
}

// encoders pools one writer kind per encoding at the configured levels.
type encoders struct {
	gzip   sync.Pool
	brotli sync.Pool
}

func newEncoders(cfg *config) *encoders {
	e := &encoders{}
	e.gzip.New = func() any {
		w, err := gzip.NewWriterLevel(io.Discard, cfg.gzipLevel)
		if err != nil {
			// Levels are validated by WithGzipLevel.
			w = gzip.NewWriter(io.Discard)
		}
		return w
	}
	e.brotli.New = func() any {
		return brotli.NewWriterLevel(io.Discard, cfg.brotliLevel)
	}
	return e
}

func (e *encoders) encode(encoding, body string) (string, error) {
	var buf bytes.Buffer
	buf.Grow(len(body) / 2)

	switch encoding {
	case encodingBrotli:
		w := e.brotli.Get().(*brotli.Writer)
		defer e.brotli.Put(w)
		w.Reset(&buf)
		return finish(w, body, &buf)
	case encodingGzip:
		w := e.gzip.Get().(*gzip.Writer)
		defer e.gzip.Put(w)
		w.Reset(&buf)
		return finish(w, body, &buf)
	default:
		return body, nil
	}
}

func finish(w io.WriteCloser, body string, buf *bytes.Buffer) (string, error) {
	if _, err := io.WriteString(w, body); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
