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
// Package cors implements Cross-Origin Resource Sharing as a router
// middleware.
//
// Routes only see requests whose method and path are registered, so a
// preflight needs an OPTIONS route on the same path. [Preflight] is a
// binding for that:
//
//	r.Use(cors.New(cors.WithAllowedOrigins("https://app.example.com")))
//	r.POST("/greet", greet)
//	r.OPTIONS("/greet", cors.Preflight())
//
// Error results carry only a status and a body, so CORS headers are added
// to successful responses and to preflight answers, not to errors.
package cors

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"rivaas.dev/relay/codec"
	"rivaas.dev/relay/middleware"
	"rivaas.dev/relay/router"
)

type stateKey struct{}

// preflight short-circuits an allowed preflight request. It reports 204 so
// steps that inspect the error before this middleware's after step see the
// status the client will get.
type preflight struct {
	allowOrigin string
}

func (p *preflight) Error() string   { return "cors preflight" }
func (p *preflight) HTTPStatus() int { return http.StatusNoContent }

// New returns a CORS middleware. The default configuration allows no
// origins.
//
// Allow all origins (public API):
//
//	r.Use(cors.New(cors.WithAllowAllOrigins(true)))
//
// Dynamic origin validation:
//
//	r.Use(cors.New(
//	    cors.WithAllowOriginFunc(func(origin string) bool {
//	        return strings.HasSuffix(origin, ".example.com")
//	    }),
//	))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	allowMethods := strings.Join(cfg.allowedMethods, ", ")
	allowHeaders := strings.Join(cfg.allowedHeaders, ", ")
	exposeHeaders := strings.Join(cfg.exposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.maxAge)

	// common sets the headers shared by preflight and actual responses.
	common := func(h http.Header, allowOrigin string) {
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		if cfg.allowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if allowOrigin != "*" {
			middleware.AddVary(h, "Origin")
		}
	}

	pre := func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
		if err != nil {
			return nil, err
		}
		origin := req.Header.Get("Origin")
		if origin == "" {
			return req, nil
		}
		allowOrigin := cfg.allowOrigin(origin)
		if allowOrigin == "" {
			return req, nil
		}
		if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
			return nil, &preflight{allowOrigin: allowOrigin}
		}
		return req.WithContext(context.WithValue(ctx, stateKey{}, allowOrigin)), nil
	}

	after := func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
		var pf *preflight
		if errors.As(err, &pf) {
			h := make(http.Header)
			common(h, pf.allowOrigin)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
			middleware.AddVary(h, "Access-Control-Request-Method")
			middleware.AddVary(h, "Access-Control-Request-Headers")
			return &router.Response{Status: http.StatusNoContent, Header: h}, nil
		}
		if err != nil {
			return resp, err
		}

		allowOrigin, ok := ctx.Value(stateKey{}).(string)
		if !ok {
			return resp, nil
		}
		out := &router.Response{Status: resp.Status, Header: resp.Header.Clone(), Body: resp.Body}
		if out.Header == nil {
			out.Header = make(http.Header)
		}
		common(out.Header, allowOrigin)
		if exposeHeaders != "" {
			out.Header.Set("Access-Control-Expose-Headers", exposeHeaders)
		}
		return out, nil
	}

	return router.Middleware{Pre: pre, After: after}
}

// Preflight returns a binding for OPTIONS routes that answers 204 with no
// body. With [New] in the pipeline, allowed preflights never reach it.
func Preflight() router.Binding {
	return router.InfallibleWithResponse(router.NoInput(), codec.Unit(),
		func(context.Context, router.In[struct{}]) router.Out[struct{}] {
			return router.Out[struct{}]{Status: http.StatusNoContent}
		})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is not allowed. A wildcard is never combined with
// credentials; the origin is echoed instead.
func (cfg *config) allowOrigin(origin string) string {
	switch {
	case cfg.allowAllOrigins:
		if cfg.allowCredentials {
			return origin
		}
		return "*"
	case cfg.allowOriginFunc != nil:
		if cfg.allowOriginFunc(origin) {
			return origin
		}
	case cfg.allowedOrigins[origin]:
		return origin
	}
	return ""
}
