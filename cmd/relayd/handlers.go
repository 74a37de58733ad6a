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
package main

import (
	"context"
	"fmt"
	"slices"

	"rivaas.dev/relay/codec"
	"rivaas.dev/relay/codec/yaml"
	"rivaas.dev/relay/middleware/accesslog"
	"rivaas.dev/relay/middleware/basicauth"
	"rivaas.dev/relay/middleware/bodylimit"
	"rivaas.dev/relay/middleware/compression"
	"rivaas.dev/relay/middleware/cors"
	"rivaas.dev/relay/middleware/recovery"
	"rivaas.dev/relay/middleware/requestid"
	"rivaas.dev/relay/middleware/timeout"
	"rivaas.dev/relay/router"
	"rivaas.dev/relay/validation"
)

type counter struct {
	Value int `json:"value"`
}

type greeting struct {
	Name     string `json:"name" validate:"required,max=64"`
	Language string `json:"language" validate:"omitempty,oneof=en fr"`
}

type routeView struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Shape   string `json:"shape"`
}

func (a *app) registerRoutes() {
	r := a.router

	r.Use(requestid.New())
	if origins := a.settings.CORS.Origins; len(origins) > 0 {
		r.Use(cors.New(
			cors.WithAllowedOrigins(origins...),
			cors.WithAllowAllOrigins(slices.Contains(origins, "*")),
			cors.WithAllowCredentials(a.settings.CORS.AllowCredentials),
			cors.WithAllowedHeaders("Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"),
			cors.WithExposedHeaders("X-Request-ID"),
		))
	}
	r.Use(accesslog.New(
		accesslog.WithLogger(a.logger),
		accesslog.WithExcludePaths("/health"),
	))
	r.Use(timeout.New(
		timeout.WithDuration(a.settings.Server.RequestTimeout),
		timeout.WithLogger(a.logger),
	))
	r.Use(recovery.New(recovery.WithLogger(a.logger)))
	if a.settings.Compression.Enabled {
		r.Use(compression.New(
			compression.WithMinSize(a.settings.Compression.MinSize),
			compression.WithExcludePaths("/health"),
			compression.WithLogger(a.logger),
		))
	}

	r.GET("/", router.Infallible(router.NoInput(), codec.String(),
		func(context.Context, router.In[struct{}]) string {
			return "Hello world"
		}))

	r.GET("/first", router.Infallible(router.Body(codec.JSON[counter]()), codec.JSON[counter](),
		func(_ context.Context, in router.In[counter]) counter {
			return counter{Value: in.Value.Value + 1}
		}))

	r.GET("/health", router.Infallible(router.NoInput(), codec.String(),
		func(context.Context, router.In[struct{}]) string {
			return "ok"
		}))

	// Re-encodes a YAML document as JSON.
	r.POST("/convert", router.Infallible(router.Body(yaml.New[map[string]any]()), codec.JSON[map[string]any](),
		func(_ context.Context, in router.In[map[string]any]) map[string]any {
			return in.Value
		}))
	r.OPTIONS("/convert", cors.Preflight())

	greet := codec.JSON[greeting](codec.WithStrict(), codec.WithValidator(validation.MustNew()))
	r.POST("/greet", router.Infallible(router.Body(greet), codec.String(),
		func(_ context.Context, in router.In[greeting]) string {
			if in.Value.Language == "fr" {
				return fmt.Sprintf("Bonjour %s", in.Value.Name)
			}
			return fmt.Sprintf("Hello %s", in.Value.Name)
		}))
	r.OPTIONS("/greet", cors.Preflight())

	r.Mount(a.adminRouter(), router.WithPrefix("/admin"))
}

// adminRouter serves operational endpoints behind basic auth.
func (a *app) adminRouter() *router.Router {
	admin := router.MustNew(router.WithLogger(a.logger))
	admin.Use(basicauth.New(
		basicauth.WithUsers(a.settings.Admin.Users),
		basicauth.WithRealm("relayd admin"),
	))
	admin.Use(bodylimit.New(bodylimit.WithLimit(64 << 10)))

	admin.GET("/routes", router.Infallible(router.NoInput(), codec.JSON[[]routeView](),
		func(context.Context, router.In[struct{}]) []routeView {
			return routeTable(a.router)
		}))
	return admin
}

func routeTable(r *router.Router) []routeView {
	routes := r.Routes()
	out := make([]routeView, 0, len(routes))
	for _, ri := range routes {
		out = append(out, routeView{Method: ri.Method, Pattern: ri.Pattern, Shape: ri.Shape.String()})
	}
	return out
}
