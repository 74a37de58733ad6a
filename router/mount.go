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
	"fmt"
	"strings"

	"rivaas.dev/relay/router/trie"
)

// mountCfg holds configuration for a mounted child router.
type mountCfg struct {
	prefix string
}

// MountOption configures how a child router is mounted.
type MountOption func(*mountCfg)

// WithPrefix mounts the child's routes under prefix.
//
// Example:
//
//	r.Mount(admin, router.WithPrefix("/admin"))
//	// admin's GET /users becomes GET /admin/users
func WithPrefix(prefix string) MountOption {
	return func(cfg *mountCfg) {
		cfg.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// Mount merges child's routes into r. Every child route keeps its own
// pipeline and is additionally wrapped in r's current pipeline, so for a
// mounted route the order is: r's pre steps, child's pre steps, handler,
// child's after steps, r's after steps.
//
// The child is copied, not shared: routes added to it later are not seen
// by r. Mount panics if a child route collides with one already in r;
// in that case r is left unchanged.
//
// Example:
//
//	api := router.MustNew()
//	api.GET("/users", listUsers)
//
//	r := router.MustNew()
//	r.Use(accesslog.New(logger))
//	r.Mount(api, router.WithPrefix("/api"))
func (r *Router) Mount(child *Router, opts ...MountOption) {
	if err := r.Merge(child, opts...); err != nil {
		panic(fmt.Errorf("router: %w", err))
	}
}

// Merge is the non-panicking form of Mount.
func (r *Router) Merge(child *Router, opts ...MountOption) error {
	if child == nil {
		return nil
	}
	if r.frozen.Load() {
		return ErrRouterFrozen
	}

	cfg := &mountCfg{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.prefix != "" {
		if err := validatePattern(cfg.prefix); err != nil {
			return err
		}
	}

	wrap := r.pipeline
	var merged [methodCount]*trie.Tree[route]
	count := 0
	for i, src := range child.trees {
		if src == nil || src.Len() == 0 {
			continue
		}

		wrapped := trie.New[route]()
		var err error
		src.Walk(func(pattern string, rt route) bool {
			err = wrapped.Insert(cfg.prefix+pattern, rt)
			return err == nil
		})
		if err != nil {
			return fmt.Errorf("%s %w", methods[i], err)
		}
		wrapped.Apply(func(rt route) route {
			rt.runner = wrap.Build(rt.runner)
			return rt
		})

		// Merge into a copy so a collision leaves r untouched.
		dst := trie.New[route]()
		if err := dst.Extend(r.trees[i]); err != nil {
			return fmt.Errorf("%s %w", methods[i], err)
		}
		if err := dst.Extend(wrapped); err != nil {
			return fmt.Errorf("%s %w", methods[i], err)
		}
		merged[i] = dst
		count += wrapped.Len()
	}

	for i, t := range merged {
		if t != nil {
			r.trees[i] = t
		}
	}

	r.logger.Debug("router mounted", "prefix", cfg.prefix, "routes", count)
	r.emit(DiagRouteMounted, "router mounted", map[string]any{
		"prefix": cfg.prefix,
		"routes": count,
	})
	return nil
}
