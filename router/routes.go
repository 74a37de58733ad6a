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
	"cmp"
	"slices"
)

// RouteInfo describes a registered route.
type RouteInfo struct {
	Method  string
	Pattern string
	Shape   Shape
}

// Routes returns every registered route sorted by pattern, then by method
// in the order GET, PUT, DELETE, POST, TRACE, OPTIONS, CONNECT, PATCH, HEAD.
func (r *Router) Routes() []RouteInfo {
	var out []RouteInfo
	for i, t := range r.trees {
		if t == nil {
			continue
		}
		t.Walk(func(pattern string, rt route) bool {
			out = append(out, RouteInfo{Method: methods[i], Pattern: pattern, Shape: rt.shape})
			return true
		})
	}
	slices.SortFunc(out, func(a, b RouteInfo) int {
		if c := cmp.Compare(a.Pattern, b.Pattern); c != 0 {
			return c
		}
		return cmp.Compare(methodIndex(a.Method), methodIndex(b.Method))
	})
	return out
}

// Methods returns the nine methods the router accepts, in index order.
func Methods() []string {
	return slices.Clone(methods[:])
}
