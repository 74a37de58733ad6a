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

// Package trie implements the per-method path tree used by the router.
//
// Paths are '/'-separated; empty segments are ignored, so "/a//b/" and "a/b"
// name the same route. A segment written exactly as "{...}" is a wildcard that
// matches any single non-empty segment. All wildcard spellings at one depth
// share a single child: "{id}" and "{name}" are the same route. The matched
// text is not captured.
//
// A Tree is built during a single-threaded registration phase and is then
// read concurrently without locks. Nothing in this package synchronizes.
package trie

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDuplicateRoute is returned when a path already has a handler.
var ErrDuplicateRoute = errors.New("duplicate route")

// node is one path segment. Each node keeps its own copy of the segment text
// and, when it terminates a route, the full pattern it was registered under,
// so no node refers into a caller's string.
type node[H any] struct {
	segment  string
	pattern  string
	children map[string]*node[H]
	wildcard *node[H]
	handler  H
	terminal bool
}

// Tree maps path patterns to handlers of type H.
// The zero value is an empty tree ready for use.
type Tree[H any] struct {
	root node[H]
	size int
}

// New returns an empty tree.
func New[H any]() *Tree[H] {
	return &Tree[H]{}
}

// IsWildcard reports whether segment has the form "{...}".
func IsWildcard(segment string) bool {
	return len(segment) >= 2 && segment[0] == '{' && segment[len(segment)-1] == '}'
}

// Insert stores h under path. It returns an error wrapping
// [ErrDuplicateRoute] if a handler already occupies that path.
//
// The stored pattern is spelled with the segments of the nodes walked, so a
// wildcard keeps the name it was first registered with: after "/users/{id}",
// inserting "/users/{name}/posts" records "/users/{id}/posts".
func (t *Tree[H]) Insert(path string, h H) error {
	n := &t.root
	var b strings.Builder
	for seg := range segments(path) {
		n = n.childFor(seg)
		b.WriteByte('/')
		b.WriteString(n.segment)
	}
	if n.terminal {
		return fmt.Errorf("%w: %s (already registered as %s)", ErrDuplicateRoute, Canonical(path), n.pattern)
	}
	n.handler = h
	n.pattern = b.String()
	if n.pattern == "" {
		n.pattern = "/"
	}
	n.terminal = true
	t.size++
	return nil
}

// Lookup resolves path to a handler and the pattern it was registered under.
// At each depth a literal child wins over the wildcard child; there is no
// backtracking, so a literal branch that dead-ends does not fall back to the
// wildcard. Lookup never modifies the tree.
func (t *Tree[H]) Lookup(path string) (h H, pattern string, ok bool) {
	n := &t.root
	for seg := range segments(path) {
		if child, found := n.children[seg]; found {
			n = child
			continue
		}
		if n.wildcard == nil {
			return h, "", false
		}
		n = n.wildcard
	}
	if !n.terminal {
		return h, "", false
	}
	return n.handler, n.pattern, true
}

// Extend inserts every route of other into t under its stored pattern. It stops at the first duplicate; routes merged
// before that point stay in t.
func (t *Tree[H]) Extend(other *Tree[H]) error {
	if other == nil {
		return nil
	}
	var err error
	other.Walk(func(pattern string, h H) bool {
		err = t.Insert(pattern, h)
		return err == nil
	})
	return err
}

// Apply replaces every handler with fn(handler), keeping the tree shape.
func (t *Tree[H]) Apply(fn func(H) H) {
	t.root.apply(fn)
}

// Walk calls fn for every route in deterministic order: a node before its
// children, literal children sorted by segment, the wildcard child last.
// The pattern passed to fn is the one [Lookup] reports. Returning false from
// fn stops the walk.
func (t *Tree[H]) Walk(fn func(pattern string, h H) bool) {
	t.root.walk(fn)
}

// Len returns the number of routes in the tree.
func (t *Tree[H]) Len() int {
	return t.size
}

// Canonical normalizes a path pattern: empty segments are dropped and the
// result always starts with '/'.
func Canonical(path string) string {
	var b strings.Builder
	b.Grow(len(path) + 1)
	for seg := range segments(path) {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

func (n *node[H]) childFor(seg string) *node[H] {
	if IsWildcard(seg) {
		if n.wildcard == nil {
			n.wildcard = &node[H]{segment: strings.Clone(seg)}
		}
		return n.wildcard
	}
	if n.children == nil {
		n.children = make(map[string]*node[H])
	}
	child, ok := n.children[seg]
	if !ok {
		key := strings.Clone(seg)
		child = &node[H]{segment: key}
		n.children[key] = child
	}
	return child
}

func (n *node[H]) apply(fn func(H) H) {
	if n.terminal {
		n.handler = fn(n.handler)
	}
	for _, child := range n.children {
		child.apply(fn)
	}
	if n.wildcard != nil {
		n.wildcard.apply(fn)
	}
}

func (n *node[H]) walk(fn func(string, H) bool) bool {
	if n.terminal && !fn(n.pattern, n.handler) {
		return false
	}
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !n.children[k].walk(fn) {
			return false
		}
	}
	if n.wildcard != nil {
		return n.wildcard.walk(fn)
	}
	return true
}

// segments yields the non-empty '/'-separated parts of path.
func segments(path string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for seg := range strings.SplitSeq(path, "/") {
			if seg == "" {
				continue
			}
			if !yield(seg) {
				return
			}
		}
	}
}
