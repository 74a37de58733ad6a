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
	"errors"

	"rivaas.dev/relay/router/trie"
)

var (
	// ErrNoRoute indicates that no route matches the method and path.
	// The HTTP transport answers it with 404.
	ErrNoRoute = errors.New("no route")

	// ErrDuplicateRoute indicates that a handler is already registered at
	// the method and path.
	ErrDuplicateRoute = trie.ErrDuplicateRoute

	// ErrRouterFrozen indicates that a route was registered after the router
	// started dispatching.
	ErrRouterFrozen = errors.New("router is frozen; routes must be registered before serving")

	// ErrUnsupportedMethod indicates a method outside the nine the router keeps trees for.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrInvalidPattern indicates a malformed path pattern.
	ErrInvalidPattern = errors.New("invalid path pattern")

	// ErrNilHandler indicates a registration without a handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrEmptyStepResult indicates that a pipeline step returned neither a
	// value nor an error.
	ErrEmptyStepResult = errors.New("pipeline step returned neither a value nor an error")

	// ErrServerTimeoutInvalid indicates that a server timeout value is not positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrMaxBodySizeInvalid indicates that the request body limit is not positive.
	ErrMaxBodySizeInvalid = errors.New("max body size must be positive")
)
