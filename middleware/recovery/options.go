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

package recovery

import (
	"context"
	"log/slog"
	"net/http"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router"
)

// Option defines functional options for recovery middleware configuration.
type Option func(*config)

type config struct {
	// minStatus is the lowest status recovered when statuses is nil.
	minStatus int

	// statuses, when set, lists exactly the statuses recovered.
	statuses map[int]bool

	handler func(ctx context.Context, err *riverrors.Error) *router.Response

	logger *slog.Logger
}

func defaultConfig() *config {
	return &config{
		minStatus: http.StatusInternalServerError,
		handler:   fixedResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)),
	}
}

// WithStatuses recovers only errors with one of the given statuses.
func WithStatuses(statuses ...int) Option {
	return func(cfg *config) {
		cfg.statuses = make(map[int]bool, len(statuses))
		for _, s := range statuses {
			cfg.statuses[s] = true
		}
	}
}

// WithAll recovers every error.
func WithAll() Option {
	return func(cfg *config) {
		cfg.statuses = nil
		cfg.minStatus = 0
	}
}

// WithResponse sets the fixed status and body sent instead of the error.
func WithResponse(status int, body string) Option {
	return func(cfg *config) {
		cfg.handler = fixedResponse(status, body)
	}
}

// WithHandler builds the replacement response from the error.
func WithHandler(handler func(ctx context.Context, err *riverrors.Error) *router.Response) Option {
	return func(cfg *config) {
		cfg.handler = handler
	}
}

// WithLogger logs every recovered error at error level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
