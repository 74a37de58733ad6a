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

package accesslog

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/middleware"
	"rivaas.dev/relay/router"
	"rivaas.dev/relay/telemetry/semconv"
)

type entryKey struct{}

// entry is the per-request state the pre step hands to the after step.
type entry struct {
	start    time.Time
	method   string
	path     string
	excluded bool
}

// New returns a middleware that writes one structured log line per request.
//
// The pre step records the start time, method and path in the request
// context; the after step logs them with the status, body size, duration and
// error. Requests that were short-circuited before this middleware's pre
// step have no recorded request, so they are logged with status and error
// only.
//
// Example:
//
//	r.Use(accesslog.New(
//	    accesslog.WithLogger(logger),
//	    accesslog.WithExcludePaths("/health"),
//	    accesslog.WithSlowThreshold(500*time.Millisecond),
//	))
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	pre := func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
		if err != nil {
			return nil, err
		}
		e := &entry{
			start:    cfg.now(),
			method:   req.Method,
			path:     req.Path,
			excluded: cfg.isExcluded(req.Path),
		}
		return req.WithContext(context.WithValue(ctx, entryKey{}, e)), nil
	}

	after := func(ctx context.Context, resp *router.Response, err error) (*router.Response, error) {
		if cfg.logger == nil {
			return resp, err
		}
		e, _ := ctx.Value(entryKey{}).(*entry)
		if e != nil && e.excluded {
			return resp, err
		}
		cfg.log(ctx, e, resp, err)
		return resp, err
	}

	return router.Middleware{Pre: pre, After: after}
}

func (cfg *config) isExcluded(path string) bool {
	if cfg.excludePaths[path] {
		return true
	}
	for _, prefix := range cfg.excludePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (cfg *config) log(ctx context.Context, e *entry, resp *router.Response, err error) {
	var (
		status int
		size   int
	)
	if err != nil {
		status = riverrors.From(err).Status
	} else {
		status = resp.StatusCode()
		size = len(resp.Body)
	}

	var duration time.Duration
	if e != nil {
		duration = cfg.now().Sub(e.start)
	}

	isError := status >= 400
	isSlow := cfg.slowThreshold > 0 && duration >= cfg.slowThreshold

	if !isError && !isSlow {
		if cfg.logErrorsOnly {
			return
		}
		if cfg.sampleRate < 1.0 {
			requestID, _ := ctx.Value(middleware.RequestIDKey).(string)
			if !sampleByHash(requestID, cfg.sampleRate) {
				return
			}
		}
	}

	fields := make([]any, 0, 16)
	if e != nil {
		fields = append(fields,
			"method", e.method,
			"path", e.path,
			"duration_ms", duration.Milliseconds(),
		)
	}
	fields = append(fields, "status", status, "bytes_sent", size)
	if requestID, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		fields = append(fields, semconv.RequestID, requestID)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields, semconv.TraceID, sc.TraceID().String(), semconv.SpanID, sc.SpanID().String())
	}
	if isSlow {
		fields = append(fields, "slow", true)
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400, isSlow:
		level = slog.LevelWarn
	}
	cfg.logger.Log(ctx, level, "access", fields...)
}

// sampleByHash decides deterministically from the request ID, so every
// line of one request is kept or dropped together.
func sampleByHash(id string, rate float64) bool {
	if id == "" {
		return true // No ID, log it
	}

	h := sha256.Sum256([]byte(id))
	hashValue := binary.BigEndian.Uint64(h[:8])

	threshold := uint64(rate * float64(^uint64(0)))

	return hashValue <= threshold
}
