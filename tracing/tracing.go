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
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/relay/router"
	"rivaas.dev/relay/telemetry/semconv"
)

// instrumentationName identifies spans produced by this package.
const instrumentationName = "rivaas.dev/relay/tracing"

// Tracer starts a server span when a request arrives and ends it once the
// response is written. All methods are safe for concurrent use.
type Tracer struct {
	provider   trace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	serviceName    string
	serviceVersion string
	excludePaths   map[string]bool
	recordHeaders  []string
	logger         *slog.Logger
}

var _ router.Observer = (*Tracer)(nil)

// New creates a Tracer. Without [WithTracerProvider] the global provider is
// used, which is a no-op until the application installs one.
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		propagator:   propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		excludePaths: make(map[string]bool),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.provider == nil {
		t.provider = otel.GetTracerProvider()
	}
	if t.propagator == nil {
		return nil, fmt.Errorf("tracing: %w", errNilPropagator)
	}
	t.tracer = t.provider.Tracer(instrumentationName, trace.WithInstrumentationVersion(t.serviceVersion))

	t.logger.Debug("tracer initialized", "service", t.serviceName)
	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing.MustNew: %v", err))
	}
	return t
}

// OnRequestStart implements router.Observer.
//
// The route is not known yet, so the span starts under "METHOD path" and is
// renamed to "METHOD pattern" in OnRequestEnd.
func (t *Tracer) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if t.excludePaths[req.URL.Path] {
		return ctx, nil
	}

	ctx = t.propagator.Extract(ctx, propagation.HeaderCarrier(req.Header))

	attrs := make([]attribute.KeyValue, 0, 5+len(t.recordHeaders))
	attrs = append(attrs,
		attribute.String(semconv.HTTPRequestMethod, req.Method),
		attribute.String(semconv.URLPath, req.URL.Path),
		attribute.String(semconv.ServerAddress, req.Host),
		attribute.String(semconv.UserAgentOriginal, req.UserAgent()),
	)
	if t.serviceName != "" {
		attrs = append(attrs, attribute.String(semconv.ServiceName, t.serviceName))
	}
	for _, h := range t.recordHeaders {
		if v := req.Header.Get(h); v != "" {
			attrs = append(attrs, attribute.String(semconv.HTTPRequestHeaderPrefix+strings.ToLower(h), v))
		}
	}

	ctx, span := t.tracer.Start(ctx, req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	return ctx, span
}

// OnRequestEnd implements router.Observer.
func (t *Tracer) OnRequestEnd(_ context.Context, state any, info router.RequestInfo) {
	span, ok := state.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	span.SetName(info.Method + " " + info.Route)
	span.SetAttributes(
		attribute.String(semconv.HTTPRoute, info.Route),
		attribute.Int(semconv.HTTPResponseStatusCode, info.Status),
		attribute.Int64(semconv.HTTPResponseBodySize, info.Size),
	)

	if info.Err != nil {
		span.RecordError(info.Err)
	}
	if info.Status >= http.StatusInternalServerError {
		desc := http.StatusText(info.Status)
		if info.Err != nil {
			desc = info.Err.Error()
		}
		span.SetStatus(codes.Error, desc)
	}
}

// Propagator returns the propagator used to extract incoming trace context.
// Clients calling downstream services inject with the same one.
func (t *Tracer) Propagator() propagation.TextMapPropagator {
	return t.propagator
}
