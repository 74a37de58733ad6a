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
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/relay/router"
)

// Default histogram buckets for different metric types.
var (
	// DefaultDurationBuckets are histogram boundaries for request duration in seconds.
	// Covers sub-millisecond to 10 second responses.
	DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// DefaultSizeBuckets are histogram boundaries for response size in bytes.
	// Covers 100B to 10MB.
	DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
)

// ErrRegistration is returned when the exporter cannot be registered.
var ErrRegistration = errors.New("metrics: exporter registration failed")

// scopeName identifies the instruments of this package.
const scopeName = "rivaas.dev/relay/metrics"

// Recorder records request metrics on an OpenTelemetry meter whose readings
// are exported to a Prometheus registry.
// All methods are safe for concurrent use.
type Recorder struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer

	meterProvider *sdkmetric.MeterProvider
	requests      metric.Int64Counter
	duration      metric.Float64Histogram
	size          metric.Int64Histogram
	inFlight      metric.Int64UpDownCounter

	namespace       string
	constAttrs      []attribute.KeyValue
	durationBuckets []float64
	sizeBuckets     []float64
	pathFilter      *pathFilter
	logger          *slog.Logger
	now             func() time.Time

	validationErrors []error
}

var _ router.Observer = (*Recorder)(nil)

// requestState is the per-request value handed back in OnRequestEnd.
type requestState struct {
	start time.Time
}

// New creates a Recorder and registers its exporter.
// Without [WithRegistry] a fresh registry is used, so several recorders can
// coexist in one process. Recorders sharing a registry need distinct
// namespaces, otherwise scrapes report duplicate series.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
		pathFilter:      newPathFilter(),
		logger:          slog.New(slog.DiscardHandler),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.validationErrors) > 0 {
		return nil, errors.Join(r.validationErrors...)
	}

	if r.registerer == nil {
		reg := prometheus.NewRegistry()
		r.registerer = reg
		r.gatherer = reg
	}

	exporterOpts := []otelprom.Option{
		otelprom.WithRegisterer(r.registerer),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	}
	if r.namespace != "" {
		exporterOpts = append(exporterOpts, otelprom.WithNamespace(r.namespace))
	}
	exporter, err := otelprom.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	r.meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	if err = r.initInstruments(r.meterProvider.Meter(scopeName)); err != nil {
		return nil, err
	}

	r.logger.Debug("metrics recorder initialized", "namespace", r.namespace)
	return r, nil
}

// initInstruments creates the request instruments on meter.
func (r *Recorder) initInstruments(meter metric.Meter) error {
	var err error

	r.requests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Requests served, by method, route pattern and status."),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	r.duration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("Time from request start to response written."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	r.size, err = meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("Response body size."),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create response size histogram: %w", err)
	}

	r.inFlight, err = meter.Int64UpDownCounter(
		"http_requests_in_flight",
		metric.WithDescription("Requests currently being served."),
	)
	if err != nil {
		return fmt.Errorf("failed to create in-flight counter: %w", err)
	}
	return nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}
	return r
}

// OnRequestStart implements [router.Observer].
// Excluded paths return a nil state and are not recorded.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if r.pathFilter.shouldExclude(req.URL.Path) {
		return ctx, nil
	}
	r.inFlight.Add(ctx, 1, metric.WithAttributes(r.constAttrs...))
	return ctx, &requestState{start: r.now()}
}

// OnRequestEnd implements [router.Observer].
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, info router.RequestInfo) {
	st, ok := state.(*requestState)
	if !ok {
		return
	}
	r.inFlight.Add(ctx, -1, metric.WithAttributes(r.constAttrs...))

	routeAttrs := metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("method", info.Method),
		attribute.String("route", info.Route),
	}, r.constAttrs...)...)
	r.requests.Add(ctx, 1, metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("method", info.Method),
		attribute.String("route", info.Route),
		attribute.String("status", strconv.Itoa(info.Status)),
	}, r.constAttrs...)...))
	r.duration.Record(ctx, r.now().Sub(st.start).Seconds(), routeAttrs)
	r.size.Record(ctx, info.Size, routeAttrs)
}

// Handler returns an http.Handler serving the recorder's registry in the
// Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(r.logger.Handler(), slog.LevelError),
	})
}

// Shutdown stops the meter provider. Later scrapes no longer report the
// recorder's series.
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.meterProvider.Shutdown(ctx)
}

// Registerer returns the registerer the exporter lives in, for applications
// that add their own collectors next to the HTTP metrics.
func (r *Recorder) Registerer() prometheus.Registerer {
	return r.registerer
}
