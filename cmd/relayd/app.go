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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/logging"
	"rivaas.dev/relay/metrics"
	"rivaas.dev/relay/router"
	"rivaas.dev/relay/tracing"
)

// app is a configured relayd instance.
type app struct {
	settings       *Settings
	logger         *slog.Logger
	router         *router.Router
	recorder       *metrics.Recorder
	tracerProvider *sdktrace.TracerProvider
}

func newLogger(s *Settings, w io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(
		logging.WithHandlerType(logging.HandlerType(s.Log.Format)),
		logging.WithOutput(w),
		logging.WithLevel(level),
		logging.WithServiceName("relayd"),
		logging.WithServiceVersion(version),
	)
}

func errorFormatter(s *Settings) riverrors.Formatter {
	switch s.Errors.Format {
	case "simple":
		return riverrors.NewSimple()
	case "rfc9457":
		return riverrors.NewRFC9457(s.Errors.TypeURL)
	default:
		return riverrors.NewPlain()
	}
}

// newApp builds the router with its observers and registers every route.
// Spans go to traceOut when stdout tracing is enabled.
func newApp(s *Settings, logger *slog.Logger, traceOut io.Writer) (*app, error) {
	a := &app{settings: s, logger: logger}

	opts := []router.Option{
		router.WithLogger(logger),
		router.WithErrorFormatter(errorFormatter(s)),
		router.WithMaxBodySize(s.Server.MaxBodyBytes),
		router.WithH2C(s.Server.H2C),
		router.WithDiagnostics(router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
			logger.Debug(e.Message, "kind", string(e.Kind), "fields", e.Fields)
		})),
	}

	if s.Metrics.Enabled {
		rec, err := metrics.New(
			metrics.WithNamespace("relay"),
			metrics.WithServiceName("relayd"),
			metrics.WithExcludePaths("/health"),
			metrics.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		a.recorder = rec
		opts = append(opts, router.WithObserver(rec))
	}

	if s.Tracing.Stdout {
		tp, err := tracing.NewStdoutProvider(traceOut, "relayd", version)
		if err != nil {
			return nil, err
		}
		tracer, err := tracing.New(
			tracing.WithTracerProvider(tp),
			tracing.WithServiceName("relayd"),
			tracing.WithServiceVersion(version),
			tracing.WithExcludePaths("/health"),
			tracing.WithHeaders("X-Request-ID"),
			tracing.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		a.tracerProvider = tp
		opts = append(opts, router.WithObserver(tracer))
	}

	r, err := router.New(opts...)
	if err != nil {
		return nil, err
	}
	a.router = r
	a.registerRoutes()
	return a, nil
}

// serve runs the API server, and the metrics server when enabled, until ctx
// is cancelled or a listener fails. Both are then shut down gracefully.
func (a *app) serve(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() { errCh <- a.router.Serve(a.settings.Server.Addr) }()

	var metricsSrv *http.Server
	if a.recorder != nil {
		mux := http.NewServeMux()
		mux.Handle(a.settings.Metrics.Path, a.recorder.Handler())
		metricsSrv = &http.Server{
			Addr:              a.settings.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		a.logger.Info("metrics server starting", "addr", metricsSrv.Addr, "path", a.settings.Metrics.Path)
		go func() { errCh <- metricsSrv.ListenAndServe() }()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.settings.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("listener: %w", runErr))
	}
	errs = append(errs, a.router.Shutdown(shutdownCtx))
	if metricsSrv != nil {
		errs = append(errs, metricsSrv.Shutdown(shutdownCtx))
	}
	errs = append(errs, a.close(shutdownCtx))
	return errors.Join(errs...)
}

// close flushes buffered spans and stops the meter provider.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.tracerProvider != nil {
		errs = append(errs, a.tracerProvider.Shutdown(ctx))
	}
	if a.recorder != nil {
		errs = append(errs, a.recorder.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
