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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/relay/codec"
	riverrors "rivaas.dev/relay/errors"
)

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServeHTTP(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.GET("/", Infallible(NoInput(), codec.String(), func(context.Context, In[struct{}]) string {
		return "Hello world"
	}))
	r.POST("/increment", Infallible(Body(codec.JSON[counter]()), codec.JSON[counter](), increment))
	r.GET("/panic", Infallible(NoInput(), codec.String(), func(context.Context, In[struct{}]) string {
		panic("kaboom")
	}))
	r.GET("/query", Infallible(BodyWithRequest(codec.Unit()), codec.String(), func(_ context.Context, in In[struct{}]) string {
		return in.Request.Query.Get("q") + " " + in.Request.Path
	}))

	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		wantStatus  int
		wantBody    string
		wantJSON    bool
		contentType string
	}{
		{name: "hello", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: "Hello world", contentType: "text/plain; charset=utf-8"},
		{name: "json", method: http.MethodPost, target: "/increment", body: `{"value":41}`, wantStatus: http.StatusOK, wantBody: `{"value":42}`, wantJSON: true, contentType: "application/json; charset=utf-8"},
		{name: "bad json", method: http.MethodPost, target: "/increment", body: `nope`, wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", method: http.MethodGet, target: "/missing", wantStatus: http.StatusNotFound, wantBody: "Not Found"},
		{name: "method without routes", method: http.MethodDelete, target: "/", wantStatus: http.StatusNotFound},
		{name: "panic", method: http.MethodGet, target: "/panic", wantStatus: http.StatusInternalServerError, wantBody: "Internal Server Error"},
		{name: "query and path", method: http.MethodGet, target: "/query?q=find", wantStatus: http.StatusOK, wantBody: "find /query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			switch {
			case tt.wantJSON:
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			case tt.wantBody != "":
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestServeHTTP_ShortCircuitRendered(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.Pre(func(context.Context, *Request, error) (*Request, error) {
		return nil, riverrors.ShortCircuit(http.StatusForbidden, "blocked")
	})
	r.GET("/", text("secret"))

	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "blocked", w.Body.String())
}

func TestServeHTTP_BodyLimit(t *testing.T) {
	t.Parallel()

	var seen error
	r := MustNew(WithMaxBodySize(8))
	r.After(func(_ context.Context, resp *Response, err error) (*Response, error) {
		seen = err
		return resp, err
	})
	r.POST("/echo", Infallible(Body(codec.String()), codec.String(), func(_ context.Context, in In[string]) string {
		return in.Value
	}))

	w := serve(r, http.MethodPost, "/echo", "short")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "short", w.Body.String())

	w = serve(r, http.MethodPost, "/echo", "this body is too long")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.Error(t, seen, "after steps see the transport error")
}

func TestServeHTTP_BodyLimitReachesFallibleInput(t *testing.T) {
	t.Parallel()

	recovering := Handle(Fallible(Body(codec.String())), codec.String(), func(_ context.Context, in In[string]) (string, error) {
		if in.Err != nil {
			return "recovered", nil
		}
		return in.Value, nil
	})
	passThrough := func(_ context.Context, req *Request, err error) (*Request, error) { return req, err }

	tests := []struct {
		name  string
		build func() *Router
	}{
		{
			name: "no middleware",
			build: func() *Router {
				r := MustNew(WithMaxBodySize(4))
				r.POST("/upload", recovering)
				return r
			},
		},
		{
			name: "behind a pass-through pre step",
			build: func() *Router {
				r := MustNew(WithMaxBodySize(4))
				r.Pre(passThrough)
				r.POST("/upload", recovering)
				return r
			},
		},
		{
			name: "mounted under a parent with middleware",
			build: func() *Router {
				child := MustNew()
				child.Pre(passThrough)
				child.POST("/upload", recovering)

				parent := MustNew(WithMaxBodySize(4))
				parent.Use(Middleware{Pre: passThrough})
				parent.Mount(child, WithPrefix("/files"))
				return parent
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := tt.build()
			target := "/upload"
			if _, ok := r.Lookup(http.MethodPost, target); !ok {
				target = "/files/upload"
			}

			w := serve(r, http.MethodPost, target, "0123456789")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "recovered", w.Body.String())
		})
	}
}

func TestServeHTTP_InvalidStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		binding Binding
	}{
		{
			name: "error below 100",
			binding: Handle(NoInput(), codec.String(), func(context.Context, In[struct{}]) (string, error) {
				return "", riverrors.New(42, "odd")
			}),
		},
		{
			name: "informational error",
			binding: Handle(NoInput(), codec.String(), func(context.Context, In[struct{}]) (string, error) {
				return "", riverrors.New(http.StatusContinue, "continue")
			}),
		},
		{
			name: "response above 999",
			binding: InfallibleWithResponse(NoInput(), codec.String(), func(context.Context, In[struct{}]) Out[string] {
				return Out[string]{Value: "big", Status: 1000}
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obs := &recordingObserver{}
			r := MustNew(WithObserver(obs))
			r.GET("/odd", tt.binding)

			var w *httptest.ResponseRecorder
			require.NotPanics(t, func() { w = serve(r, http.MethodGet, "/odd", "") })
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Internal Server Error", w.Body.String())

			require.Len(t, obs.infos, 1, "observers see the end of every request")
			assert.Equal(t, http.StatusInternalServerError, obs.infos[0].Status)
		})
	}
}

func TestServeHTTP_Headers(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.POST("/items", HandleWithResponse(NoInput(), codec.String(), func(context.Context, In[struct{}]) (Out[string], error) {
		h := make(http.Header)
		h.Set("Location", "/items/1")
		return Out[string]{Value: "created", Status: http.StatusCreated, Header: h}, nil
	}))
	r.HEAD("/items", text("body is dropped"))

	w := serve(r, http.MethodPost, "/items", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/items/1", w.Header().Get("Location"))
	assert.Equal(t, "created", w.Body.String())

	w = serve(r, http.MethodHead, "/items", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServeHTTP_ErrorFormatter(t *testing.T) {
	t.Parallel()

	r := MustNew(WithErrorFormatter(riverrors.NewRFC9457("https://errors.example.com")))
	r.GET("/gone", Handle(NoInput(), codec.String(), func(context.Context, In[struct{}]) (string, error) {
		return "", riverrors.New(http.StatusGone, "archived")
	}))

	w := serve(r, http.MethodGet, "/gone", "")
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", w.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "archived", problem["detail"])
	assert.Equal(t, "/gone", problem["instance"])
	assert.EqualValues(t, http.StatusGone, problem["status"])
}

type recordingObserver struct {
	infos []RequestInfo
	skip  string
}

func (o *recordingObserver) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if req.URL.Path == o.skip {
		return ctx, nil
	}
	return context.WithValue(ctx, ctxKey{}, "observed"), struct{}{}
}

func (o *recordingObserver) OnRequestEnd(_ context.Context, _ any, info RequestInfo) {
	o.infos = append(o.infos, info)
}

func TestServeHTTP_Observer(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{skip: "/health"}
	r := MustNew(WithObserver(obs))

	var ctxVal any
	r.GET("/users/{id}", Infallible(NoInput(), codec.String(), func(ctx context.Context, _ In[struct{}]) string {
		ctxVal = ctx.Value(ctxKey{})
		return "user"
	}))
	r.GET("/health", text("ok"))

	serve(r, http.MethodGet, "/users/42", "")
	serve(r, http.MethodGet, "/health", "")
	serve(r, http.MethodGet, "/nowhere", "")

	require.Len(t, obs.infos, 2)
	assert.Equal(t, RequestInfo{Method: http.MethodGet, Route: "/users/{id}", Status: http.StatusOK, Size: 4}, obs.infos[0])
	assert.Equal(t, NotFoundRoute, obs.infos[1].Route)
	assert.Equal(t, http.StatusNotFound, obs.infos[1].Status)
	require.Error(t, obs.infos[1].Err)
	assert.Equal(t, "observed", ctxVal)
}

func TestShutdownWithoutServer(t *testing.T) {
	t.Parallel()

	require.NoError(t, MustNew().Shutdown(context.Background()))
}
