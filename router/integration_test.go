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

//go:build integration

package router_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rivaas.dev/relay/codec"
	riverrors "rivaas.dev/relay/errors"
	"rivaas.dev/relay/router"
)

type counter struct {
	Value int `json:"value"`
}

func do(srv *httptest.Server, method, path, body string) (int, string) {
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	Expect(err).NotTo(HaveOccurred())

	resp, err := srv.Client().Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return resp.StatusCode, string(b)
}

var _ = Describe("Router over HTTP", func() {
	var (
		srv   *httptest.Server
		calls atomic.Int32
		order []string
	)

	BeforeEach(func() {
		calls.Store(0)
		order = nil

		api := router.MustNew()
		api.Pre(func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
			order = append(order, "api.pre")
			return req, err
		})
		api.POST("/counter", router.Infallible(router.Body(codec.JSON[counter](codec.WithStrict())), codec.JSON[counter](),
			func(_ context.Context, in router.In[counter]) counter {
				calls.Add(1)
				return counter{Value: in.Value.Value + 1}
			}))

		admin := router.MustNew()
		admin.Pre(func(_ context.Context, req *router.Request, err error) (*router.Request, error) {
			if err != nil {
				return nil, err
			}
			if req.Header.Get("X-Admin") != "yes" {
				return nil, riverrors.ShortCircuit(http.StatusForbidden, "blocked")
			}
			return req, nil
		})
		admin.DELETE("/counter", router.Infallible(router.NoInput(), codec.String(),
			func(context.Context, router.In[struct{}]) string {
				calls.Add(1)
				return "reset"
			}))

		root := router.MustNew()
		root.Pre(func(ctx context.Context, req *router.Request, err error) (*router.Request, error) {
			order = append(order, "root.pre")
			return req, err
		})
		root.GET("/", router.Infallible(router.NoInput(), codec.String(),
			func(context.Context, router.In[struct{}]) string { return "Hello world" }))
		root.Mount(api, router.WithPrefix("/api"))
		root.Mount(admin, router.WithPrefix("/admin"))

		srv = httptest.NewServer(root)
	})

	AfterEach(func() {
		srv.Close()
	})

	It("serves the root route", func() {
		status, body := do(srv, http.MethodGet, "/", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("Hello world"))
		Expect(order).To(Equal([]string{"root.pre"}))
	})

	It("runs parent steps before child steps on mounted routes", func() {
		status, body := do(srv, http.MethodPost, "/api/counter", `{"value":1}`)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"value":2}`))
		Expect(order).To(Equal([]string{"root.pre", "api.pre"}))
	})

	It("answers malformed bodies with 422 without calling the handler", func() {
		status, _ := do(srv, http.MethodPost, "/api/counter", `{"value":1,"extra":true}`)
		Expect(status).To(Equal(http.StatusUnprocessableEntity))
		Expect(calls.Load()).To(BeZero())
	})

	It("short-circuits before the handler", func() {
		status, body := do(srv, http.MethodDelete, "/admin/counter", "")
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(Equal("blocked"))
		Expect(calls.Load()).To(BeZero())
	})

	It("answers unknown routes with 404", func() {
		status, _ := do(srv, http.MethodGet, "/api/nothing", "")
		Expect(status).To(Equal(http.StatusNotFound))
	})
})
