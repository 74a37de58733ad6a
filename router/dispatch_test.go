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
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/relay/codec"
	riverrors "rivaas.dev/relay/errors"
)

type counter struct {
	Value int `json:"value"`
}

type measurement struct {
	Reading float64 `json:"reading"`
}

func increment(_ context.Context, in In[counter]) counter {
	return counter{Value: in.Value.Value + 1}
}

func TestBind_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    Binding
		want Shape
		str  string
	}{
		{
			name: "no input, infallible body",
			b:    text("hi"),
			want: Shape{Input: InputNone, Output: OutputBody},
			str:  "none -> body",
		},
		{
			name: "body, fallible body",
			b: Handle(Body(codec.JSON[counter]()), codec.JSON[counter](), func(_ context.Context, in In[counter]) (counter, error) {
				return in.Value, nil
			}),
			want: Shape{Input: InputBody, Output: OutputBody, Fallible: true},
			str:  "body -> result(body)",
		},
		{
			name: "result-aware body with request, response output",
			b: HandleWithResponse(Fallible(BodyWithRequest(codec.String())), codec.String(), func(context.Context, In[string]) (Out[string], error) {
				return Out[string]{}, nil
			}),
			want: Shape{Input: InputBodyWithRequest, Output: OutputBodyWithResponse, ResultAware: true, Fallible: true},
			str:  "result(body+request) -> result(body+response)",
		},
		{
			name: "infallible with response",
			b: InfallibleWithResponse(NoInput(), codec.Unit(), func(context.Context, In[struct{}]) Out[struct{}] {
				return Out[struct{}]{Status: http.StatusNoContent}
			}),
			want: Shape{Input: InputNone, Output: OutputBodyWithResponse},
			str:  "none -> body+response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.b.Shape())
			assert.Equal(t, tt.str, tt.b.Shape().String())
			assert.NotNil(t, tt.b.Runner())
		})
	}
}

func TestBind_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	b := Infallible(Body(codec.JSON[counter]()), codec.JSON[counter](), increment)

	resp, err := b.Runner()(context.Background(), newReq(`{"value":1}`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":2}`, resp.Body)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestBind_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		b          Binding
		body       string
		wantStatus int
		wantKind   riverrors.Kind
		wantBody   string
	}{
		{
			name:       "body does not decode",
			b:          Infallible(Body(codec.JSON[counter]()), codec.JSON[counter](), increment),
			body:       `{"value":`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   riverrors.KindDeserialization,
		},
		{
			name: "value does not encode",
			b: Infallible(NoInput(), codec.JSON[measurement](), func(context.Context, In[struct{}]) measurement {
				return measurement{Reading: math.Inf(1)}
			}),
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   riverrors.KindSerialization,
		},
		{
			name: "handler declares an error",
			b: Handle(NoInput(), codec.String(), func(context.Context, In[struct{}]) (string, error) {
				return "", riverrors.New(http.StatusNotFound, "no such counter")
			}),
			wantStatus: http.StatusNotFound,
			wantKind:   riverrors.KindHandlerDeclared,
			wantBody:   "no such counter",
		},
		{
			name: "handler returns a plain error",
			b: Handle(NoInput(), codec.String(), func(context.Context, In[struct{}]) (string, error) {
				return "", errors.New("disk full")
			}),
			wantStatus: http.StatusInternalServerError,
			wantKind:   riverrors.KindHandlerDeclared,
			wantBody:   "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := tt.b.Runner()(context.Background(), newReq(tt.body), nil)
			assert.Nil(t, resp)

			var e *riverrors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.wantStatus, e.Status)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.NotEmpty(t, e.Body)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, e.Body)
			}
		})
	}
}

func TestBind_DeserializationBodyIsCodecMessage(t *testing.T) {
	t.Parallel()

	failing := codec.DeserializerFunc[int](func(string) (int, error) {
		return 0, errors.New("not a number")
	})
	b := Infallible(Body[int](failing), codec.String(), func(context.Context, In[int]) string { return "" })

	_, err := b.Runner()(context.Background(), newReq("x"), nil)
	var e *riverrors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "not a number", e.Body)
}

func TestBind_UpstreamError(t *testing.T) {
	t.Parallel()

	upstream := riverrors.ShortCircuit(http.StatusForbidden, "blocked")

	t.Run("propagated when not result-aware", func(t *testing.T) {
		t.Parallel()

		called := false
		b := Infallible(NoInput(), codec.String(), func(context.Context, In[struct{}]) string {
			called = true
			return ""
		})

		_, err := b.Runner()(context.Background(), nil, upstream)
		require.ErrorIs(t, err, upstream)
		assert.False(t, called)
	})

	t.Run("recovered when result-aware", func(t *testing.T) {
		t.Parallel()

		b := Handle(Fallible(Body(codec.JSON[counter]())), codec.String(), func(_ context.Context, in In[counter]) (string, error) {
			if in.Err != nil {
				return "recovered from " + in.Err.Error(), nil
			}
			return "no error", nil
		})

		resp, err := b.Runner()(context.Background(), nil, upstream)
		require.NoError(t, err)
		assert.Equal(t, "recovered from blocked", resp.Body)
	})
}

func TestBind_RequestMetadata(t *testing.T) {
	t.Parallel()

	var bodyOnly, withRequest *Request
	a := Infallible(Body(codec.String()), codec.String(), func(_ context.Context, in In[string]) string {
		bodyOnly = in.Request
		return in.Value
	})
	b := Infallible(BodyWithRequest(codec.String()), codec.String(), func(_ context.Context, in In[string]) string {
		withRequest = in.Request
		return in.Request.Header.Get("X-Trace") + ":" + in.Value
	})

	req := newReq("payload")
	req.Header.Set("X-Trace", "abc")

	resp, err := a.Runner()(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "payload", resp.Body)
	assert.Nil(t, bodyOnly)

	resp, err = b.Runner()(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc:payload", resp.Body)
	assert.Same(t, req, withRequest)
}

func TestBind_ResponseMetadata(t *testing.T) {
	t.Parallel()

	b := HandleWithResponse(Body(codec.JSON[counter]()), codec.JSON[counter](), func(_ context.Context, in In[counter]) (Out[counter], error) {
		h := make(http.Header)
		h.Set("Location", "/counters/1")
		h.Set("Content-Type", "application/vnd.counter+json")
		return Out[counter]{Value: in.Value, Status: http.StatusCreated, Header: h}, nil
	})

	resp, err := b.Runner()(context.Background(), newReq(`{"value":5}`), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "/counters/1", resp.Header.Get("Location"))
	assert.Equal(t, "application/vnd.counter+json", resp.Header.Get("Content-Type"), "explicit content type wins")
	assert.JSONEq(t, `{"value":5}`, resp.Body)
}

func TestBind_UnitCodec(t *testing.T) {
	t.Parallel()

	b := Infallible(Body(codec.Unit()), codec.Unit(), func(context.Context, In[struct{}]) struct{} {
		return struct{}{}
	})

	resp, err := b.Runner()(context.Background(), newReq("ignored"), nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Body)
	assert.Empty(t, resp.Header.Get("Content-Type"))
}

func TestBind_NilPieces(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Handle[struct{}, string](NoInput(), nil, func(context.Context, In[struct{}]) (string, error) {
		return "", nil
	}).Runner())
	assert.Nil(t, Handle[struct{}, string](NoInput(), codec.String(), nil).Runner())
	assert.Nil(t, Handle(Input[int]{}, codec.String(), func(context.Context, In[int]) (string, error) {
		return "", nil
	}).Runner())
}
