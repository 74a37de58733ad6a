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
	"testing"
)

// trace records the order in which steps and handlers run.
type trace struct {
	events []string
}

func (tr *trace) pre(name string) PreStep {
	return func(_ context.Context, req *Request, err error) (*Request, error) {
		tr.events = append(tr.events, name)
		return req, err
	}
}

func (tr *trace) after(name string) AfterStep {
	return func(_ context.Context, resp *Response, err error) (*Response, error) {
		tr.events = append(tr.events, name)
		return resp, err
	}
}

func (tr *trace) runner(name, body string) Runner {
	return func(_ context.Context, req *Request, err error) (*Response, error) {
		if err != nil {
			return nil, err
		}
		tr.events = append(tr.events, name)
		return NewResponse(body), nil
	}
}

func staticRunner(body string) Runner {
	return func(_ context.Context, _ *Request, err error) (*Response, error) {
		if err != nil {
			return nil, err
		}
		return NewResponse(body), nil
	}
}

func text(body string) Binding {
	return Infallible(NoInput(), stringSerializer{}, func(context.Context, In[struct{}]) string {
		return body
	})
}

type stringSerializer struct{}

func (stringSerializer) Serialize(v string) (string, error) { return v, nil }

// panicError runs fn and returns the error it panicked with, or nil.
func panicError(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		if p := recover(); p != nil {
			e, ok := p.(error)
			if !ok {
				t.Fatalf("panic value %v is not an error", p)
			}
			err = e
		}
	}()
	fn()
	return nil
}
