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
	"net/http"

	riverrors "rivaas.dev/relay/errors"
)

// PreStep runs before the handler. It receives the upstream result, never
// both a request and an error, and may
//   - transform the request and return it,
//   - return the incoming error unchanged,
//   - replace the request with an error (short-circuit),
//   - or recover an incoming error by returning a request.
//
// ctx is the context of the most recent request seen by the pipeline; a step
// recovering from an error should attach it to the request it creates.
type PreStep func(ctx context.Context, req *Request, err error) (*Request, error)

// AfterStep runs after the handler, or after a short-circuit. It has the same
// choices as [PreStep] over responses. After steps always run, which makes
// them the last place an error can be turned into a response.
type AfterStep func(ctx context.Context, resp *Response, err error) (*Response, error)

// Middleware pairs a pre and an after step that belong together, typically
// because the pre step stores state in the request context for the after
// step to read. Either step may be nil.
type Middleware struct {
	Pre   PreStep
	After AfterStep
}

// Pipeline is an ordered list of pre steps and after steps.
//
// Pipeline values are immutable: Pre, After, Use and Merge return a new
// pipeline and never write into the receiver's storage, so one pipeline can
// be extended in different directions and shared by several routers.
type Pipeline struct {
	pre   []PreStep
	after []AfterStep
}

// NewPipeline returns an empty pipeline. The zero Pipeline is equally valid.
func NewPipeline() Pipeline {
	return Pipeline{}
}

// Pre returns a pipeline that runs step after the existing pre steps.
func (p Pipeline) Pre(step PreStep) Pipeline {
	if step == nil {
		return p
	}
	p.pre = append(p.pre[:len(p.pre):len(p.pre)], step)
	return p
}

// After returns a pipeline that runs step after the existing after steps.
func (p Pipeline) After(step AfterStep) Pipeline {
	if step == nil {
		return p
	}
	p.after = append(p.after[:len(p.after):len(p.after)], step)
	return p
}

// Use appends both halves of m.
func (p Pipeline) Use(m Middleware) Pipeline {
	return p.Pre(m.Pre).After(m.After)
}

// Merge returns the pipeline that behaves like p wrapped around inner:
// p's pre steps, inner's pre steps, the handler, inner's after steps,
// p's after steps.
func (p Pipeline) Merge(inner Pipeline) Pipeline {
	out := Pipeline{
		pre:   make([]PreStep, 0, len(p.pre)+len(inner.pre)),
		after: make([]AfterStep, 0, len(p.after)+len(inner.after)),
	}
	out.pre = append(append(out.pre, p.pre...), inner.pre...)
	out.after = append(append(out.after, inner.after...), p.after...)
	return out
}

// Len returns the number of pre and after steps.
func (p Pipeline) Len() (pre, after int) {
	return len(p.pre), len(p.after)
}

// Build wraps r with the pipeline:
//  1. the incoming result passes through every pre step in order;
//  2. r receives whatever the pre steps ended in, a request or an error;
//  3. r's outcome passes through every after step in order;
//  4. the last after step's result is returned.
//
// Runners built by [Handle] and friends return an upstream error unchanged
// without calling the computation, unless the input is [Fallible]. So a
// short-circuit skips the handler while a result-aware input still gets the
// chance to recover, exactly as it would with no pipeline at all.
//
// Errors that are not *errors.Error are converted with errors.From, so
// later steps and the transport only see the one error type.
func (p Pipeline) Build(r Runner) Runner {
	if len(p.pre) == 0 && len(p.after) == 0 {
		return r
	}
	pre, after := p.pre, p.after

	return func(ctx context.Context, req *Request, err error) (*Response, error) {
		req, err = normalizeRequest(req, err)
		if req != nil && req.ctx != nil {
			ctx = req.ctx
		}

		for _, step := range pre {
			req, err = normalizeRequest(step(ctx, req, err))
			if req != nil && req.ctx != nil {
				ctx = req.ctx
			}
		}

		resp, err := normalizeResponse(r(ctx, req, err))

		for _, step := range after {
			resp, err = normalizeResponse(step(ctx, resp, err))
		}

		return resp, err
	}
}

func normalizeRequest(req *Request, err error) (*Request, error) {
	if err != nil {
		return nil, riverrors.From(err)
	}
	if req == nil {
		return nil, riverrors.From(emptyStepError())
	}
	return req, nil
}

func normalizeResponse(resp *Response, err error) (*Response, error) {
	if err != nil {
		return nil, riverrors.From(err)
	}
	if resp == nil {
		return nil, riverrors.From(emptyStepError())
	}
	return resp, nil
}

func emptyStepError() error {
	return &riverrors.Error{
		Status: http.StatusInternalServerError,
		Body:   ErrEmptyStepResult.Error(),
		Kind:   riverrors.KindHandlerDeclared,
	}
}
