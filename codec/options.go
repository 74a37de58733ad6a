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

package codec

import "fmt"

// Option configures a codec.
type Option func(*Options)

// Options is the resolved configuration shared by every codec.
// Subpackages read it through [Apply].
type Options struct {
	// Validator runs after a successful decode.
	Validator Validator
	// Strict rejects fields the target type does not declare.
	Strict bool
	// Indent pretty-prints output where the format supports it.
	Indent string
}

// WithValidator integrates external validation.
// The validator is called after successful decoding.
func WithValidator(v Validator) Option {
	return func(o *Options) {
		o.Validator = v
	}
}

// WithStrict rejects unknown fields when decoding.
func WithStrict() Option {
	return func(o *Options) {
		o.Strict = true
	}
}

// WithIndent pretty-prints encoded output with the given indent.
func WithIndent(indent string) Option {
	return func(o *Options) {
		o.Indent = indent
	}
}

// Apply resolves opts. Nil options are skipped.
func Apply(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Check runs the configured validator against v, if any.
func (o Options) Check(v any) error {
	if o.Validator == nil {
		return nil
	}
	if err := o.Validator.Validate(v); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError wraps a validator failure so callers can tell it apart from
// a syntax error.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Details forwards structured details from the wrapped validator error.
func (e *ValidationError) Details() any {
	if d, ok := e.Err.(interface{ Details() any }); ok {
		return d.Details()
	}
	return nil
}
