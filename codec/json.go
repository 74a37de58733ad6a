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

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrTrailingData is returned when a JSON body holds more than one value.
var ErrTrailingData = errors.New("body must contain a single JSON value")

// JSONCodec encodes and decodes T as JSON.
type JSONCodec[T any] struct {
	opts Options
}

// JSON returns a JSON codec for T.
func JSON[T any](opts ...Option) *JSONCodec[T] {
	return &JSONCodec[T]{opts: Apply(opts)}
}

// Deserialize decodes body into a T and validates it.
func (c *JSONCodec[T]) Deserialize(body string) (T, error) {
	var v T
	dec := json.NewDecoder(strings.NewReader(body))
	if c.opts.Strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if dec.More() {
		return v, ErrTrailingData
	}
	if err := c.opts.Check(&v); err != nil {
		return v, err
	}
	return v, nil
}

// Serialize encodes v.
func (c *JSONCodec[T]) Serialize(v T) (string, error) {
	var (
		data []byte
		err  error
	)
	if c.opts.Indent != "" {
		data, err = json.MarshalIndent(v, "", c.opts.Indent)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ContentType implements [ContentTyper].
func (c *JSONCodec[T]) ContentType() string {
	return "application/json; charset=utf-8"
}
