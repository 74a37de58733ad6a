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

// Package msgpack provides a MessagePack codec backed by
// github.com/vmihailenco/msgpack/v5.
//
// Bodies are binary; Go strings carry them unchanged.
package msgpack

import (
	"bytes"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"rivaas.dev/relay/codec"
)

// Codec encodes and decodes T as MessagePack.
type Codec[T any] struct {
	opts    codec.Options
	jsonTag bool
}

// New returns a MessagePack codec for T.
// Pass WithJSONTag to reuse `json` struct tags instead of `msgpack` tags.
func New[T any](opts ...codec.Option) *Codec[T] {
	return &Codec[T]{opts: codec.Apply(opts)}
}

// WithJSONTag makes the codec read `json` struct tags.
func (c *Codec[T]) WithJSONTag() *Codec[T] {
	c2 := *c
	c2.jsonTag = true
	return &c2
}

// Deserialize decodes body into a T.
func (c *Codec[T]) Deserialize(body string) (T, error) {
	var v T
	dec := msgpack.NewDecoder(strings.NewReader(body))
	if c.jsonTag {
		dec.SetCustomStructTag("json")
	}
	if c.opts.Strict {
		dec.DisallowUnknownFields(true)
	}
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if err := c.opts.Check(&v); err != nil {
		return v, err
	}
	return v, nil
}

// Serialize encodes v.
func (c *Codec[T]) Serialize(v T) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if c.jsonTag {
		enc.SetCustomStructTag("json")
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ContentType implements codec.ContentTyper.
func (c *Codec[T]) ContentType() string {
	return "application/msgpack"
}
