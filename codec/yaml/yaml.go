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

// Package yaml provides a YAML codec backed by gopkg.in/yaml.v3.
//
// Example:
//
//	type Config struct {
//	    Name string `yaml:"name"`
//	    Port int    `yaml:"port"`
//	}
//
//	r.POST("/config", router.Handle(router.Body(yaml.New[Config](yaml.WithStrict())), ...))
package yaml

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"rivaas.dev/relay/codec"
)

// WithStrict rejects fields the target type does not declare.
func WithStrict() codec.Option { return codec.WithStrict() }

// WithValidator integrates external validation.
func WithValidator(v codec.Validator) codec.Option { return codec.WithValidator(v) }

// Codec encodes and decodes T as YAML.
type Codec[T any] struct {
	opts codec.Options
}

// New returns a YAML codec for T.
func New[T any](opts ...codec.Option) *Codec[T] {
	return &Codec[T]{opts: codec.Apply(opts)}
}

// Deserialize decodes body into a T. An empty document decodes to the zero value.
func (c *Codec[T]) Deserialize(body string) (T, error) {
	var v T
	dec := yaml.NewDecoder(strings.NewReader(body))
	dec.KnownFields(c.opts.Strict)
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return v, err
	}
	if err := c.opts.Check(&v); err != nil {
		return v, err
	}
	return v, nil
}

// Serialize encodes v.
func (c *Codec[T]) Serialize(v T) (string, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	if c.opts.Indent != "" {
		enc.SetIndent(len(c.opts.Indent))
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ContentType implements codec.ContentTyper.
func (c *Codec[T]) ContentType() string {
	return "application/yaml"
}
