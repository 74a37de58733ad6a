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

// Package toml provides a TOML codec backed by github.com/BurntSushi/toml.
package toml

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"rivaas.dev/relay/codec"
)

// Codec encodes and decodes T as TOML. TOML documents are tables, so T
// should be a struct or a map.
type Codec[T any] struct {
	opts codec.Options
}

// New returns a TOML codec for T.
func New[T any](opts ...codec.Option) *Codec[T] {
	return &Codec[T]{opts: codec.Apply(opts)}
}

// UndecodedKeysError lists keys present in the body but absent from T.
type UndecodedKeysError struct {
	Keys []string
}

func (e *UndecodedKeysError) Error() string {
	return fmt.Sprintf("unknown keys: %s", strings.Join(e.Keys, ", "))
}

// Deserialize decodes body into a T. With codec.WithStrict, keys T does not
// declare are reported as an [*UndecodedKeysError].
func (c *Codec[T]) Deserialize(body string) (T, error) {
	var v T
	meta, err := toml.Decode(body, &v)
	if err != nil {
		return v, err
	}
	if c.opts.Strict {
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return v, &UndecodedKeysError{Keys: keys}
		}
	}
	if err := c.opts.Check(&v); err != nil {
		return v, err
	}
	return v, nil
}

// Serialize encodes v.
func (c *Codec[T]) Serialize(v T) (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	if c.opts.Indent != "" {
		enc.Indent = c.opts.Indent
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ContentType implements codec.ContentTyper.
func (c *Codec[T]) ContentType() string {
	return "application/toml"
}
