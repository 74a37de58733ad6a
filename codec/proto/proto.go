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

// Package proto provides Protocol Buffers codecs backed by
// google.golang.org/protobuf, in binary wire format and in the canonical
// JSON mapping.
//
// T must be a generated message pointer type such as *pb.User.
package proto

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"rivaas.dev/relay/codec"
)

// Message is an alias for proto.Message to simplify imports.
type Message = proto.Message

// Binary encodes and decodes T in protobuf wire format.
type Binary[T Message] struct {
	opts codec.Options
}

// New returns a binary protobuf codec. Unknown fields are discarded unless
// codec.WithStrict is given, in which case they are kept on the message.
func New[T Message](opts ...codec.Option) *Binary[T] {
	return &Binary[T]{opts: codec.Apply(opts)}
}

// Deserialize decodes body into a new T.
func (c *Binary[T]) Deserialize(body string) (T, error) {
	msg := newMessage[T]()
	u := proto.UnmarshalOptions{DiscardUnknown: !c.opts.Strict}
	if err := u.Unmarshal([]byte(body), msg); err != nil {
		var zero T
		return zero, err
	}
	if err := c.opts.Check(msg); err != nil {
		return msg, err
	}
	return msg, nil
}

// Serialize encodes v deterministically.
func (c *Binary[T]) Serialize(v T) (string, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ContentType implements codec.ContentTyper.
func (c *Binary[T]) ContentType() string {
	return "application/x-protobuf"
}

// JSON encodes and decodes T with the protobuf JSON mapping.
type JSON[T Message] struct {
	opts codec.Options
}

// NewJSON returns a protojson codec. Unknown fields are rejected only with
// codec.WithStrict.
func NewJSON[T Message](opts ...codec.Option) *JSON[T] {
	return &JSON[T]{opts: codec.Apply(opts)}
}

// Deserialize decodes body into a new T.
func (c *JSON[T]) Deserialize(body string) (T, error) {
	msg := newMessage[T]()
	u := protojson.UnmarshalOptions{DiscardUnknown: !c.opts.Strict}
	if err := u.Unmarshal([]byte(body), msg); err != nil {
		var zero T
		return zero, err
	}
	if err := c.opts.Check(msg); err != nil {
		return msg, err
	}
	return msg, nil
}

// Serialize encodes v.
func (c *JSON[T]) Serialize(v T) (string, error) {
	m := protojson.MarshalOptions{Indent: c.opts.Indent}
	data, err := m.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ContentType implements codec.ContentTyper.
func (c *JSON[T]) ContentType() string {
	return "application/json; charset=utf-8"
}

// newMessage allocates the message T points to. Generated types answer
// ProtoReflect on a nil pointer, which gives access to their descriptor.
func newMessage[T Message]() T {
	var zero T
	return zero.ProtoReflect().New().Interface().(T)
}
