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

// Package codec defines the deserializer and serializer capabilities a route
// is bound with, and ships the JSON, pass-through string and unit codecs.
//
// Further formats live in subpackages (yaml, toml, msgpack, proto); they
// all share the [Option] set defined here.
//
// Example:
//
//	type Counter struct {
//	    Value int `json:"value"`
//	}
//
//	c := codec.JSON[Counter](codec.WithStrict())
//	v, err := c.Deserialize(`{"value":1}`)
package codec

// Deserializer converts a request body into a typed value.
type Deserializer[T any] interface {
	Deserialize(body string) (T, error)
}

// Serializer converts a typed value into a response body.
type Serializer[T any] interface {
	Serialize(v T) (string, error)
}

// Codec is both.
type Codec[T any] interface {
	Deserializer[T]
	Serializer[T]
}

// ContentTyper is implemented by serializers that know their media type.
// The router sets Content-Type from it unless the handler set one.
type ContentTyper interface {
	ContentType() string
}

// Validator checks a decoded value. validation.Validator implements it.
type Validator interface {
	Validate(v any) error
}

// DeserializerFunc adapts a function to [Deserializer].
type DeserializerFunc[T any] func(body string) (T, error)

// Deserialize calls f(body).
func (f DeserializerFunc[T]) Deserialize(body string) (T, error) {
	return f(body)
}

// SerializerFunc adapts a function to [Serializer].
type SerializerFunc[T any] func(v T) (string, error)

// Serialize calls f(v).
func (f SerializerFunc[T]) Serialize(v T) (string, error) {
	return f(v)
}
