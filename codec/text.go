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

// StringCodec passes the body through unchanged.
type StringCodec struct{}

// String returns the pass-through codec.
func String() StringCodec {
	return StringCodec{}
}

// Deserialize returns body.
func (StringCodec) Deserialize(body string) (string, error) {
	return body, nil
}

// Serialize returns v.
func (StringCodec) Serialize(v string) (string, error) {
	return v, nil
}

// ContentType implements [ContentTyper].
func (StringCodec) ContentType() string {
	return "text/plain; charset=utf-8"
}

// UnitCodec is for routes without a body: it ignores the request body and
// writes an empty response body.
type UnitCodec struct{}

// Unit returns the no-body codec.
func Unit() UnitCodec {
	return UnitCodec{}
}

// Deserialize ignores body.
func (UnitCodec) Deserialize(string) (struct{}, error) {
	return struct{}{}, nil
}

// Serialize returns the empty string.
func (UnitCodec) Serialize(struct{}) (string, error) {
	return "", nil
}
