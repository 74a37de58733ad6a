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

package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"rivaas.dev/relay/codec"
)

func TestBinary_RoundTrip(t *testing.T) {
	t.Parallel()

	c := New[*wrapperspb.StringValue]()
	out, err := c.Serialize(wrapperspb.String("hello"))
	require.NoError(t, err)

	got, err := c.Deserialize(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.GetValue())
	assert.Equal(t, "application/x-protobuf", c.ContentType())
}

func TestBinary_EmptyBody(t *testing.T) {
	t.Parallel()

	got, err := New[*wrapperspb.Int64Value]().Deserialize("")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(0), got.GetValue())
}

func TestBinary_Malformed(t *testing.T) {
	t.Parallel()

	_, err := New[*wrapperspb.Int64Value]().Deserialize("\xff\xff\xff")
	require.Error(t, err)
}

func TestJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	c := NewJSON[*wrapperspb.Int64Value]()
	got, err := c.Deserialize(`"41"`)
	require.NoError(t, err)
	assert.Equal(t, int64(41), got.GetValue())

	out, err := c.Serialize(wrapperspb.Int64(got.GetValue() + 1))
	require.NoError(t, err)
	assert.JSONEq(t, `"42"`, out)
}

func TestJSON_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewJSON[*wrapperspb.Int64Value](codec.WithStrict()).Deserialize(`{"value":`)
	require.Error(t, err)
}
