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

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	codecErr := errors.New("invalid character 'x' looking for beginning of value")

	tests := []struct {
		name       string
		err        *Error
		wantStatus int
		wantBody   string
		wantKind   Kind
	}{
		{
			name:       "handler declared",
			err:        New(http.StatusNotFound, "no such user"),
			wantStatus: http.StatusNotFound,
			wantBody:   "no such user",
			wantKind:   KindHandlerDeclared,
		},
		{
			name:       "formatted",
			err:        Newf(http.StatusConflict, "user %d exists", 7),
			wantStatus: http.StatusConflict,
			wantBody:   "user 7 exists",
			wantKind:   KindHandlerDeclared,
		},
		{
			name:       "short circuit",
			err:        ShortCircuit(http.StatusForbidden, "blocked"),
			wantStatus: http.StatusForbidden,
			wantBody:   "blocked",
			wantKind:   KindShortCircuit,
		},
		{
			name:       "deserialization",
			err:        Deserialization(codecErr),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   codecErr.Error(),
			wantKind:   KindDeserialization,
		},
		{
			name:       "serialization",
			err:        Serialization(codecErr),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   codecErr.Error(),
			wantKind:   KindSerialization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus())
			assert.Equal(t, tt.wantBody, tt.err.Body)
			assert.Equal(t, tt.wantBody, tt.err.Error())
			assert.Equal(t, tt.wantKind, tt.err.Kind)
			assert.Equal(t, tt.wantKind.String(), tt.err.Code())
		})
	}
}

func TestCodecErrorsUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("unexpected EOF")

	assert.ErrorIs(t, Deserialization(cause), cause)
	assert.ErrorIs(t, Serialization(cause), cause)
}

func TestFrom(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, From(nil))
	})

	t.Run("passes *Error through", func(t *testing.T) {
		t.Parallel()
		orig := New(http.StatusTeapot, "short and stout")
		assert.Same(t, orig, From(orig))
	})

	t.Run("finds wrapped *Error", func(t *testing.T) {
		t.Parallel()
		orig := ShortCircuit(http.StatusUnauthorized, "Unauthorized")
		wrapped := fmt.Errorf("auth: %w", orig)
		assert.Same(t, orig, From(wrapped))
	})

	t.Run("wraps foreign error as 500", func(t *testing.T) {
		t.Parallel()
		foreign := errors.New("database is down")
		got := From(foreign)
		require.NotNil(t, got)
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "database is down", got.Body)
		assert.Equal(t, KindHandlerDeclared, got.Kind)
		assert.ErrorIs(t, got, foreign)
	})

	t.Run("keeps a declared status", func(t *testing.T) {
		t.Parallel()
		foreign := fmt.Errorf("lookup: %w", statusErr{status: http.StatusNotFound})
		got := From(foreign)
		require.NotNil(t, got)
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, "lookup: not found", got.Body)
		assert.Equal(t, KindHandlerDeclared, got.Kind)
	})
}

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "not found" }
func (e statusErr) HTTPStatus() int { return e.status }

func TestErrorIs(t *testing.T) {
	t.Parallel()

	err := ShortCircuit(http.StatusForbidden, "blocked")

	assert.ErrorIs(t, err, New(http.StatusForbidden, "blocked"))
	assert.NotErrorIs(t, err, New(http.StatusForbidden, "other"))
	assert.NotErrorIs(t, err, New(http.StatusUnauthorized, "blocked"))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "handler_declared", KindHandlerDeclared.String())
	assert.Equal(t, "deserialization_failure", KindDeserialization.String())
	assert.Equal(t, "serialization_failure", KindSerialization.String())
	assert.Equal(t, "short_circuit", KindShortCircuit.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
