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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detailedError struct {
	message string
	details any
}

func (e *detailedError) Error() string { return e.message }
func (e *detailedError) Details() any  { return e.details }

func TestPlain_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "short circuit",
			err:        ShortCircuit(http.StatusForbidden, "blocked"),
			wantStatus: http.StatusForbidden,
			wantBody:   "blocked",
		},
		{
			name:       "deserialization",
			err:        Deserialization(errors.New("bad json")),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "bad json",
		},
		{
			name:       "foreign error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewPlain().Format(nil, tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantBody, got.Body)
			assert.Equal(t, "text/plain; charset=utf-8", got.ContentType)
		})
	}
}

func TestPlain_StatusResolver(t *testing.T) {
	t.Parallel()

	f := &Plain{StatusResolver: func(error) int { return http.StatusBadGateway }}
	got := f.Format(nil, New(http.StatusNotFound, "missing"))

	assert.Equal(t, http.StatusBadGateway, got.Status)
}

func TestSimple_Format(t *testing.T) {
	t.Parallel()

	got := NewSimple().Format(nil, Deserialization(errors.New("unexpected EOF")))

	assert.Equal(t, http.StatusUnprocessableEntity, got.Status)
	assert.Equal(t, "application/json; charset=utf-8", got.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &body))
	assert.Equal(t, "unexpected EOF", body["error"])
	assert.Equal(t, "deserialization_failure", body["code"])
	assert.NotContains(t, body, "details")
}

func TestSimple_FormatDetails(t *testing.T) {
	t.Parallel()

	err := &detailedError{message: "validation failed", details: map[string]any{"name": "required"}}
	got := NewSimple().Format(nil, err)

	assert.Equal(t, http.StatusInternalServerError, got.Status)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &body))
	assert.Equal(t, map[string]any{"name": "required"}, body["details"])
}

func TestSimple_UnencodableDetailsFallsBackToText(t *testing.T) {
	t.Parallel()

	err := &detailedError{message: "odd", details: make(chan int)}
	got := NewSimple().Format(nil, err)

	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "text/plain; charset=utf-8", got.ContentType)
	assert.Equal(t, "odd", got.Body)
}

func TestRFC9457_Format(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	f := NewRFC9457("https://api.example.com/problems")
	f.ErrorIDGenerator = func() string { return "err-fixed" }

	got := f.Format(req, ShortCircuit(http.StatusForbidden, "blocked"))

	assert.Equal(t, http.StatusForbidden, got.Status)
	assert.Equal(t, "application/problem+json; charset=utf-8", got.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &body))
	assert.Equal(t, "https://api.example.com/problems/short_circuit", body["type"])
	assert.Equal(t, "Forbidden", body["title"])
	assert.InDelta(t, 403, body["status"], 0)
	assert.Equal(t, "blocked", body["detail"])
	assert.Equal(t, "/users", body["instance"])
	assert.Equal(t, "err-fixed", body["error_id"])
}

func TestRFC9457_Defaults(t *testing.T) {
	t.Parallel()

	f := &RFC9457{DisableErrorID: true}
	got := f.Format(nil, errors.New("plain failure"))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &body))
	assert.Equal(t, "about:blank", body["type"])
	assert.NotContains(t, body, "instance")
	assert.NotContains(t, body, "error_id")
}

func TestRFC9457_GeneratedErrorID(t *testing.T) {
	t.Parallel()

	got := NewRFC9457("").Format(nil, New(http.StatusNotFound, "missing"))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &body))
	assert.Equal(t, "handler_declared", body["type"])
	assert.Regexp(t, `^err-[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, body["error_id"])
}

func TestProblemDetail_ReservedExtensions(t *testing.T) {
	t.Parallel()

	p := ProblemDetail{
		Type:   "about:blank",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Extensions: map[string]any{
			"status": 999,
			"trace":  "abc",
		},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.InDelta(t, 400, body["status"], 0)
	assert.Equal(t, "abc", body["trace"])
}
