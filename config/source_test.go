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
package config

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	pairs map[string]string
	err   error
}

func (f fakeKV) Get(key string, _ *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	v, ok := f.pairs[key]
	if !ok {
		return nil, &api.QueryMeta{}, nil
	}
	return &api.KVPair{Key: key, Value: []byte(v)}, &api.QueryMeta{LastIndex: 1}, nil
}

func TestNestVars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want map[string]any
	}{
		{
			name: "prefix stripped and nested",
			vars: map[string]string{"RELAY_SERVER_ADDR": ":8080", "RELAY_DEBUG": " true "},
			want: map[string]any{"server": map[string]any{"addr": ":8080"}, "debug": "true"},
		},
		{
			name: "other prefixes ignored",
			vars: map[string]string{"HOME": "/root", "RELAYX": "1"},
			want: map[string]any{},
		},
		{
			name: "doubled underscores collapse",
			vars: map[string]string{"RELAY_SERVER__ADDR": ":1"},
			want: map[string]any{"server": map[string]any{"addr": ":1"}},
		},
		{
			name: "parent wins over scalar",
			vars: map[string]string{"RELAY_LOG": "x", "RELAY_LOG_LEVEL": "debug"},
			want: map[string]any{"log": map[string]any{"level": "debug"}},
		},
		{
			name: "bare prefix skipped",
			vars: map[string]string{"RELAY_": "x"},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, nestVars(tt.vars, "RELAY_"))
		})
	}
}

//nolint:paralleltest // t.Setenv cannot run in parallel tests
func TestWithEnv(t *testing.T) {
	t.Setenv("RELAYTEST_SERVER_ADDR", ":7070")

	cfg := MustNew(WithEnv("RELAYTEST_"))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, ":7070", cfg.String("server.addr"))
}

func TestWithDotenv(t *testing.T) {
	t.Parallel()

	path := writeFile(t, ".env", "# local overrides\nRELAY_SERVER_ADDR=\":6060\"\nRELAY_LOG_LEVEL=debug\nUNRELATED=1\n")

	cfg := MustNew(WithDotenv(path, "RELAY_"), WithDotenv(path+".missing", "RELAY_"))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, ":6060", cfg.String("server.addr"))
	assert.Equal(t, "debug", cfg.String("log.level"))
	assert.Nil(t, cfg.Get("unrelated"))
}

func TestWithConsul(t *testing.T) {
	t.Parallel()

	kv := fakeKV{pairs: map[string]string{
		"relay/config.yaml": "server:\n  addr: \":5050\"\n",
		"relay/config.json": `{"log": {"level": "error"}}`,
	}}

	t.Run("documents merge", func(t *testing.T) {
		t.Parallel()

		cfg := MustNew(WithConsul("relay/config.yaml", kv), WithConsul("relay/config.json", kv))
		require.NoError(t, cfg.Load(context.Background()))
		assert.Equal(t, ":5050", cfg.String("server.addr"))
		assert.Equal(t, "error", cfg.String("log.level"))
	})

	t.Run("missing key is empty", func(t *testing.T) {
		t.Parallel()

		cfg := MustNew(WithConsul("relay/absent.toml", kv))
		require.NoError(t, cfg.Load(context.Background()))
		assert.Empty(t, cfg.Values())
	})

	t.Run("client error names the source", func(t *testing.T) {
		t.Parallel()

		cfg := MustNew(WithConsul("relay/config.yaml", fakeKV{err: errors.New("connection refused")}))
		err := cfg.Load(context.Background())
		var cerr *Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "consul:relay/config.yaml", cerr.Source)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestWithOptionalFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "relay.json", `{"server": {"addr": ":4040"}}`)
	cfg := MustNew(WithOptionalFile(path+".missing.json"), WithOptionalFile(path))
	require.NoError(t, cfg.Load(context.Background()))
	assert.Equal(t, ":4040", cfg.String("server.addr"))
}

func TestFormatDecode_Empty(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		m, err := f.decode([]byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, m)
	}
}
