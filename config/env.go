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
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// WithEnv adds the process environment. Only variables starting with prefix
// are read; the prefix is stripped and underscores nest keys, so with prefix
// "RELAY_" the variable RELAY_SERVER_ADDR sets "server.addr".
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, envSource{prefix: prefix, environ: os.Environ})
		return nil
	}
}

// WithDotenv adds variables from a dotenv file, filtered and nested like
// [WithEnv]. A missing file adds nothing. The process environment is not
// modified.
func WithDotenv(path, prefix string) Option {
	return func(c *Config) error {
		c.sources = append(c.sources, dotenvSource{path: path, prefix: prefix})
		return nil
	}
}

type envSource struct {
	prefix  string
	environ func() []string
}

func (s envSource) Name() string { return "env:" + s.prefix }

func (s envSource) Load(context.Context) (map[string]any, error) {
	vars := make(map[string]string)
	for _, kv := range s.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}
	return nestVars(vars, s.prefix), nil
}

type dotenvSource struct {
	path   string
	prefix string
}

func (s dotenvSource) Name() string { return "dotenv:" + s.path }

func (s dotenvSource) Load(context.Context) (map[string]any, error) {
	vars, err := godotenv.Read(s.path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	return nestVars(vars, s.prefix), nil
}

// nestVars turns PREFIX_A_B=v into {"a": {"b": "v"}}. Empty segments from
// doubled underscores are dropped. A key that is both a value and a parent
// keeps the parent.
func nestVars(vars map[string]string, prefix string) map[string]any {
	out := make(map[string]any)
	for name, value := range vars {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		var parts []string
		for part := range strings.SplitSeq(strings.ToLower(strings.TrimPrefix(name, prefix)), "_") {
			if part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}

		last := parts[len(parts)-1]
		if _, isParent := current[last].(map[string]any); !isParent {
			current[last] = strings.TrimSpace(value)
		}
	}
	return out
}
