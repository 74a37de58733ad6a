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
	"fmt"

	"github.com/hashicorp/consul/api"
)

// ConsulKV is the part of the Consul KV API the consul source needs.
// *api.KV satisfies it; tests provide fakes.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// WithConsul adds a document stored under key in Consul's KV store.
// The format follows the key's extension, e.g. "relay/config.yaml".
//
// When kv is nil a client is built from the standard environment
// (CONSUL_HTTP_ADDR, CONSUL_HTTP_TOKEN). A missing key adds nothing.
func WithConsul(key string, kv ConsulKV) Option {
	return func(c *Config) error {
		format, err := detectFormat(key)
		if err != nil {
			return err
		}
		if kv == nil {
			client, err := api.NewClient(api.DefaultConfig())
			if err != nil {
				return fmt.Errorf("creating consul client: %w", err)
			}
			kv = client.KV()
		}
		c.sources = append(c.sources, consulSource{key: key, format: format, kv: kv})
		return nil
	}
}

type consulSource struct {
	key    string
	format Format
	kv     ConsulKV
}

func (s consulSource) Name() string { return "consul:" + s.key }

func (s consulSource) Load(ctx context.Context) (map[string]any, error) {
	pair, _, err := s.kv.Get(s.key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("reading consul key %q: %w", s.key, err)
	}
	if pair == nil {
		return map[string]any{}, nil
	}
	return s.format.decode(pair.Value)
}
