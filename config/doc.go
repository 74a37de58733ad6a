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
// Package config loads layered configuration for relay services.
//
// Sources are applied in the order they are given; later sources override
// earlier ones key by key. Keys are case-insensitive and nested with dots,
// so the environment variable RELAY_SERVER_ADDR and the YAML document
//
//	server:
//	  addr: ":8080"
//
// both set "server.addr".
//
// # Basic Usage
//
//	type Settings struct {
//	    Server struct {
//	        Addr    string        `config:"addr" default:":8080"`
//	        Timeout time.Duration `config:"timeout" default:"15s"`
//	    } `config:"server"`
//	}
//
//	var s Settings
//	cfg := config.MustNew(
//	    config.WithFile("relay.yaml"),
//	    config.WithDotenv(".env", "RELAY_"),
//	    config.WithEnv("RELAY_"),
//	    config.WithBinding(&s),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sources
//
//   - [WithFile]: JSON, YAML or TOML, chosen by extension
//   - [WithContent]: an in-memory document in a given [Format]
//   - [WithEnv]: process environment variables with a prefix
//   - [WithDotenv]: a dotenv file read like the environment
//   - [WithConsul]: a document stored under a Consul KV key
//
// # Binding and Validation
//
// A bound struct first receives the values of its `default` tags, then the
// merged sources are decoded over it. Durations and comma-separated slices
// are accepted as strings. Validation runs in this order: the JSON Schema
// from [WithJSONSchema] against the merged map, functions from
// [WithValidator], and finally the struct's own Validate method if it
// implements [Validator]. A failed Load leaves the previous values and
// binding untouched.
package config
