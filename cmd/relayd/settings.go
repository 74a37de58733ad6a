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
package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"rivaas.dev/relay/config"
)

// Settings is the bound configuration of relayd.
type Settings struct {
	Server struct {
		Addr            string        `config:"addr" default:":8080"`
		H2C             bool          `config:"h2c"`
		MaxBodyBytes    int64         `config:"max_body_bytes" default:"4194304"`
		RequestTimeout  time.Duration `config:"request_timeout" default:"30s"`
		ShutdownTimeout time.Duration `config:"shutdown_timeout" default:"30s"`
	} `config:"server"`

	Log struct {
		Level  string `config:"level" default:"info"`
		Format string `config:"format" default:"json"`
	} `config:"log"`

	Errors struct {
		Format  string `config:"format" default:"plain"`
		TypeURL string `config:"type_url"`
	} `config:"errors"`

	Metrics struct {
		Enabled bool   `config:"enabled" default:"true"`
		Addr    string `config:"addr" default:":9090"`
		Path    string `config:"path" default:"/metrics"`
	} `config:"metrics"`

	Tracing struct {
		Stdout bool `config:"stdout"`
	} `config:"tracing"`

	CORS struct {
		Origins          []string `config:"origins"`
		AllowCredentials bool     `config:"allow_credentials"`
	} `config:"cors"`

	Compression struct {
		Enabled bool `config:"enabled" default:"true"`
		MinSize int  `config:"min_size" default:"256"`
	} `config:"compression"`

	Admin struct {
		Users map[string]string `config:"users"`
	} `config:"admin"`
}

var (
	logFormats   = []string{"json", "text", "console"}
	errorFormats = []string{"plain", "simple", "rfc9457"}
)

// Validate implements config.Validator.
func (s *Settings) Validate() error {
	var errs []error
	if s.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if s.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", s.Server.MaxBodyBytes))
	}
	if !slices.Contains(logFormats, s.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v, got %q", logFormats, s.Log.Format))
	}
	if !slices.Contains(errorFormats, s.Errors.Format) {
		errs = append(errs, fmt.Errorf("errors.format must be one of %v, got %q", errorFormats, s.Errors.Format))
	}
	if s.Compression.MinSize < 0 {
		errs = append(errs, fmt.Errorf("compression.min_size must not be negative, got %d", s.Compression.MinSize))
	}
	return errors.Join(errs...)
}

// loadSettings layers the configured sources and binds them.
func (g *Globals) loadSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	opts := []config.Option{config.WithBinding(&s)}
	if g.Config != "" {
		opts = append(opts, config.WithFile(g.Config))
	}
	if g.Dotenv != "" {
		opts = append(opts, config.WithDotenv(g.Dotenv, "RELAY_"))
	}
	opts = append(opts, config.WithEnv("RELAY_"))
	if g.ConsulKey != "" {
		opts = append(opts, config.WithConsul(g.ConsulKey, nil))
	}

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}
	if err = cfg.Load(ctx); err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		s.Log.Level = g.LogLevel
	}
	return &s, nil
}
