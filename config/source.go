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
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"rivaas.dev/relay/codec"
	"rivaas.dev/relay/codec/toml"
)

// Source loads one layer of configuration.
// Load must be safe to call concurrently.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context) (map[string]any, error)

// Load implements [Source].
func (f SourceFunc) Load(ctx context.Context) (map[string]any, error) {
	return f(ctx)
}

// Format names a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var extensionFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// detectFormat picks the format from the file extension.
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := extensionFormats[ext]; ok {
		return format, nil
	}
	return "", fmt.Errorf("cannot detect format from extension %q; use WithFileAs to specify it", ext)
}

// decode parses a document into a map. An empty document yields an empty map.
func (f Format) decode(data []byte) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	var (
		out map[string]any
		err error
	)
	switch f {
	case FormatJSON:
		out, err = codec.JSON[map[string]any]().Deserialize(string(data))
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	case FormatTOML:
		out, err = toml.New[map[string]any]().Deserialize(string(data))
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

type fileSource struct {
	path   string
	format Format
}

func (s fileSource) Name() string { return "file:" + s.path }

func (s fileSource) Load(context.Context) (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return s.format.decode(data)
}

// WithFile adds a file source whose format follows its extension.
func WithFile(path string) Option {
	return func(c *Config) error {
		format, err := detectFormat(path)
		if err != nil {
			return err
		}
		c.sources = append(c.sources, fileSource{path: path, format: format})
		return nil
	}
}

// WithFileAs adds a file source in an explicit format.
func WithFileAs(path string, format Format) Option {
	return func(c *Config) error {
		if _, ok := formatNames[format]; !ok {
			return fmt.Errorf("unsupported format %q", format)
		}
		c.sources = append(c.sources, fileSource{path: path, format: format})
		return nil
	}
}

// WithOptionalFile is like [WithFile] but a missing file adds nothing.
func WithOptionalFile(path string) Option {
	return func(c *Config) error {
		format, err := detectFormat(path)
		if err != nil {
			return err
		}
		src := fileSource{path: path, format: format}
		c.sources = append(c.sources, SourceFunc(func(ctx context.Context) (map[string]any, error) {
			values, err := src.Load(ctx)
			if os.IsNotExist(err) {
				return map[string]any{}, nil
			}
			return values, err
		}))
		return nil
	}
}

// WithContent adds an in-memory document.
func WithContent(data []byte, format Format) Option {
	return func(c *Config) error {
		if _, ok := formatNames[format]; !ok {
			return fmt.Errorf("unsupported format %q", format)
		}
		c.sources = append(c.sources, SourceFunc(func(context.Context) (map[string]any, error) {
			return format.decode(data)
		}))
		return nil
	}
}

var formatNames = map[Format]struct{}{
	FormatJSON: {},
	FormatYAML: {},
	FormatTOML: {},
}
