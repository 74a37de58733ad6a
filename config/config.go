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
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DefaultTagName is the struct tag used to name bound fields.
const DefaultTagName = "config"

// Option is a functional option that can be used to configure a Config instance.
type Option func(c *Config) error

// Validator is implemented by bound structs that check their own values.
type Validator interface {
	Validate() error
}

// Config holds the merged values of its sources.
// It is safe for concurrent use by multiple goroutines.
type Config struct {
	mu     sync.RWMutex
	values map[string]any

	sources    []Source
	binding    any
	tagName    string
	schema     *jsonschema.Schema
	validators []func(map[string]any) error
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		c.sources = append(c.sources, src)
		return nil
	}
}

// WithBinding decodes the merged values into v on every Load.
// v must be a non-nil pointer to a struct.
func WithBinding(v any) Option {
	return func(c *Config) error {
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
			return errors.New("binding target must be a non-nil pointer")
		}
		if rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("binding target must point to a struct, got %s", rv.Elem().Kind())
		}
		c.binding = v
		return nil
	}
}

// WithTag sets a custom struct tag name for binding (default: "config").
func WithTag(tagName string) Option {
	return func(c *Config) error {
		if tagName == "" {
			return errors.New("tag name cannot be empty")
		}
		c.tagName = tagName
		return nil
	}
}

// WithJSONSchema validates the merged values against schema before binding.
func WithJSONSchema(schema []byte) Option {
	return func(c *Config) error {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
		if err != nil {
			return fmt.Errorf("parsing json schema: %w", err)
		}

		const url = "relay://config/schema.json"
		compiler := jsonschema.NewCompiler()
		if err = compiler.AddResource(url, doc); err != nil {
			return fmt.Errorf("adding json schema: %w", err)
		}
		compiled, err := compiler.Compile(url)
		if err != nil {
			return fmt.Errorf("compiling json schema: %w", err)
		}
		c.schema = compiled
		return nil
	}
}

// WithValidator adds a check run against the merged values.
func WithValidator(fn func(map[string]any) error) Option {
	return func(c *Config) error {
		if fn == nil {
			return errors.New("validator cannot be nil")
		}
		c.validators = append(c.validators, fn)
		return nil
	}
}

// New creates a Config. All option errors are joined and returned.
func New(options ...Option) (*Config, error) {
	c := &Config{
		values:  map[string]any{},
		tagName: DefaultTagName,
	}

	var errs []error
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, NewError("options", "configure", errors.Join(errs...))
	}
	return c, nil
}

// MustNew is like [New] but panics on error.
// Use this in main() or initialization code where panic is acceptable.
func MustNew(options ...Option) *Config {
	cfg, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config.MustNew: %v", err))
	}
	return cfg
}

// Load reads every source, merges, validates and binds the result.
// The stored values and the binding change only if every step succeeds.
//
// Errors are *[Error] values naming the failing source or stage.
func (c *Config) Load(ctx context.Context) error {
	merged, err := c.loadSources(ctx)
	if err != nil {
		return err
	}

	if c.schema != nil {
		if err = c.schema.Validate(jsonSchemaValue(merged)); err != nil {
			return NewError("json-schema", "validate", err)
		}
	}

	for i, fn := range c.validators {
		if err = fn(merged); err != nil {
			return NewError(fmt.Sprintf("validator[%d]", i), "validate", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.binding != nil {
		if err = c.bind(merged); err != nil {
			return err
		}
	}
	c.values = merged
	return nil
}

// MustLoad is like [Config.Load] but panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

func (c *Config) loadSources(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := fmt.Sprintf("source[%d]", i)
		if n, ok := src.(interface{ Name() string }); ok {
			name = n.Name()
		}

		values, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(name, "load", err)
		}
		if err = mergo.Merge(&merged, normalizeKeys(values), mergo.WithOverride); err != nil {
			return nil, NewError(name, "merge", err)
		}
	}
	return merged, nil
}

// bind decodes values into a fresh copy of the binding, so a failure never
// leaves it half written, then copies the result over.
func (c *Config) bind(values map[string]any) error {
	target := reflect.New(reflect.TypeOf(c.binding).Elem())

	if err := applyDefaults(target.Interface()); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          c.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           target.Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return NewError("binding", "bind", err)
	}
	if err = decoder.Decode(values); err != nil {
		return NewError("binding", "bind", err)
	}

	if v, ok := target.Interface().(Validator); ok {
		if err = v.Validate(); err != nil {
			return NewError("binding", "validate", err)
		}
	}

	reflect.ValueOf(c.binding).Elem().Set(target.Elem())
	return nil
}

// Values returns a copy of the merged values.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(c.values)
}

// Get returns the raw value at a dot-separated key, or nil.
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	current := c.values
	segments := strings.Split(strings.ToLower(key), ".")
	for i, segment := range segments {
		val, ok := current[segment]
		if !ok {
			return nil
		}
		if i == len(segments)-1 {
			return val
		}
		if current, ok = val.(map[string]any); !ok {
			return nil
		}
	}
	return nil
}

// normalizeKeys lowercases keys at every level so sources merge
// case-insensitively.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		out[strings.ToLower(k)] = v
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = deepCopy(nested)
		}
		out[k] = v
	}
	return out
}

// jsonSchemaValue converts decoded numbers to float64 so documents from
// YAML and TOML validate the same way as JSON ones.
func jsonSchemaValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = jsonSchemaValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = jsonSchemaValue(val)
		}
		return out
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		return reflect.ValueOf(t).Convert(reflect.TypeOf(float64(0))).Float()
	default:
		return v
	}
}
