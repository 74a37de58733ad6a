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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// String returns the value at key as a string, or "".
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

// StringOr returns the value at key as a string, or def when it is unset.
func (c *Config) StringOr(key, def string) string {
	return GetOr(c, key, def)
}

// Int returns the value at key as an int, or 0.
func (c *Config) Int(key string) int {
	return cast.ToInt(c.Get(key))
}

// Bool returns the value at key as a bool, or false.
func (c *Config) Bool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// Duration returns the value at key as a duration. Strings such as "15s"
// and integer nanoseconds are accepted.
func (c *Config) Duration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}

// StringSlice returns the value at key as a slice of strings.
// A comma-separated string is split; surrounding spaces are dropped.
func (c *Config) StringSlice(key string) []string {
	return toStringSlice(c.Get(key))
}

// GetE returns the value at key converted to T.
//
// Example:
//
//	port, err := config.GetE[int](cfg, "server.port")
func GetE[T any](c *Config, key string) (T, error) {
	var zero T
	val := c.Get(key)
	if val == nil {
		return zero, fmt.Errorf("key %q not found", key)
	}
	if result, ok := val.(T); ok {
		return result, nil
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(val)
	case int:
		out, err = cast.ToIntE(val)
	case int64:
		out, err = cast.ToInt64E(val)
	case uint:
		out, err = cast.ToUintE(val)
	case float64:
		out, err = cast.ToFloat64E(val)
	case bool:
		out, err = cast.ToBoolE(val)
	case time.Duration:
		out, err = cast.ToDurationE(val)
	case time.Time:
		out, err = cast.ToTimeE(val)
	case []string:
		out = toStringSlice(val)
	case map[string]any:
		out, err = cast.ToStringMapE(val)
	case map[string]string:
		out, err = cast.ToStringMapStringE(val)
	default:
		return zero, fmt.Errorf("key %q: unsupported target type %T", key, zero)
	}
	if err != nil {
		return zero, fmt.Errorf("key %q: %w", key, err)
	}
	return out.(T), nil
}

// GetOr is like [GetE] but returns def when the key is unset or does not
// convert. T is inferred from def.
//
// Example:
//
//	addr := config.GetOr(cfg, "server.addr", ":8080")
func GetOr[T any](c *Config, key string, def T) T {
	v, err := GetE[T](c, key)
	if err != nil {
		return def
	}
	return v
}

func toStringSlice(v any) []string {
	s, ok := v.(string)
	if !ok {
		return cast.ToStringSlice(v)
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
