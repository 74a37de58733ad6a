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

package basicauth

import "maps"

// Option defines functional options for basicauth middleware configuration.
type Option func(*config)

type config struct {
	// users maps usernames to passwords.
	users map[string]string

	// realm is sent in the WWW-Authenticate challenge.
	realm string

	// validator replaces the users map when set.
	validator func(username, password string) bool

	// message is the body of the 401 response.
	message string

	skipPaths map[string]bool
}

func defaultConfig() *config {
	return &config{
		users:     make(map[string]string),
		realm:     "Restricted",
		message:   "Unauthorized",
		skipPaths: make(map[string]bool),
	}
}

// WithUsers adds username/password pairs. Passwords are compared in constant time.
func WithUsers(users map[string]string) Option {
	return func(cfg *config) {
		maps.Copy(cfg.users, users)
	}
}

// WithRealm sets the realm of the WWW-Authenticate challenge.
// Default: "Restricted".
func WithRealm(realm string) Option {
	return func(cfg *config) {
		cfg.realm = realm
	}
}

// WithValidator sets a custom credential check, used instead of the users map.
func WithValidator(validator func(username, password string) bool) Option {
	return func(cfg *config) {
		cfg.validator = validator
	}
}

// WithMessage sets the body of the 401 response.
func WithMessage(message string) Option {
	return func(cfg *config) {
		cfg.message = message
	}
}

// WithSkipPaths disables authentication for the given request paths.
func WithSkipPaths(paths ...string) Option {
	return func(cfg *config) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}
