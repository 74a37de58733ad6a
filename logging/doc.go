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

// Package logging builds the [log/slog] loggers used across relay.
//
// Three handlers are available: JSON (default), text, and a console handler
// built on github.com/lmittmann/tint that colours output only when writing
// to a terminal. Values of sensitive keys (password, token, secret, api_key,
// authorization) are always replaced with "***REDACTED***".
//
// Example:
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("relayd"),
//	    logging.WithDebugLevel(),
//	)
//	r := router.MustNew(router.WithLogger(logger.Logger()))
package logging
