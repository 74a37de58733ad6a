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
// Command relayd serves the relay example application.
//
// Usage:
//
//	relayd serve [--addr=:8080]
//	relayd routes
//
// Configuration comes from an optional file (--config), a .env file,
// RELAY_* environment variables and an optional Consul key, in that order.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli, err := newCLI(stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err = cli.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err = cli.Execute(ctx); err != nil {
		fmt.Fprintf(stderr, "relayd: %v\n", err)
		return 1
	}
	return 0
}
