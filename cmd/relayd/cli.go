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
	"fmt"
	"io"

	"github.com/alecthomas/kong"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config    string           `help:"Path to a JSON, YAML or TOML configuration file." type:"path" placeholder:"FILE"`
	Dotenv    string           `help:"Path to a dotenv file." default:".env" placeholder:"FILE"`
	ConsulKey string           `help:"Consul KV key holding configuration, e.g. relay/config.yaml." placeholder:"KEY"`
	LogLevel  string           `help:"Override log.level (debug, info, warn, error)." placeholder:"LEVEL"`
	Version   kong.VersionFlag `help:"Print version and exit."`

	stdout io.Writer
	stderr io.Writer
}

// CLI is the command line interface of relayd.
type CLI struct {
	Globals

	Serve  ServeCmd  `cmd:"" help:"Start the HTTP server."`
	Routes RoutesCmd `cmd:"" help:"Print the route table."`

	parser *kong.Kong
	kctx   *kong.Context
}

func newCLI(stdout, stderr io.Writer) (*CLI, error) {
	c := &CLI{Globals: Globals{stdout: stdout, stderr: stderr}}
	parser, err := kong.New(c,
		kong.Name("relayd"),
		kong.Description("Example service built on the relay router."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.Vars{"version": version},
	)
	if err != nil {
		return nil, fmt.Errorf("creating the command line parser: %w", err)
	}
	c.parser = parser
	return c, nil
}

// Parse parses args. It must be called before Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.parser.Parse(args)
	if err != nil {
		return fmt.Errorf("parsing arguments: %w", err)
	}
	c.kctx = kctx
	return nil
}

// Execute runs the parsed command.
func (c *CLI) Execute(ctx context.Context) error {
	if c.kctx == nil {
		panic("relayd: Execute called before Parse")
	}
	c.kctx.BindTo(ctx, (*context.Context)(nil))
	return c.kctx.Run(&c.Globals)
}
