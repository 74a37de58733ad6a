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

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Addr string `help:"Listen address; overrides server.addr." placeholder:"HOST:PORT"`
}

// Run loads the settings, builds the app and serves until ctx is done.
func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.loadSettings(ctx)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		s.Server.Addr = c.Addr
	}

	logger, err := newLogger(s, g.stderr)
	if err != nil {
		return err
	}
	a, err := newApp(s, logger.Logger(), g.stdout)
	if err != nil {
		return err
	}
	return a.serve(ctx)
}

// RoutesCmd prints the route table.
type RoutesCmd struct{}

// Run builds the app without serving and prints its routes.
func (c *RoutesCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.loadSettings(ctx)
	if err != nil {
		return err
	}
	logger, err := newLogger(s, io.Discard)
	if err != nil {
		return err
	}
	a, err := newApp(s, logger.Logger(), io.Discard)
	if err != nil {
		return err
	}
	defer a.close(ctx) //nolint:errcheck // nothing was served

	data := make([][]string, 0)
	for _, rv := range routeTable(a.router) {
		data = append(data, []string{rv.Method, rv.Pattern, rv.Shape})
	}
	if err = renderTable([]string{"Method", "Pattern", "Shape"}, data, g.stdout); err != nil {
		return fmt.Errorf("rendering route table: %w", err)
	}
	return nil
}

func renderTable(header []string, data [][]string, w io.Writer) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(
			tw.Rendition{
				Borders: tw.BorderNone,
				Symbols: tw.NewSymbols(tw.StyleASCII),
				Settings: tw.Settings{
					Lines: tw.Lines{
						ShowHeaderLine: tw.Off,
						ShowFooterLine: tw.Off,
						ShowTop:        tw.Off,
						ShowBottom:     tw.Off,
					},
					Separators: tw.Separators{
						BetweenRows:    tw.Off,
						BetweenColumns: tw.Off,
					},
				},
			},
		)),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)

	table.Header(header)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
