// Copyright 2024 The ddc Authors
// This file is part of ddc.
//
// ddc is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ddc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ddc. If not, see <http://www.gnu.org/licenses/>.

// ddc applies node registry and staking system actions to a local state.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/ddc/internal/flags"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/metrics"

	// Register system action handlers.
	_ "github.com/tos-network/ddc/nodes"
	_ "github.com/tos-network/ddc/staking"
)

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app *cli.App

func init() {
	app = newApp()
}

func newApp() *cli.App {
	app := flags.NewApp(gitCommit, gitDate, "the DDC node registry and staking command line interface")
	app.Flags = []cli.Flag{
		configFileFlag,
		dataDirFlag,
		eraFlag,
		fromFlag,
		rootFlag,
		verbosityFlag,
		logJSONFlag,
		metricsEnabledFlag,
		metricsHTTPFlag,
		metricsPortFlag,
	}
	app.Commands = []*cli.Command{
		nodeCommand,
		stakeCommand,
		managerCommand,
		clusterCommand,
		applyCommand,
		dumpConfigCommand,
	}
	migrate := app.Before
	app.Before = func(ctx *cli.Context) error {
		if err := migrate(ctx); err != nil {
			return err
		}
		return setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		if srv, ok := ctx.App.Metadata[metricsServerKey].(*http.Server); ok && srv != nil {
			return srv.Shutdown(context.Background())
		}
		return nil
	}
	return app
}

const (
	configKey        = "config"
	metricsServerKey = "metrics"
)

// setup loads the configuration and brings up logging and metrics before any
// command runs.
func setup(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := log.Configure(cfg.Log, ctx.App.ErrWriter); err != nil {
		return err
	}
	srv, err := metrics.StartServer(cfg.Metrics)
	if err != nil {
		return err
	}
	if ctx.App.Metadata == nil {
		ctx.App.Metadata = make(map[string]interface{})
	}
	ctx.App.Metadata[configKey] = cfg
	ctx.App.Metadata[metricsServerKey] = srv
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
