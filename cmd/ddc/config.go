package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/ddc/ddcconfig"
	"github.com/tos-network/ddc/internal/flags"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	dataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory for the state database",
		Category: flags.StateCategory,
	}
	eraFlag = &cli.Uint64Flag{
		Name:     "era",
		Usage:    "Current era (defaults to the last applied era)",
		Category: flags.ActionCategory,
	}
	fromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "Account the action is executed as",
		Category: flags.ActionCategory,
	}
	rootFlag = &cli.BoolFlag{
		Name:     "root",
		Usage:    "Execute the action as the governance origin",
		Category: flags.ActionCategory,
	}
	verbosityFlag = &cli.StringFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: crit, error, warn, info, debug, trace (or 0-5)",
		Category: flags.LoggingCategory,
	}
	logJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs with JSON",
		Category: flags.LoggingCategory,
	}
	metricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable metrics collection and reporting",
		Category: flags.MetricsCategory,
	}
	metricsHTTPFlag = &cli.StringFlag{
		Name:     "metrics.addr",
		Usage:    "Enable stand-alone metrics HTTP server listening interface",
		Category: flags.MetricsCategory,
	}
	metricsPortFlag = &cli.IntFlag{
		Name:     "metrics.port",
		Usage:    "Metrics HTTP server listening port",
		Category: flags.MetricsCategory,
	}

	dumpConfigCommand = &cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Description: `The dumpconfig command shows configuration values.`,
	}
)

// loadConfig reads the config file, if any, and applies command line flags.
func loadConfig(ctx *cli.Context) (ddcconfig.Config, error) {
	cfg := ddcconfig.Defaults
	if file := ctx.String(configFileFlag.Name); file != "" {
		var err error
		if cfg, err = ddcconfig.Load(file); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Level = ctx.String(verbosityFlag.Name)
	}
	if ctx.IsSet(logJSONFlag.Name) {
		cfg.Log.JSON = ctx.Bool(logJSONFlag.Name)
	}
	if ctx.IsSet(metricsEnabledFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(metricsEnabledFlag.Name)
	}
	if ctx.IsSet(metricsHTTPFlag.Name) {
		cfg.Metrics.HTTP = ctx.String(metricsHTTPFlag.Name)
	}
	if ctx.IsSet(metricsPortFlag.Name) {
		cfg.Metrics.Port = ctx.Int(metricsPortFlag.Name)
	}
	if cfg.DataDir != "" {
		cfg.DataDir = flags.ExpandPath(cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func currentConfig(ctx *cli.Context) ddcconfig.Config {
	return ctx.App.Metadata[configKey].(ddcconfig.Config)
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := currentConfig(ctx)
	out, err := ddcconfig.Dump(&cfg)
	if err != nil {
		return err
	}
	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
