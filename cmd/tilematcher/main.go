package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/submersibletoaster/tilematcher/config"
)

var cfg *config.Config

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "tilematcher"
	app.Usage = "convert pictures into tile maps"
	app.Version = "0.1.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{config.EnvPrefix + "CONFIG"},
			Usage:   "YAML run configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{config.EnvPrefix + "VERBOSE"},
			Usage:   "debug logging",
		},
		&cli.IntFlag{
			Name:  "tile-size",
			Usage: "tile edge in pixels (default 64)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "cells classified concurrently by match and bucket",
		},
		&cli.IntFlag{
			Name:  "progress-every",
			Usage: "rows between progress updates, 0 hides the bar",
		},
	}
	app.Before = setup

	app.Commands = []*cli.Command{
		matchCommand(),
		discoverCommand("dedup", "Build a tileset of the distinct cells of SOURCE and map onto it", false),
		discoverCommand("extract", "Store every cell of SOURCE as its own tile and map onto them", true),
		bucketCommand(),
		refCommand(),
		renderCommand(),
		padCommand(),
		repeatCommand(),
		previewCommand(),
	}
	return app
}

// setup loads the configuration and applies the global flags over it.
func setup(c *cli.Context) error {
	if c.Bool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	var err error
	if cfg, err = config.Load(c.String("config")); err != nil {
		return cli.NewExitError(err, 1)
	}
	if c.IsSet("tile-size") {
		cfg.TileSize = c.Int("tile-size")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("progress-every") {
		cfg.ProgressEvery = c.Int("progress-every")
	}
	if err := cfg.Validate(); err != nil {
		return cli.NewExitError(err, 1)
	}
	log.Debugf("config: %+v", *cfg)
	return nil
}
