package main

import (
	"github.com/urfave/cli"
)

const description = `Runs a drift-corrected countdown and renders its progress.

   Lifecycle events can be published to a Redis channel, metrics served for
   Prometheus, and the countdown restarted on a cron schedule.`

var runFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "seconds, s",
		Usage: "countdown length in whole seconds",
		Value: defaultSeconds,
	},
	cli.StringFlag{
		Name:   "config, c",
		Usage:  "YAML config file; flags override its values",
		EnvVar: "COUNTDOWN_CONFIG",
	},
	cli.StringFlag{
		Name:  "name, n",
		Usage: "timer name used in logs and metrics",
		Value: defaultName,
	},
	cli.BoolFlag{
		Name:  "lenient",
		Usage: "ignore invalid transitions instead of failing",
	},
	cli.StringFlag{
		Name:   "metrics-addr",
		Usage:  "serve Prometheus metrics on this address, e.g. :9090",
		EnvVar: "COUNTDOWN_METRICS_ADDR",
	},
	cli.StringFlag{
		Name:   "redis-addr",
		Usage:  "publish lifecycle events to the Redis server at host:port",
		EnvVar: "COUNTDOWN_REDIS_ADDR",
	},
	cli.StringFlag{
		Name:  "redis-channel",
		Usage: "Redis pub/sub channel for lifecycle events",
		Value: defaultChannel,
	},
	cli.StringFlag{
		Name:  "encoding",
		Usage: "event encoding: json or cbor",
		Value: "json",
	},
	cli.StringFlag{
		Name:  "cron",
		Usage: "restart the countdown on this cron schedule, e.g. \"@every 5m\"",
	},
	cli.BoolFlag{
		Name:  "no-progress",
		Usage: "do not render a progress bar",
	},
	cli.BoolFlag{
		Name:   "debug, d",
		Usage:  "enable debug logging",
		EnvVar: "COUNTDOWN_DEBUG",
	},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "countdown"
	app.HelpName = "countdown"
	app.Usage = "a drift-corrected countdown timer"
	app.UsageText = "countdown <command> [arguments...]"
	app.Description = description
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:                   "run",
			Aliases:                []string{"r"},
			Usage:                  "run a countdown",
			UsageText:              "countdown run [--seconds N] [--config file.yaml] [options]",
			Flags:                  runFlags,
			Action:                 runAction,
			UseShortOptionHandling: true,
		},
		{
			Name:      "validate",
			Usage:     "check a config file without running it",
			UsageText: "countdown validate --config file.yaml",
			Flags:     runFlags,
			Action:    validateAction,
		},
	}
	return app
}
