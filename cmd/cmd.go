package cmd

import (
	"os"

	"github.com/starshine-sys/snitch/cmd/bot"
	"github.com/starshine-sys/snitch/cmd/migrate"
	"github.com/starshine-sys/snitch/common"
	"github.com/urfave/cli/v2"
)

// DefaultConfig is the config file used if SNITCH_CONFIG isn't set.
const DefaultConfig = "config.toml"

var app = &cli.App{
	Name:    "Snitch",
	Usage:   "Discord moderation bot",
	Version: common.Version(),

	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
			EnvVars: []string{"SNITCH_CONFIG"},
			Value:   DefaultConfig,
		},
	},

	Commands: []*cli.Command{
		bot.Command,
		migrate.Command,
	},
}

func Run() error {
	return app.Run(os.Args)
}
