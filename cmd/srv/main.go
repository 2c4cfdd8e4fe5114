package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Dolpin"
	app.Usage = ""
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the configuration file",
			Value: "config.toml",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, the main service included all apis.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to start the popular moment ranking jobs.`,
		},
		{
			Action:      server.startConsumer,
			Name:        "consumer",
			Usage:       "Start event consumer",
			Category:    "Worker",
			Description: `Used to start the worker that mirrors bookmark events into redis.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database schema",
			Category:    "Database",
			Description: `Used to bring the database schema to the latest version.`,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
