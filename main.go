package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/rubiojr/docsearch/cmd"
	"github.com/rubiojr/docsearch/pkg/config"
	"github.com/rubiojr/docsearch/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "docsearch",
		Usage: "Search a documentation index from the terminal or over HTTP",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
			&cli.StringFlag{
				Name:    "index",
				Usage:   "Index source (file path or URL), overrides index_source",
				Sources: cli.EnvVars("DOCSEARCH_INDEX"),
			},
			&cli.StringFlag{
				Name:    "user",
				Usage:   "User whose history and preferences are used",
				Sources: cli.EnvVars("DOCSEARCH_USER"),
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep history and preferences in memory only",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.SearchCommand(),
			cmd.SuggestCommand(),
			cmd.ServeCommand(),
			cmd.HistoryCommand(),
			cmd.StatsCommand(),
			cmd.MigrateCommand(),
			cmd.VersionCommand(),
		},
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		stdlog.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
