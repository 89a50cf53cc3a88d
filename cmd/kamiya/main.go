package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/kamiya/internal"
	"github.com/starford/kamiya/internal/commands"
)

func main() {
	cmd := &cli.Command{
		Name:    "kamiya",
		Usage:   "Take, search and edit short notes from the terminal",
		Version: internal.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "<user config dir>/kamiya/app.yaml",
				Sources:     cli.EnvVars("KAMIYA_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output to stderr",
			},
		},
		Commands:       internal.Commands(),
		ExitErrHandler: commands.ReportError,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Debug("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
