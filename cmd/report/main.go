package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "report",
		Usage: "print student record reports, export spreadsheets and prune sessions",
		Commands: []*cli.Command{
			dashboardCommand(),
			studentsCommand(),
			exportCommand(),
			pruneSessionsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, fmt.Sprintf("report: %v", err))
		os.Exit(1)
	}
}
