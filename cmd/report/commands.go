package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/bootstrap"
)

type runFunc func(ctx context.Context, deps *bootstrap.Dependencies, c *cli.Context) error

// withDependencies wires config, logging and the database the same way the server does
func withDependencies(run runFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
		if err != nil {
			return err
		}

		database, err := bootstrap.ConnectDatabase(c.Context, cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()

		return run(c.Context, bootstrap.BuildDependencies(cfg, database, lgr), c)
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "course", Usage: "course code to filter by"},
		&cli.StringFlag{Name: "q", Usage: "case-insensitive first or last name search"},
		&cli.StringFlag{Name: "sort", Value: dto.SortAsc, Usage: "name order, asc or desc"},
	}
}

func logQuery(c *cli.Context) dto.StudentLogQuery {
	q := dto.StudentLogQuery{
		Course: c.String("course"),
		Query:  c.String("q"),
		Sort:   c.String("sort"),
		Page:   c.Int("page"),
	}
	q.Normalize()
	return q
}

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "print course totals, gender breakdown and the top students",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "course", Usage: "course for the top students ranking"},
		},
		Action: withDependencies(func(ctx context.Context, deps *bootstrap.Dependencies, c *cli.Context) error {
			summary, err := deps.DashboardService.Summary(ctx, c.String("course"))
			if err != nil {
				return err
			}
			printDashboard(os.Stdout, summary)
			return nil
		}),
	}
}

func studentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "students",
		Usage: "print one page of the student log",
		Flags: append(filterFlags(), &cli.IntFlag{Name: "page", Value: 1, Usage: "page number"}),
		Action: withDependencies(func(ctx context.Context, deps *bootstrap.Dependencies, c *cli.Context) error {
			log, err := deps.StudentService.Log(ctx, logQuery(c))
			if err != nil {
				return err
			}
			printStudentLog(os.Stdout, log)
			return nil
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the filtered student log to an xlsx workbook",
		Flags: append(filterFlags(), &cli.StringFlag{Name: "out", Value: "students.xlsx", Usage: "output file"}),
		Action: withDependencies(func(ctx context.Context, deps *bootstrap.Dependencies, c *cli.Context) error {
			out := c.String("out")
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}

			rows, err := deps.ExportService.WriteStudentLog(ctx, logQuery(c), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("failed to export students: %w", err)
			}

			printExported(os.Stdout, out, rows)
			return nil
		}),
	}
}

func pruneSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-sessions",
		Usage: "delete expired and long-revoked login sessions",
		Action: withDependencies(func(ctx context.Context, deps *bootstrap.Dependencies, c *cli.Context) error {
			deleted, err := deps.AuthService.PruneSessions(ctx)
			if err != nil {
				return fmt.Errorf("failed to prune sessions: %w", err)
			}
			printPruned(os.Stdout, deleted)
			return nil
		}),
	}
}
