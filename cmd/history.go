package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// HistoryCommand creates the history command and its subcommands
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and manage search history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent searches, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries (0 for all)",
						Value: 20,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withEnv(ctx, c, func(e *env) error {
						return listHistory(output(c), e, c.Int("limit"))
					})
				},
			},
			{
				Name:  "popular",
				Usage: "Show the most frequent queries",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withEnv(ctx, c, func(e *env) error {
						return showPopular(output(c), e)
					})
				},
			},
			{
				Name:  "trends",
				Usage: "Show searches per day for the last week",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withEnv(ctx, c, func(e *env) error {
						return showTrends(output(c), e)
					})
				},
			},
			{
				Name:  "clear",
				Usage: "Delete search history and analytics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withEnv(ctx, c, func(e *env) error {
						e.svc.ClearSearchHistory()
						fmt.Fprintln(output(c), "Search history cleared")
						return nil
					})
				},
			},
			{
				Name:  "export",
				Usage: "Export history, analytics and filters as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withEnv(ctx, c, func(e *env) error {
						return exportHistory(output(c), e, c.String("output"))
					})
				},
			},
			{
				Name:      "import",
				Usage:     "Import data produced by export",
				ArgsUsage: "FILE",
				Action: func(ctx context.Context, c *cli.Command) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("an export file is required")
					}
					return withEnv(ctx, c, func(e *env) error {
						return importHistory(output(c), e, path)
					})
				},
			},
		},
	}
}

// withEnv runs fn with a session that has no index loaded.
func withEnv(ctx context.Context, c *cli.Command, fn func(e *env) error) error {
	e, err := openEnv(ctx, c, false)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func listHistory(w io.Writer, e *env, limit int) error {
	entries := e.svc.History()
	if len(entries) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No searches recorded"))
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for _, h := range entries {
		line := fmt.Sprintf("%s  %-30s %s", h.Timestamp.Local().Format("2006-01-02 15:04"), h.Query, metaStyle.Render(fmt.Sprintf("%d results", h.ResultsCount)))
		if h.ClickedResult != "" {
			line += " " + pathStyle.Render("→ "+h.ClickedResult)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func showPopular(w io.Writer, e *env) error {
	queries := e.svc.GetPopularQueries()
	if len(queries) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No searches recorded"))
		return nil
	}
	fmt.Fprintln(w, headerStyle.Render("Popular queries"))
	for i, q := range queries {
		fmt.Fprintf(w, "%2d. %s %s\n", i+1, q.Query, metaStyle.Render(fmt.Sprintf("(%d)", q.Count)))
	}

	analytics := e.svc.Analytics()
	if len(analytics.PopularCategories) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Popular categories"))
		for i, cat := range analytics.PopularCategories {
			fmt.Fprintf(w, "%2d. %s %s\n", i+1, displayCategory(cat.Category), metaStyle.Render(fmt.Sprintf("(%d)", cat.Count)))
		}
	}
	return nil
}

func showTrends(w io.Writer, e *env) error {
	trends := e.svc.GetSearchTrends()
	peak := 0
	for _, p := range trends {
		peak = max(peak, p.Count)
	}

	fmt.Fprintln(w, headerStyle.Render("Searches per day"))
	for _, p := range trends {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", (p.Count*30+peak-1)/peak)
		}
		fmt.Fprintf(w, "%s %4d %s\n", p.Date, p.Count, barStyle.Render(bar))
	}

	a := e.svc.Analytics()
	fmt.Fprintf(w, "\nTotal searches: %d, average results: %.1f, without results: %d\n",
		a.TotalSearches, a.AverageResultsPerQuery, len(a.NoResultQueries))
	return nil
}

func exportHistory(w io.Writer, e *env, path string) error {
	data, err := e.svc.ExportSearchData()
	if err != nil {
		return fmt.Errorf("exporting search data: %w", err)
	}
	if path == "" {
		_, err := w.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "Search data exported to %s\n", path)
	return nil
}

func importHistory(w io.Writer, e *env, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := e.svc.ImportSearchData(data); err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	fmt.Fprintf(w, "Imported %d searches from %s\n", len(e.svc.History()), path)
	return nil
}
