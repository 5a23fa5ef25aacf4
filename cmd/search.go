package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rubiojr/docsearch/pkg/core"
	"github.com/rubiojr/docsearch/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the documentation index",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search query (alternative to the positional argument)",
			},
			&cli.StringSliceFlag{
				Name:  "category",
				Usage: "Restrict results to a category (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Require a tag (repeatable)",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort by relevance, date, title or readingTime",
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: "Sort order: asc or desc",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 for no limit)",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print results without styling",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := c.String("query")
			if query == "" {
				query = strings.Join(c.Args().Slice(), " ")
			}
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("a search query is required")
			}
			return searchDocs(ctx, c, query)
		},
	}
}

// searchParams maps the command flags onto the parameters the HTTP API
// accepts so both surfaces validate filters the same way.
func searchParams(c *cli.Command, query string) (search.SearchParams, error) {
	values := map[string][]string{
		"q":        {query},
		"category": c.StringSlice("category"),
		"tag":      c.StringSlice("tag"),
		"limit":    {strconv.Itoa(c.Int("limit"))},
	}
	if s := c.String("sort"); s != "" {
		values["sort"] = []string{s}
	}
	if o := c.String("order"); o != "" {
		values["order"] = []string{o}
	}
	return search.ParseSearchParams(values)
}

func searchDocs(ctx context.Context, c *cli.Command, query string) error {
	params, err := searchParams(c, query)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx, c, true)
	if err != nil {
		return err
	}
	defer e.Close()

	var override *core.Filters
	if params.HasOverrides {
		f := params.Overrides.Apply(e.svc.Filters())
		override = &f
	}
	results := e.svc.Search(params.Query, override)
	total := len(results)
	if params.Limit > 0 && len(results) > params.Limit {
		results = results[:params.Limit]
	}

	out := output(c)
	switch {
	case c.Bool("json"):
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case c.Bool("plain"):
		printPlainResults(out, results)
	default:
		printResults(out, params.Query, results, total)
	}
	return nil
}

func printPlainResults(w io.Writer, results []core.Result) {
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, core.FormatResult(r))
		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}
}

func printResults(w io.Writer, query string, results []core.Result, total int) {
	if total == 0 {
		fmt.Fprintln(w, noDataStyle.Render(fmt.Sprintf("No results for %q", query)))
		return
	}

	header := fmt.Sprintf("%d results for %q", total, query)
	if len(results) < total {
		header = fmt.Sprintf("Showing %d of %d results for %q", len(results), total, query)
	}
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, r := range results {
		meta := []string{displayCategory(r.Category), fmt.Sprintf("%d min read", r.ReadingTime)}
		if !r.LastUpdated.IsZero() {
			meta = append(meta, "updated "+r.LastUpdated.Format("2006-01-02"))
		}
		meta = append(meta, fmt.Sprintf("score %d", r.RelevanceScore))
		if len(r.Tags) > 0 {
			meta = append(meta, "#"+strings.Join(r.Tags, " #"))
		}

		var b strings.Builder
		b.WriteString(titleStyle.Render(r.Title))
		b.WriteString("\n")
		b.WriteString(pathStyle.Render(r.Path))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
		if snippet := core.Truncate(strings.Join(strings.Fields(r.Snippet), " "), 240); snippet != "" {
			b.WriteString("\n\n")
			b.WriteString(snippet)
		}
		fmt.Fprintln(w, resultStyle.Render(b.String()))
	}
}
