package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// SuggestCommand creates the suggest command
func SuggestCommand() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Show autocomplete suggestions for a partial query",
		ArgsUsage: "PARTIAL",
		Action: func(ctx context.Context, c *cli.Command) error {
			partial := strings.Join(c.Args().Slice(), " ")

			e, err := openEnv(ctx, c, true)
			if err != nil {
				return err
			}
			defer e.Close()

			suggestions := e.svc.GetSuggestions(partial)
			if limit := e.cfg.Search.SuggestionLimit; len(suggestions) > limit {
				suggestions = suggestions[:limit]
			}

			out := output(c)
			if len(suggestions) == 0 {
				fmt.Fprintln(out, noDataStyle.Render("No suggestions"))
				return nil
			}
			for _, s := range suggestions {
				label := s.Text
				if s.Category != "" {
					label += " " + metaStyle.Render("in "+displayCategory(s.Category))
				}
				fmt.Fprintf(out, "%-9s %s %s\n", s.Type, label, metaStyle.Render(fmt.Sprintf("(%d)", s.Frequency)))
			}
			return nil
		},
	}
}
