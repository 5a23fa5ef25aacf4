package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rubiojr/docsearch/pkg/storage"
	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show index and storage statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(ctx, c)
		},
	}
}

func showStats(ctx context.Context, c *cli.Command) error {
	e, err := openEnv(ctx, c, false)
	if err != nil {
		return err
	}
	defer e.Close()
	out := output(c)

	fmt.Fprintln(out, headerStyle.Render("Storage"))
	if store, ok := e.store.(*storage.SQLiteStore); ok {
		if err := printStorageStats(out, store, e.cfg.User); err != nil {
			return err
		}
		if err := printMigrationSummary(out, store); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, noDataStyle.Render("Ephemeral storage, nothing is persisted"))
	}

	if e.cfg.IndexSource == "" {
		fmt.Fprintln(out, noDataStyle.Render("\nNo index source configured"))
		return nil
	}
	if err := e.svc.LoadIndex(ctx, e.cfg.IndexSource); err != nil {
		logger.Warnf("continuing with an empty index: %v", err)
	}

	counts := make(map[string]int)
	var categories []string
	words := 0
	for _, d := range e.svc.Documents() {
		cat := d.Category()
		if counts[cat] == 0 {
			categories = append(categories, cat)
		}
		counts[cat]++
		words += d.WordCount()
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Index"))
	fmt.Fprintf(out, "Source:     %s\n", e.svc.Source())
	fmt.Fprintf(out, "Documents:  %d\n", e.svc.DocumentCount())
	fmt.Fprintf(out, "Words:      %d\n", words)
	for _, cat := range categories {
		fmt.Fprintf(out, "  %-24s %d\n", displayCategory(cat), counts[cat])
	}
	if status := e.monitor.Status(); !status.Healthy {
		for _, d := range status.Recent {
			fmt.Fprintf(out, "Warning: %s: %s failed: %s\n", d.Component, d.Op, d.Err)
		}
	}
	return nil
}

func printStorageStats(w io.Writer, store *storage.SQLiteStore, user string) error {
	st, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Database:   %s\n", st.Path)
	fmt.Fprintf(w, "Keys:       %d (%s)\n", st.Keys, formatBytes(st.Bytes))
	if !st.LastUpdated.IsZero() {
		fmt.Fprintf(w, "Updated:    %s\n", st.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	}

	keys, err := store.Keys(storage.Key(user, ""))
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\n", k)
	}
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
