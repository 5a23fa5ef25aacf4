package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rubiojr/docsearch/pkg/config"
	"github.com/rubiojr/docsearch/pkg/db"
	"github.com/rubiojr/docsearch/pkg/storage"
	"github.com/urfave/cli/v3"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Show the storage schema status",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			// Opening the store applies pending migrations.
			store, err := storage.OpenDir(cfg.StorageDir)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warnf("failed to close storage: %v", err)
				}
			}()
			return showMigrationStatus(output(c), db.NewMigrationManager(store.DB()))
		},
	}
}

func showMigrationStatus(w io.Writer, manager *db.MigrationManager) error {
	status, err := manager.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Applied migrations: %d\n", len(status.Applied))
	for _, m := range status.Applied {
		appliedTime := "unknown"
		if m.AppliedAt != nil {
			appliedTime = m.AppliedAt.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "  ✓ %03d: %s (applied: %s)\n", m.Version, m.Name, appliedTime)
	}

	fmt.Fprintf(w, "Pending migrations: %d\n", len(status.Pending))
	for _, m := range status.Pending {
		fmt.Fprintf(w, "  • %03d: %s\n", m.Version, m.Name)
	}
	return nil
}

func printMigrationSummary(w io.Writer, store *storage.SQLiteStore) error {
	status, err := db.NewMigrationManager(store.DB()).Status()
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}
	fmt.Fprintf(w, "Schema:     %d/%d migrations applied\n", len(status.Applied), len(status.Available))
	return nil
}
