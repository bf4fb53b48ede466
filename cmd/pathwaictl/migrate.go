package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathwai/pathwai-backend/internal/db"
	"github.com/pathwai/pathwai-backend/migrations"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply SQL migrations embedded in the binary that have not run yet.

With --status nothing is applied; every migration is listed with the
time it was applied or "pending".

Examples:
  pathwaictl migrate
  pathwaictl migrate --status`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Only show which migrations are applied")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conn, _, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	out := cmd.OutOrStdout()
	if migrateStatus {
		names, err := db.MigrationFiles(migrations.FS)
		if err != nil {
			return err
		}
		applied, err := db.AppliedMigrations(ctx, conn)
		if err != nil {
			return fmt.Errorf("reading applied migrations: %w", err)
		}
		printMigrationStatus(out, names, applied)
		return nil
	}

	ran, err := db.RunMigrations(ctx, conn, migrations.FS)
	for _, name := range ran {
		fmt.Fprintf(out, "applied %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(ran) == 0 {
		fmt.Fprintln(out, "Database is up to date.")
	}
	return nil
}

func printMigrationStatus(out io.Writer, names []string, applied map[string]time.Time) {
	for _, name := range names {
		at, ok := applied[name]
		if !ok {
			fmt.Fprintf(out, "%-32s pending\n", name)
			continue
		}
		fmt.Fprintf(out, "%-32s %s\n", name, at.UTC().Format(time.RFC3339))
	}
}
