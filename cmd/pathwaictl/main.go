package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathwaictl",
	Short: "pathwaictl - administration tool for the Pathwai backend",
	Long:  `pathwaictl applies database migrations, inspects the built-in template catalog and maintains the widget type registry.`,
	Example: `  # Apply pending migrations
  pathwaictl migrate

  # Show migration state
  pathwaictl migrate --status

  # Browse built-in templates
  pathwaictl templates list --profession engineering
  pathwaictl templates show developer

  # Register widget types in the database
  pathwaictl widget-types sync`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "database", Title: "Database Commands:"},
		&cobra.Group{ID: "catalog", Title: "Catalog Commands:"},
	)

	migrateCmd.GroupID = "database"
	widgetTypesCmd.GroupID = "database"
	templatesCmd.GroupID = "catalog"
	slugCmd.GroupID = "catalog"

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(widgetTypesCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(slugCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
