package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathwai/pathwai-backend/internal/slug"
)

var slugAttempts int

var slugCmd = &cobra.Command{
	Use:   "slug <name>",
	Short: "Preview public addresses generated for a portfolio name",
	Long: `Print the slug candidates tried, in order, when a portfolio with this
name is created. Generic names get a random adjective-noun base.

Examples:
  pathwaictl slug "Jane Doe"
  pathwaictl slug "My Portfolio" --attempts 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		for _, candidate := range slug.Candidates(slug.Base(name), slugAttempts) {
			fmt.Fprintln(cmd.OutOrStdout(), candidate)
		}
		return nil
	},
}

func init() {
	slugCmd.Flags().IntVar(&slugAttempts, "attempts", slug.NumberedAttempts, "Numbered candidates before the random suffix")
}
