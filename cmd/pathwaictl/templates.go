package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pathwai/pathwai-backend/internal/catalog"
	"github.com/pathwai/pathwai-backend/internal/domain/entity"
)

var templatesProfession string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the built-in template catalog",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in templates",
	Long: `List built-in portfolio templates, optionally filtered by profession.

Examples:
  pathwaictl templates list
  pathwaictl templates list --profession design`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listTemplates(cmd.OutOrStdout(), catalog.Default(), templatesProfession)
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a built-in template as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showTemplate(cmd.OutOrStdout(), catalog.Default(), args[0])
	},
}

func init() {
	templatesListCmd.Flags().StringVar(&templatesProfession, "profession", "", "Filter by profession")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}

func listTemplates(out io.Writer, c *catalog.Catalog, profession string) {
	list := c.All()
	if profession != "" {
		list = c.GetTemplatesByProfession(profession)
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No templates found.")
		return
	}
	for _, t := range list {
		fmt.Fprintf(out, "%-28s %-14s %s\n", t.ID, t.Profession, t.Name)
	}
}

type templateView struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Profession  string   `yaml:"profession"`
	Color       int      `yaml:"selectedColor"`
	Left        []string `yaml:"left"`
	Right       []string `yaml:"right"`
}

func showTemplate(out io.Writer, c *catalog.Catalog, id string) error {
	t, ok := c.GetTemplateByID(id)
	if !ok {
		return fmt.Errorf("template %q not found", id)
	}
	view := templateView{
		ID:          t.ID,
		Name:        t.Name,
		Description: strings.TrimSpace(t.Description),
		Profession:  t.Profession,
		Color:       int(t.SelectedColor),
		Left:        widgetLabels(t.Left),
		Right:       widgetLabels(t.Right),
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return err
	}
	return enc.Close()
}

func widgetLabels(defs []entity.WidgetDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.ID+" ("+string(d.Kind)+")")
	}
	return out
}
