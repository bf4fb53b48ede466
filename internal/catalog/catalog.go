// Package catalog содержит встроенный каталог шаблонов портфолио.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

//go:embed templates.yaml
var templatesYAML []byte

// BlankTemplateID - шаблон, на который откатываются при неизвестном id.
const BlankTemplateID = "blank"

type fileTemplate struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Icon          string `yaml:"icon"`
	Profession    string `yaml:"profession"`
	SelectedColor int    `yaml:"selectedColor"`
	Widgets       struct {
		Left  []fileWidget `yaml:"left"`
		Right []fileWidget `yaml:"right"`
	} `yaml:"widgets"`
	Content map[string]any `yaml:"content"`
}

type fileWidget struct {
	ID   string `yaml:"id"`
	Type string `yaml:"type"`
}

// Catalog - неизменяемый набор шаблонов с поиском по id и профессии.
type Catalog struct {
	templates []entity.Template
	byID      map[string]int
}

// Parse разбирает YAML каталога и проверяет каждый шаблон.
func Parse(data []byte) (*Catalog, error) {
	var file struct {
		Templates []fileTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(file.Templates))}
	for _, ft := range file.Templates {
		tpl, err := ft.toEntity()
		if err != nil {
			return nil, err
		}
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, dup := c.byID[tpl.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template id %q", tpl.ID)
		}
		c.byID[tpl.ID] = len(c.templates)
		c.templates = append(c.templates, tpl)
	}
	return c, nil
}

var defaultCatalog = mustParse(templatesYAML)

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default возвращает встроенный каталог.
func Default() *Catalog {
	return defaultCatalog
}

// GetTemplateByID ищет шаблон по id.
func (c *Catalog) GetTemplateByID(id string) (entity.Template, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return entity.Template{}, false
	}
	return c.templates[idx], true
}

// GetTemplatesByProfession возвращает шаблоны категории в порядке каталога.
func (c *Catalog) GetTemplatesByProfession(category string) []entity.Template {
	out := []entity.Template{}
	for _, t := range c.templates {
		if strings.EqualFold(t.Profession, strings.TrimSpace(category)) {
			out = append(out, t)
		}
	}
	return out
}

// All возвращает все шаблоны.
func (c *Catalog) All() []entity.Template {
	return append([]entity.Template{}, c.templates...)
}

// Professions возвращает отсортированный список категорий.
func (c *Catalog) Professions() []string {
	seen := map[string]struct{}{}
	for _, t := range c.templates {
		seen[t.Profession] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Resolve возвращает шаблон по id или пустой шаблон, если id неизвестен.
func (c *Catalog) Resolve(id string) entity.Template {
	if t, ok := c.GetTemplateByID(id); ok {
		return t
	}
	return Blank()
}

// Blank - шаблон только с блоком профиля. Не зависит от содержимого YAML.
func Blank() entity.Template {
	return entity.Template{
		ID:            BlankTemplateID,
		Name:          "Blank Portfolio",
		Description:   "Start from scratch with just your profile card.",
		Profession:    "general",
		SelectedColor: valueobject.ThemeNeutral,
		Left:          []entity.WidgetDefinition{{ID: entity.IdentityWidgetID, Kind: valueobject.WidgetKindIdentity}},
		Right:         []entity.WidgetDefinition{},
	}
}

func (ft fileTemplate) toEntity() (entity.Template, error) {
	color, err := valueobject.NewThemeColor(ft.SelectedColor)
	if err != nil {
		return entity.Template{}, fmt.Errorf("catalog: template %s: %w", ft.ID, err)
	}

	tpl := entity.Template{
		ID:            ft.ID,
		Name:          ft.Name,
		Description:   ft.Description,
		Icon:          ft.Icon,
		Profession:    ft.Profession,
		SelectedColor: color,
		Left:          toDefinitions(ft.Widgets.Left),
		Right:         toDefinitions(ft.Widgets.Right),
		Content:       make(map[string]json.RawMessage, len(ft.Content)),
	}
	for key, value := range ft.Content {
		raw, err := json.Marshal(value)
		if err != nil {
			return entity.Template{}, fmt.Errorf("catalog: template %s content %s: %w", ft.ID, key, err)
		}
		tpl.Content[key] = raw
	}
	return tpl, nil
}

func toDefinitions(in []fileWidget) []entity.WidgetDefinition {
	out := make([]entity.WidgetDefinition, 0, len(in))
	for _, w := range in {
		out = append(out, entity.WidgetDefinition{ID: w.ID, Kind: valueobject.WidgetKind(w.Type)})
	}
	return out
}
