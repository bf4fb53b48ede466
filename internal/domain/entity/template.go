package entity

import (
	"encoding/json"
	"fmt"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

// Template - предустановленная раскладка с примерным контентом.
type Template struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Icon          string                     `json:"icon,omitempty"`
	Profession    string                     `json:"profession"`
	SelectedColor valueobject.ThemeColor     `json:"selectedColor"`
	Left          []WidgetDefinition         `json:"left"`
	Right         []WidgetDefinition         `json:"right"`
	Content       map[string]json.RawMessage `json:"content,omitempty"`
}

// Validate проверяет, что шаблон можно превратить в композицию.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template: empty id")
	}
	c := t.Composition()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("template %s: %w", t.ID, err)
	}
	return nil
}

// Composition создаёт композицию из шаблона. Контент, которого нет в шаблоне,
// берётся из значений по умолчанию.
func (t Template) Composition() *Composition {
	identity := DefaultIdentity()
	identity.SelectedColor = t.SelectedColor

	c := &Composition{
		Identity: identity,
		Left:     append([]WidgetDefinition{}, t.Left...),
		Right:    append([]WidgetDefinition{}, t.Right...),
		Content:  make(map[string]json.RawMessage, len(t.Content)),
	}
	for k, v := range t.Content {
		if k == string(valueobject.WidgetKindIdentity) {
			var patch IdentityPatch
			if err := json.Unmarshal(v, &patch); err == nil {
				_ = c.Identity.Apply(patch)
			}
			continue
		}
		c.Content[k] = v
	}
	for _, w := range c.AllWidgets() {
		if w.Role().IsPinned() {
			continue
		}
		if _, ok := c.Content[w.ContentKey()]; !ok {
			c.Content[w.ContentKey()] = DefaultContentJSON(w.Kind)
		}
	}
	return c
}
