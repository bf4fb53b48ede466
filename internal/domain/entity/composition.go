package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

// ExportVersion - версия формата выгрузки конструктора.
const ExportVersion = "1.0.0"

// Composition - редактируемое состояние портфолио до и во время сохранения.
type Composition struct {
	Identity Identity                   `json:"identity"`
	Left     []WidgetDefinition         `json:"left"`
	Right    []WidgetDefinition         `json:"right"`
	Content  map[string]json.RawMessage `json:"content"`
}

// NewComposition возвращает конструктор с раскладкой и контентом по умолчанию.
func NewComposition() *Composition {
	c := &Composition{
		Identity: DefaultIdentity(),
		Left: []WidgetDefinition{
			{ID: IdentityWidgetID, Kind: valueobject.WidgetKindIdentity},
			{ID: "education", Kind: valueobject.WidgetKindEducation},
		},
		Right: []WidgetDefinition{
			{ID: "description", Kind: valueobject.WidgetKindDescription},
			{ID: "projects", Kind: valueobject.WidgetKindProjects},
			{ID: "services", Kind: valueobject.WidgetKindServices},
		},
		Content: map[string]json.RawMessage{},
	}
	for _, kind := range []valueobject.WidgetKind{
		valueobject.WidgetKindEducation,
		valueobject.WidgetKindProjects,
		valueobject.WidgetKindServices,
		valueobject.WidgetKindDescription,
		valueobject.WidgetKindStartup,
	} {
		c.Content[string(kind)] = DefaultContentJSON(kind)
	}
	return c
}

// Validate проверяет структуру: ровно один identity, известные типы, уникальные id.
func (c *Composition) Validate() error {
	seen := make(map[string]struct{})
	identities := 0
	for _, w := range c.AllWidgets() {
		if !w.Kind.IsValid() {
			return apperror.New(apperror.ErrCodeValidation, "unknown widget type: "+string(w.Kind))
		}
		if strings.TrimSpace(w.ID) == "" {
			return apperror.New(apperror.ErrCodeValidation, "widget id is required")
		}
		if _, dup := seen[w.ID]; dup {
			return apperror.New(apperror.ErrCodeValidation, "duplicate widget id: "+w.ID)
		}
		seen[w.ID] = struct{}{}
		if w.Role().IsPinned() {
			identities++
		}
	}
	if identities != 1 {
		return apperror.New(apperror.ErrCodeValidation, "composition must contain exactly one identity widget")
	}
	if !c.Identity.SelectedColor.IsValid() {
		return apperror.New(apperror.ErrCodeValidation, "theme color index must be between 0 and 6")
	}
	return nil
}

// AllWidgets возвращает блоки обеих колонок: сначала левая, затем правая.
func (c *Composition) AllWidgets() []WidgetDefinition {
	all := make([]WidgetDefinition, 0, len(c.Left)+len(c.Right))
	all = append(all, c.Left...)
	return append(all, c.Right...)
}

// Find ищет блок по id.
func (c *Composition) Find(id string) (WidgetDefinition, valueobject.Column, bool) {
	for _, w := range c.Left {
		if w.ID == id {
			return w, valueobject.ColumnLeft, true
		}
	}
	for _, w := range c.Right {
		if w.ID == id {
			return w, valueobject.ColumnRight, true
		}
	}
	return WidgetDefinition{}, "", false
}

// AddWidget добавляет блок в конец колонки и возвращает его локальный id.
func (c *Composition) AddWidget(kind valueobject.WidgetKind, column valueobject.Column) (string, error) {
	if !kind.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "unknown widget type: "+string(kind))
	}
	if !column.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "column must be left or right")
	}
	if valueobject.RoleFor(kind).IsPinned() {
		return "", apperror.New(apperror.ErrCodeBadRequest, "portfolio already has an identity widget")
	}

	id := newLocalWidgetID(kind)
	for {
		if _, _, exists := c.Find(id); !exists {
			break
		}
		id = newLocalWidgetID(kind)
	}

	def := WidgetDefinition{ID: id, Kind: kind}
	if column == valueobject.ColumnLeft {
		c.Left = append(c.Left, def)
	} else {
		c.Right = append(c.Right, def)
	}

	if kind.PerInstanceContent() {
		c.ensureContent()
		c.Content[id] = DefaultContentJSON(kind)
	}
	return id, nil
}

// RemoveWidget удаляет блок и его контент по id. Закреплённый блок не удаляется.
func (c *Composition) RemoveWidget(id string) bool {
	def, _, ok := c.Find(id)
	if !ok || def.Role().IsPinned() {
		return false
	}

	c.Left = without(c.Left, id)
	c.Right = without(c.Right, id)
	if def.Kind.PerInstanceContent() {
		delete(c.Content, id)
	}
	return true
}

// MoveWidget переносит блок в конец целевой колонки. Если блок уже там, порядок не меняется.
func (c *Composition) MoveWidget(id string, to valueobject.Column) bool {
	if !to.IsValid() {
		return false
	}
	def, from, ok := c.Find(id)
	if !ok || def.Role().IsPinned() {
		return false
	}
	if from == to {
		return true
	}

	c.Left = without(c.Left, id)
	c.Right = without(c.Right, id)
	if to == valueobject.ColumnLeft {
		c.Left = append(c.Left, def)
	} else {
		c.Right = append(c.Right, def)
	}
	return true
}

// UpdateContent заменяет контент по ключу (тип или id блока).
func (c *Composition) UpdateContent(key string, value json.RawMessage) {
	c.ensureContent()
	c.Content[key] = value
}

// UpdateWidgetContent заменяет контент конкретного блока.
func (c *Composition) UpdateWidgetContent(id string, value json.RawMessage) error {
	def, _, ok := c.Find(id)
	if !ok {
		return apperror.New(apperror.ErrCodeNotFound, "widget not found: "+id)
	}
	c.UpdateContent(def.ContentKey(), value)
	return nil
}

// ContentFor возвращает контент блока или значение по умолчанию для его типа.
func (c *Composition) ContentFor(def WidgetDefinition) json.RawMessage {
	if raw, ok := c.Content[def.ContentKey()]; ok && len(raw) > 0 {
		return raw
	}
	return DefaultContentJSON(def.Kind)
}

// UpdateIdentity сливает патч с текущим профилем.
func (c *Composition) UpdateIdentity(patch IdentityPatch) error {
	return c.Identity.Apply(patch)
}

// SetTheme меняет цветовую схему профиля.
func (c *Composition) SetTheme(colorIndex int) error {
	color, err := valueobject.NewThemeColor(colorIndex)
	if err != nil {
		return err
	}
	c.Identity.SelectedColor = color
	return nil
}

// Layout возвращает раскладку из текущих колонок.
func (c *Composition) Layout() Layout {
	return NewLayout(ids(c.Left), ids(c.Right))
}

// ExportMetadata - служебные поля выгрузки.
type ExportMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	Version   string    `json:"version"`
}

// ExportData - снимок конструктора для скачивания и ассистента.
type ExportData struct {
	Identity      Identity                   `json:"identity"`
	LeftWidgets   []WidgetDefinition         `json:"leftWidgets"`
	RightWidgets  []WidgetDefinition         `json:"rightWidgets"`
	WidgetContent map[string]json.RawMessage `json:"widgetContent"`
	Metadata      ExportMetadata             `json:"metadata"`
}

func (c *Composition) Export(now time.Time) ExportData {
	content := make(map[string]json.RawMessage, len(c.Content))
	for k, v := range c.Content {
		content[k] = v
	}
	return ExportData{
		Identity:      c.Identity,
		LeftWidgets:   append([]WidgetDefinition{}, c.Left...),
		RightWidgets:  append([]WidgetDefinition{}, c.Right...),
		WidgetContent: content,
		Metadata:      ExportMetadata{CreatedAt: now.UTC(), Version: ExportVersion},
	}
}

// Summary - краткое описание раскладки, например "Left: identity, education | Right: projects".
func (c *Composition) Summary() string {
	return "Left: " + kinds(c.Left) + " | Right: " + kinds(c.Right)
}

func (c *Composition) ensureContent() {
	if c.Content == nil {
		c.Content = map[string]json.RawMessage{}
	}
}

func without(list []WidgetDefinition, id string) []WidgetDefinition {
	out := make([]WidgetDefinition, 0, len(list))
	for _, w := range list {
		if w.ID != id {
			out = append(out, w)
		}
	}
	return out
}

func ids(list []WidgetDefinition) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		out = append(out, w.ID)
	}
	return out
}

func kinds(list []WidgetDefinition) string {
	names := make([]string, 0, len(list))
	for _, w := range list {
		names = append(names, string(w.Kind))
	}
	return strings.Join(names, ", ")
}
