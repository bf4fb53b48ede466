package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const columnTypeVertical = "vertical"

// ColumnLayout - упорядоченный список id блоков одной колонки.
type ColumnLayout struct {
	Type    string   `json:"type"`
	Widgets []string `json:"widgets"`
}

// Layout - сохраняемая раскладка страницы (page_layouts.layout).
type Layout struct {
	Left  ColumnLayout `json:"left"`
	Right ColumnLayout `json:"right"`
}

// NewLayout собирает вертикальную раскладку из двух списков id.
func NewLayout(left, right []string) Layout {
	return Layout{
		Left:  ColumnLayout{Type: columnTypeVertical, Widgets: nonNil(left)},
		Right: ColumnLayout{Type: columnTypeVertical, Widgets: nonNil(right)},
	}
}

// Remap переписывает id через mapping. id без записи в mapping остаются как есть.
func (l Layout) Remap(mapping map[string]string) Layout {
	remap := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if mapped, ok := mapping[id]; ok {
				out = append(out, mapped)
				continue
			}
			out = append(out, id)
		}
		return out
	}

	return Layout{
		Left:  ColumnLayout{Type: l.Left.Type, Widgets: remap(l.Left.Widgets)},
		Right: ColumnLayout{Type: l.Right.Type, Widgets: remap(l.Right.Widgets)},
	}
}

// WidgetIDs возвращает id обеих колонок: сначала левая, затем правая.
func (l Layout) WidgetIDs() []string {
	ids := make([]string, 0, len(l.Left.Widgets)+len(l.Right.Widgets))
	ids = append(ids, l.Left.Widgets...)
	return append(ids, l.Right.Widgets...)
}

// UnmarshalJSON принимает и старый формат {"left":[...],"right":[...]}.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var legacy struct {
		Left  []string `json:"left"`
		Right []string `json:"right"`
	}
	if err := json.Unmarshal(data, &legacy); err == nil {
		*l = NewLayout(legacy.Left, legacy.Right)
		return nil
	}

	type layoutAlias Layout
	var aux layoutAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	*l = Layout(aux)
	if l.Left.Type == "" {
		l.Left.Type = columnTypeVertical
	}
	if l.Right.Type == "" {
		l.Right.Type = columnTypeVertical
	}
	l.Left.Widgets = nonNil(l.Left.Widgets)
	l.Right.Widgets = nonNil(l.Right.Widgets)
	return nil
}

// Value сериализует раскладку в jsonb.
func (l Layout) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan читает раскладку из jsonb.
func (l *Layout) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*l = NewLayout(nil, nil)
		return nil
	default:
		return fmt.Errorf("layout: unsupported scan type %T", src)
	}
	return json.Unmarshal(data, l)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
