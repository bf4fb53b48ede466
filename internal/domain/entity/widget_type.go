package entity

import (
	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

// WidgetTypeIndex - соответствие типа блока и id в таблице widget_types.
type WidgetTypeIndex map[valueobject.WidgetKind]uuid.UUID

// KindOf выполняет обратный поиск типа по id.
func (ix WidgetTypeIndex) KindOf(id uuid.UUID) (valueobject.WidgetKind, bool) {
	for kind, typeID := range ix {
		if typeID == id {
			return kind, true
		}
	}
	return "", false
}
