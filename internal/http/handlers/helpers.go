package handlers

import (
	"strings"

	"github.com/google/uuid"
)

// parseOptionalUUID разбирает необязательный идентификатор из тела запроса.
func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
