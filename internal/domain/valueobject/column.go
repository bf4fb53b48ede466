package valueobject

import "github.com/pathwai/pathwai-backend/internal/pkg/apperror"

// Column - колонка раскладки страницы.
type Column string

const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
)

func (c Column) IsValid() bool {
	return c == ColumnLeft || c == ColumnRight
}

func NewColumn(column string) (Column, error) {
	c := Column(column)
	if !c.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "column must be left or right")
	}
	return c, nil
}
