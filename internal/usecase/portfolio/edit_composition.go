package portfolio

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

// CompositionEdit - одна правка конструктора поверх сохранённой композиции.
type CompositionEdit func(c *entity.Composition) error

type EditCompositionInput struct {
	UserID      uuid.UUID
	PortfolioID uuid.UUID
	Edit        CompositionEdit
}

type EditCompositionOutput struct {
	Composition *entity.Composition
	Widgets     WidgetReport
}

// EditCompositionUseCase загружает композицию, применяет правку и сохраняет результат.
type EditCompositionUseCase struct {
	load *GetCompositionUseCase
	save *SaveCompositionUseCase
}

func NewEditCompositionUseCase(load *GetCompositionUseCase, save *SaveCompositionUseCase) *EditCompositionUseCase {
	return &EditCompositionUseCase{load: load, save: save}
}

func (uc *EditCompositionUseCase) Execute(ctx context.Context, input EditCompositionInput) (*EditCompositionOutput, error) {
	comp, err := uc.load.Execute(ctx, input.PortfolioID, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := input.Edit(comp); err != nil {
		return nil, err
	}

	saved, err := uc.save.Execute(ctx, SaveCompositionInput{
		UserID:      input.UserID,
		PortfolioID: input.PortfolioID,
		Composition: comp,
	})
	if err != nil {
		return nil, err
	}

	// После сохранения у блоков постоянные id, поэтому композиция перечитывается.
	fresh, err := uc.load.Execute(ctx, input.PortfolioID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &EditCompositionOutput{Composition: fresh, Widgets: saved.Widgets}, nil
}

// AddWidget добавляет блок в колонку. Локальный id нового блока пишется в localID.
func AddWidget(kind valueobject.WidgetKind, column valueobject.Column, localID *string) CompositionEdit {
	return func(c *entity.Composition) error {
		id, err := c.AddWidget(kind, column)
		if err != nil {
			return err
		}
		if localID != nil {
			*localID = id
		}
		return nil
	}
}

func RemoveWidget(id string) CompositionEdit {
	return func(c *entity.Composition) error {
		if err := editableWidget(c, id); err != nil {
			return err
		}
		c.RemoveWidget(id)
		return nil
	}
}

func MoveWidget(id string, column valueobject.Column) CompositionEdit {
	return func(c *entity.Composition) error {
		if !column.IsValid() {
			return apperror.New(apperror.ErrCodeValidation, "column must be left or right")
		}
		if err := editableWidget(c, id); err != nil {
			return err
		}
		c.MoveWidget(id, column)
		return nil
	}
}

func UpdateIdentity(patch entity.IdentityPatch) CompositionEdit {
	return func(c *entity.Composition) error {
		return c.UpdateIdentity(patch)
	}
}

func SetTheme(colorIndex int) CompositionEdit {
	return func(c *entity.Composition) error {
		return c.SetTheme(colorIndex)
	}
}

// UpdateWidgetContent заменяет контент блока. Профиль меняется только через UpdateIdentity.
func UpdateWidgetContent(id string, content json.RawMessage) CompositionEdit {
	return func(c *entity.Composition) error {
		if err := editableWidget(c, id); err != nil {
			return err
		}
		if !json.Valid(content) {
			return apperror.New(apperror.ErrCodeValidation, "content must be valid JSON")
		}
		return c.UpdateWidgetContent(id, content)
	}
}

// editableWidget проверяет, что блок существует и не закреплён.
func editableWidget(c *entity.Composition, id string) error {
	def, _, ok := c.Find(id)
	if !ok {
		return apperror.New(apperror.ErrCodeNotFound, "Widget not found")
	}
	if def.Role().IsPinned() {
		return apperror.New(apperror.ErrCodeConflict, "The identity widget cannot be changed this way")
	}
	return nil
}
