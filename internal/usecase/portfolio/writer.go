package portfolio

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

// CreatedWidget - блок, для которого создана строка widget_instances.
type CreatedWidget struct {
	LocalID    string                 `json:"localId"`
	ID         string                 `json:"id"`
	Kind       valueobject.WidgetKind `json:"kind"`
	InstanceID uuid.UUID              `json:"instanceId"`
}

// FailedWidget - блок, который не удалось сохранить. Его id остаётся в раскладке как есть.
type FailedWidget struct {
	LocalID string                 `json:"localId"`
	Kind    valueobject.WidgetKind `json:"kind"`
	Error   string                 `json:"error"`
}

// WidgetReport - итог сохранения блоков.
type WidgetReport struct {
	Created []CreatedWidget `json:"created"`
	Failed  []FailedWidget  `json:"failed"`
}

func (r WidgetReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// compositionWriter сохраняет блоки композиции и переписывает раскладку.
type compositionWriter struct {
	widgets repository.WidgetInstanceRepository
	layouts repository.LayoutRepository
	types   repository.WidgetTypeResolver
}

// writeWidgets создаёт по строке на блок и возвращает раскладку с новыми id.
// Ошибка возвращается только если не удалось получить справочник типов.
func (w *compositionWriter) writeWidgets(ctx context.Context, log *logrus.Entry, pageID uuid.UUID, comp *entity.Composition) (entity.Layout, WidgetReport, error) {
	report := WidgetReport{Created: []CreatedWidget{}, Failed: []FailedWidget{}}

	index, err := w.types.Resolve(ctx)
	if err != nil {
		return entity.Layout{}, report, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load widget types")
	}

	mapping := make(map[string]string, len(comp.Left)+len(comp.Right))
	for _, def := range comp.AllWidgets() {
		typeID, ok := index[def.Kind]
		if !ok {
			report.Failed = append(report.Failed, FailedWidget{LocalID: def.ID, Kind: def.Kind, Error: "widget type is not registered"})
			log.WithField("widget", def.ID).Warn("widget type is not registered")
			continue
		}

		props, err := w.props(comp, def)
		if err != nil {
			report.Failed = append(report.Failed, FailedWidget{LocalID: def.ID, Kind: def.Kind, Error: err.Error()})
			continue
		}

		inst := &entity.WidgetInstance{
			ID:           uuid.New(),
			PageID:       pageID,
			WidgetTypeID: typeID,
			Props:        props,
			CreatedAt:    time.Now(),
		}
		if def.Role().IsPinned() {
			err = w.widgets.UpsertByType(ctx, inst)
		} else {
			err = w.widgets.Create(ctx, inst)
		}
		if err != nil {
			report.Failed = append(report.Failed, FailedWidget{LocalID: def.ID, Kind: def.Kind, Error: err.Error()})
			log.WithError(err).WithField("widget", def.ID).Warn("widget insert failed")
			continue
		}

		persisted := entity.PersistedWidgetID(def.Kind, inst.ID)
		mapping[def.ID] = persisted
		report.Created = append(report.Created, CreatedWidget{
			LocalID:    def.ID,
			ID:         persisted,
			Kind:       def.Kind,
			InstanceID: inst.ID,
		})
	}

	return comp.Layout().Remap(mapping), report, nil
}

// saveLayout сохраняет раскладку страницы.
func (w *compositionWriter) saveLayout(ctx context.Context, pageID uuid.UUID, layout entity.Layout) (*entity.PageLayout, error) {
	pl := &entity.PageLayout{
		ID:        uuid.New(),
		PageID:    pageID,
		Layout:    layout,
		UpdatedAt: time.Now(),
	}
	if err := w.layouts.Upsert(ctx, pl); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to save layout")
	}
	return pl, nil
}

func (w *compositionWriter) props(comp *entity.Composition, def entity.WidgetDefinition) (json.RawMessage, error) {
	if def.Role().IsPinned() {
		return json.Marshal(comp.Identity)
	}
	return comp.ContentFor(def), nil
}
