package valueobject

import "github.com/pathwai/pathwai-backend/internal/pkg/apperror"

// WidgetKind - тип блока портфолио. Совпадает с ключом в таблице widget_types.
type WidgetKind string

const (
	WidgetKindIdentity         WidgetKind = "identity"
	WidgetKindEducation        WidgetKind = "education"
	WidgetKindProjects         WidgetKind = "projects"
	WidgetKindDescription      WidgetKind = "description"
	WidgetKindServices         WidgetKind = "services"
	WidgetKindGallery          WidgetKind = "gallery"
	WidgetKindStartup          WidgetKind = "startup"
	WidgetKindMeetingScheduler WidgetKind = "meeting-scheduler"
	WidgetKindImage            WidgetKind = "image"
	WidgetKindTaskManager      WidgetKind = "task-manager"
)

// AllWidgetKinds возвращает известные типы в порядке отображения.
func AllWidgetKinds() []WidgetKind {
	return []WidgetKind{
		WidgetKindIdentity,
		WidgetKindEducation,
		WidgetKindProjects,
		WidgetKindDescription,
		WidgetKindServices,
		WidgetKindGallery,
		WidgetKindStartup,
		WidgetKindMeetingScheduler,
		WidgetKindImage,
		WidgetKindTaskManager,
	}
}

func (k WidgetKind) IsValid() bool {
	switch k {
	case WidgetKindIdentity, WidgetKindEducation, WidgetKindProjects, WidgetKindDescription,
		WidgetKindServices, WidgetKindGallery, WidgetKindStartup, WidgetKindMeetingScheduler,
		WidgetKindImage, WidgetKindTaskManager:
		return true
	}
	return false
}

// PerInstanceContent сообщает, хранится ли контент по id виджета, а не по типу.
func (k WidgetKind) PerInstanceContent() bool {
	return k == WidgetKindGallery || k == WidgetKindImage
}

func (k WidgetKind) String() string {
	return string(k)
}

func NewWidgetKind(kind string) (WidgetKind, error) {
	k := WidgetKind(kind)
	if !k.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "unknown widget type: "+kind)
	}
	return k, nil
}
