package entity

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

// IdentityWidgetID - id блока профиля в раскладке до и после сохранения.
const IdentityWidgetID = "identity"

// WidgetDefinition - ссылка на блок в колонке раскладки.
type WidgetDefinition struct {
	ID   string                 `json:"id"`
	Kind valueobject.WidgetKind `json:"type"`
}

// Role возвращает роль блока. Закреплённость определяется типом, а не id.
func (w WidgetDefinition) Role() valueobject.WidgetRole {
	return valueobject.RoleFor(w.Kind)
}

// ContentKey - ключ контента блока: id для многоэкземплярных типов, иначе тип.
func (w WidgetDefinition) ContentKey() string {
	if w.Kind.PerInstanceContent() {
		return w.ID
	}
	return string(w.Kind)
}

// newLocalWidgetID выдаёт локальный id вида {kind}-{6 символов}.
var newLocalWidgetID = func(kind valueobject.WidgetKind) string {
	if kind == valueobject.WidgetKindIdentity {
		return IdentityWidgetID
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return string(kind) + "-" + suffix
}

// PersistedWidgetID - id блока после сохранения в базе.
func PersistedWidgetID(kind valueobject.WidgetKind, rowID uuid.UUID) string {
	if kind == valueobject.WidgetKindIdentity {
		return IdentityWidgetID
	}
	return string(kind) + "-" + rowID.String()
}

// WidgetSpec описывает тип блока для каталога и конструктора.
type WidgetSpec struct {
	Kind        valueobject.WidgetKind
	DisplayName string
	Category    string
	// DefaultContent возвращает новый экземпляр контента по умолчанию.
	DefaultContent func() any
}

var widgetRegistry = map[valueobject.WidgetKind]WidgetSpec{
	valueobject.WidgetKindIdentity: {
		Kind: valueobject.WidgetKindIdentity, DisplayName: "Identity", Category: "profile",
		DefaultContent: func() any { return map[string]any{} },
	},
	valueobject.WidgetKindEducation: {
		Kind: valueobject.WidgetKindEducation, DisplayName: "Education", Category: "profile",
		DefaultContent: func() any {
			return EducationContent{
				Title: "Education",
				Items: []EducationItem{
					{Degree: "B.Sc. Computer Science", School: "State University", Year: "2018 – 2022"},
					{Degree: "Design Systems Certificate", School: "Coursera", Year: "2023", Certified: true},
				},
			}
		},
	},
	valueobject.WidgetKindProjects: {
		Kind: valueobject.WidgetKindProjects, DisplayName: "Projects", Category: "work",
		DefaultContent: func() any {
			return ProjectsContent{
				Title: "Featured Projects",
				Items: []ProjectItem{
					{Name: "E-commerce Redesign", Description: "Lifted CR by 18%", Year: "2024", Tags: []string{"UI/UX", "A/B"}},
					{Name: "Mobile Banking", Description: "4.8★ app rating", Year: "2023", Tags: []string{"iOS", "Android"}},
				},
			}
		},
	},
	valueobject.WidgetKindDescription: {
		Kind: valueobject.WidgetKindDescription, DisplayName: "Description", Category: "profile",
		DefaultContent: func() any {
			return DescriptionContent{
				Title:   "About Me",
				Content: "I build calm, pragmatic interfaces that convert and delight.",
			}
		},
	},
	valueobject.WidgetKindServices: {
		Kind: valueobject.WidgetKindServices, DisplayName: "Services", Category: "work",
		DefaultContent: func() any {
			return ServicesContent{
				Title: "Services",
				Items: []string{"Product Design", "User Research", "Prototyping", "Design Systems"},
			}
		},
	},
	valueobject.WidgetKindGallery: {
		Kind: valueobject.WidgetKindGallery, DisplayName: "Gallery", Category: "media",
		DefaultContent: func() any { return []GalleryGroup{} },
	},
	valueobject.WidgetKindStartup: {
		Kind: valueobject.WidgetKindStartup, DisplayName: "Startup", Category: "work",
		DefaultContent: func() any { return defaultStartupContent() },
	},
	valueobject.WidgetKindMeetingScheduler: {
		Kind: valueobject.WidgetKindMeetingScheduler, DisplayName: "Meeting Scheduler", Category: "contact",
		DefaultContent: func() any { return MeetingSchedulerContent{Mode: "button"} },
	},
	valueobject.WidgetKindImage: {
		Kind: valueobject.WidgetKindImage, DisplayName: "Image", Category: "media",
		DefaultContent: func() any { return ImageContent{} },
	},
	valueobject.WidgetKindTaskManager: {
		Kind: valueobject.WidgetKindTaskManager, DisplayName: "Task Manager", Category: "work",
		DefaultContent: func() any {
			return TaskManagerContent{
				Title: "Your Projects",
				Projects: []TaskProject{{
					Name:  "Sample Project",
					Tasks: []Task{{Title: "Example Task", Description: "This is an example task", Due: "today"}},
				}},
			}
		},
	},
}

// LookupWidget возвращает описание типа блока.
func LookupWidget(kind valueobject.WidgetKind) (WidgetSpec, bool) {
	spec, ok := widgetRegistry[kind]
	return spec, ok
}

// WidgetSpecs возвращает описания всех типов в порядке valueobject.AllWidgetKinds.
func WidgetSpecs() []WidgetSpec {
	kinds := valueobject.AllWidgetKinds()
	specs := make([]WidgetSpec, 0, len(kinds))
	for _, k := range kinds {
		specs = append(specs, widgetRegistry[k])
	}
	return specs
}

// DefaultContentJSON сериализует контент по умолчанию для типа.
func DefaultContentJSON(kind valueobject.WidgetKind) json.RawMessage {
	spec, ok := widgetRegistry[kind]
	if !ok {
		return json.RawMessage(`{}`)
	}
	return mustJSON(spec.DefaultContent())
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
