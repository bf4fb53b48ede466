package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

const (
	resumeFallbackName  = "My Portfolio"
	resumeFallbackTitle = "Professional"
	resumeFallbackAbout = "Professional with diverse experience and skills."
	resumeMaxSkills     = 8
	resumeIdentityColor = valueobject.ThemeTeal
)

// ParsedResume - структурированное резюме, полученное от модели или из формы.
type ParsedResume struct {
	PersonalInfo   ResumePersonalInfo `json:"personalInfo"`
	Experience     []ResumeExperience `json:"experience,omitempty"`
	Education      []ResumeEducation  `json:"education,omitempty"`
	Skills         *ResumeSkills      `json:"skills,omitempty"`
	Projects       []ResumeProject    `json:"projects,omitempty"`
	Certifications []string           `json:"certifications,omitempty"`
	Awards         []string           `json:"awards,omitempty"`
}

type ResumePersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type ResumeExperience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type ResumeEducation struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
}

type ResumeSkills struct {
	Technical []string `json:"technical,omitempty"`
	Soft      []string `json:"soft,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

type ResumeProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	Link         string   `json:"link,omitempty"`
}

// PortfolioName возвращает имя портфолио из резюме.
func (r *ParsedResume) PortfolioName() string {
	if name := strings.TrimSpace(r.PersonalInfo.Name); name != "" {
		return name
	}
	return resumeFallbackName
}

// PortfolioDescription - summary или "<name>'s professional portfolio".
func (r *ParsedResume) PortfolioDescription() string {
	if s := strings.TrimSpace(r.PersonalInfo.Summary); s != "" {
		return s
	}
	return fmt.Sprintf("%s's professional portfolio", r.PortfolioName())
}

// Composition строит композицию из резюме. Блоки education, projects и services
// добавляются только если в резюме есть данные для них.
func (r *ParsedResume) Composition(now time.Time) *Composition {
	info := r.PersonalInfo
	identity := Identity{
		Name:          info.Name,
		Handle:        resumeHandle(info),
		SelectedColor: resumeIdentityColor,
		Title:         resumeFallbackTitle,
		Bio:           info.Summary,
		Email:         info.Email,
		Location:      info.Location,
		LinkedIn:      info.LinkedIn,
		GitHub:        info.GitHub,
		Website:       info.Website,
	}
	if len(r.Experience) > 0 && strings.TrimSpace(r.Experience[0].Position) != "" {
		identity.Title = r.Experience[0].Position
	}

	c := &Composition{
		Identity: identity,
		Left:     []WidgetDefinition{{ID: IdentityWidgetID, Kind: valueobject.WidgetKindIdentity}},
		Content:  map[string]json.RawMessage{},
	}

	if len(r.Education) > 0 {
		items := make([]EducationItem, 0, len(r.Education))
		for _, edu := range r.Education {
			degree := edu.Degree
			if edu.Field != "" {
				degree += " in " + edu.Field
			}
			item := EducationItem{
				Degree: degree,
				School: edu.Institution,
				Year:   edu.StartDate + "-" + edu.EndDate,
			}
			if edu.GPA != "" {
				item.Description = "GPA: " + edu.GPA
			}
			items = append(items, item)
		}
		c.Left = append(c.Left, WidgetDefinition{ID: "education", Kind: valueobject.WidgetKindEducation})
		c.Content["education"] = mustJSON(EducationContent{Title: "Education", Items: items})
	}

	about := strings.TrimSpace(info.Summary)
	if about == "" {
		about = resumeFallbackAbout
	}
	c.Right = append(c.Right, WidgetDefinition{ID: "description", Kind: valueobject.WidgetKindDescription})
	c.Content["description"] = mustJSON(DescriptionContent{Title: "About Me", Content: about})

	if len(r.Projects) > 0 {
		year := strconv.Itoa(now.Year())
		items := make([]ProjectItem, 0, len(r.Projects))
		for _, p := range r.Projects {
			tags := p.Technologies
			if tags == nil {
				tags = []string{}
			}
			items = append(items, ProjectItem{Name: p.Name, Description: p.Description, Year: year, Tags: tags, Link: p.Link})
		}
		c.Right = append(c.Right, WidgetDefinition{ID: "projects", Kind: valueobject.WidgetKindProjects})
		c.Content["projects"] = mustJSON(ProjectsContent{Title: "Featured Projects", Items: items})
	}

	if r.Skills != nil {
		skills := append(append([]string{}, r.Skills.Technical...), r.Skills.Soft...)
		if len(skills) > resumeMaxSkills {
			skills = skills[:resumeMaxSkills]
		}
		c.Right = append(c.Right, WidgetDefinition{ID: "services", Kind: valueobject.WidgetKindServices})
		c.Content["services"] = mustJSON(ServicesContent{Title: "Skills", Items: skills})
	}

	c.Right = append(c.Right, WidgetDefinition{ID: "meeting-scheduler", Kind: valueobject.WidgetKindMeetingScheduler})
	c.Content["meeting-scheduler"] = mustJSON(MeetingSchedulerContent{SelectedColor: int(resumeIdentityColor)})

	return c
}

func resumeHandle(info ResumePersonalInfo) string {
	if at := strings.Index(info.Email, "@"); at > 0 {
		return info.Email[:at]
	}
	return strings.Join(strings.Fields(strings.ToLower(info.Name)), "")
}
