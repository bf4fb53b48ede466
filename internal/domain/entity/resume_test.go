package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

func TestParsedResume_Composition(t *testing.T) {
	r := &ParsedResume{
		PersonalInfo: ResumePersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com", Summary: "Analyst."},
		Experience:   []ResumeExperience{{Company: "Engine Co", Position: "Programmer"}},
		Education:    []ResumeEducation{{Institution: "Home", Degree: "B.Sc.", Field: "Mathematics", StartDate: "1830", EndDate: "1833", GPA: "4.0"}},
		Skills:       &ResumeSkills{Technical: []string{"a", "b", "c", "d", "e"}, Soft: []string{"f", "g", "h", "i"}},
		Projects:     []ResumeProject{{Name: "Notes", Description: "Note G"}},
	}

	c := r.Composition(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, c.Validate())

	assert.Equal(t, "ada", c.Identity.Handle)
	assert.Equal(t, "Programmer", c.Identity.Title)
	assert.Equal(t, valueobject.ThemeTeal, c.Identity.SelectedColor)
	assert.Equal(t, "Left: identity, education | Right: description, projects, services, meeting-scheduler", c.Summary())

	var edu EducationContent
	require.NoError(t, json.Unmarshal(c.Content["education"], &edu))
	assert.Equal(t, "B.Sc. in Mathematics", edu.Items[0].Degree)
	assert.Equal(t, "1830-1833", edu.Items[0].Year)
	assert.Equal(t, "GPA: 4.0", edu.Items[0].Description)

	var services ServicesContent
	require.NoError(t, json.Unmarshal(c.Content["services"], &services))
	assert.Equal(t, "Skills", services.Title)
	assert.Len(t, services.Items, 8)

	var projects ProjectsContent
	require.NoError(t, json.Unmarshal(c.Content["projects"], &projects))
	assert.Equal(t, "2025", projects.Items[0].Year)
}

func TestParsedResume_Fallbacks(t *testing.T) {
	r := &ParsedResume{PersonalInfo: ResumePersonalInfo{Name: "Grace Brewster Hopper"}}

	assert.Equal(t, "Grace Brewster Hopper's professional portfolio", r.PortfolioDescription())

	c := r.Composition(time.Now())
	assert.Equal(t, "gracebrewsterhopper", c.Identity.Handle)
	assert.Equal(t, "Professional", c.Identity.Title)
	assert.Equal(t, "Left: identity | Right: description, meeting-scheduler", c.Summary())

	var about DescriptionContent
	require.NoError(t, json.Unmarshal(c.Content["description"], &about))
	assert.Equal(t, "Professional with diverse experience and skills.", about.Content)

	empty := &ParsedResume{}
	assert.Equal(t, "My Portfolio", empty.PortfolioName())
}
