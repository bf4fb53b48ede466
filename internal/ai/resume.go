package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
)

var (
	// ErrMalformedResume - модель вернула не JSON.
	ErrMalformedResume = errors.New("ai: resume response is not valid JSON")
	// ErrResumeWithoutName - в разобранном резюме нет имени.
	ErrResumeWithoutName = errors.New("ai: resume has no name")
)

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

const resumePrompt = `You are a resume parser. Extract structured information from the following resume and return ONLY valid JSON with this exact structure (no additional text or markdown):

{
  "personalInfo": {"name": "string", "email": "string", "phone": "string", "location": "string", "linkedin": "string", "github": "string", "website": "string", "summary": "string (2-3 sentence professional summary)"},
  "experience": [{"company": "string", "position": "string", "startDate": "string", "endDate": "string or Present", "description": "string", "achievements": ["string"]}],
  "education": [{"institution": "string", "degree": "string", "field": "string", "startDate": "string (year)", "endDate": "string (year)", "gpa": "string (optional)"}],
  "skills": {"technical": ["string"], "soft": ["string"], "languages": ["string"]},
  "projects": [{"name": "string", "description": "string", "technologies": ["string"], "link": "string (optional)"}],
  "certifications": ["string"],
  "awards": ["string"]
}

Resume text:
%s

Return only the JSON object, no markdown formatting or additional text.`

// ParseResume отправляет текст резюме модели и разбирает ответ.
func (c *Client) ParseResume(ctx context.Context, text string) (*entity.ParsedResume, error) {
	raw, err := c.chatCompletion(ctx, []entity.ChatMessage{
		{Role: "user", Content: fmt.Sprintf(resumePrompt, text)},
	}, 2048, 0.1)
	if err != nil {
		return nil, err
	}
	return DecodeResume(raw)
}

// DecodeResume разбирает ответ модели. Обёртка ```json ... ``` снимается.
func DecodeResume(raw string) (*entity.ParsedResume, error) {
	var resume entity.ParsedResume
	if err := json.Unmarshal([]byte(stripFences(raw)), &resume); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResume, err)
	}
	if strings.TrimSpace(resume.PersonalInfo.Name) == "" {
		return nil, ErrResumeWithoutName
	}
	return &resume, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
