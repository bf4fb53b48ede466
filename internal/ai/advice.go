package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
)

const defaultCommunityName = "DMZ"

// AdviceSystemPrompt описывает ассистенту текущее состояние портфолио.
func AdviceSystemPrompt(a entity.AdviceContext) string {
	community := orDefault(a.CommunityName, defaultCommunityName)
	name := orDefault(a.Name, "User")
	skills := "None added"
	if len(a.Skills) > 0 {
		skills = strings.Join(a.Skills, ", ")
	}

	return fmt.Sprintf(`You are a helpful community admin assistant for %[1]s.

You're helping %[2]s build their portfolio. Here's their current info:
- Name: %[2]s
- Title: %[3]s
- Bio: %[4]s
- Handle: %[5]s
- Skills: %[6]s
- Layout: %[7]s

Your role:
- Give specific, actionable advice for improving their portfolio
- Suggest content for missing sections (bio, title, skills, projects)
- Suggest widgets to add or reorder based on the layout
- Recommend relevant skills or descriptions based on their current info
- Be encouraging and supportive
- Reference the community (%[1]s) when relevant

Keep responses concise (2-4 sentences unless asked for more detail). Be conversational and friendly.`,
		community, name, orDefault(a.Title, "Not set"), orDefault(a.Bio, "Not set"), orDefault(a.Handle, "Not set"), skills, orDefault(a.Layout, "Not set"))
}

// StreamPortfolioAdvice отвечает на реплики пользователя потоком текста.
func (c *Client) StreamPortfolioAdvice(ctx context.Context, advice entity.AdviceContext, history []entity.ChatMessage, onDelta func(chunk string) error) error {
	messages := make([]entity.ChatMessage, 0, len(history)+1)
	messages = append(messages, entity.ChatMessage{Role: "system", Content: AdviceSystemPrompt(advice)})
	messages = append(messages, history...)
	return c.streamChat(ctx, messages, onDelta)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
