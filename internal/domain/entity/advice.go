package entity

import (
	"encoding/json"
	"strings"

	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage - одна реплика диалога с ассистентом.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AdviceContext - то, что ассистент знает о портфолио пользователя.
type AdviceContext struct {
	Name          string
	Title         string
	Bio           string
	Handle        string
	Skills        []string
	CommunityName string
	// Layout - порядок блоков по колонкам, см. Composition.Summary.
	Layout string
}

// NewAdviceContext собирает контекст из профиля и блоков services композиции.
func NewAdviceContext(c *Composition, communityName string) AdviceContext {
	ctx := AdviceContext{CommunityName: communityName}
	if c == nil {
		return ctx
	}

	ctx.Name = c.Identity.Name
	ctx.Title = c.Identity.Title
	ctx.Bio = c.Identity.Bio
	ctx.Handle = c.Identity.Handle
	ctx.Layout = c.Summary()

	seen := map[string]struct{}{}
	for _, w := range c.AllWidgets() {
		if w.Kind != valueobject.WidgetKindServices {
			continue
		}
		var services ServicesContent
		if err := json.Unmarshal(c.ContentFor(w), &services); err != nil {
			continue
		}
		for _, s := range services.Items {
			s = strings.TrimSpace(s)
			if _, dup := seen[s]; s == "" || dup {
				continue
			}
			seen[s] = struct{}{}
			ctx.Skills = append(ctx.Skills, s)
		}
	}
	return ctx
}
