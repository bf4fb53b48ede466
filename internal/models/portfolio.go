package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PublicPortfolio - строка представления public_portfolio_by_slug.
type PublicPortfolio struct {
	PortfolioID uuid.UUID  `db:"portfolio_id" json:"portfolio_id"`
	Slug        string     `db:"slug" json:"slug"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	CommunityID *uuid.UUID `db:"community_id" json:"community_id"`
	ThemeID     *uuid.UUID `db:"theme_id" json:"theme_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// PortfolioRecord - строка таблицы portfolios для чтения.
type PortfolioRecord struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	CommunityID *uuid.UUID `db:"community_id" json:"community_id"`
	Name        string     `db:"name" json:"name"`
	Slug        string     `db:"slug" json:"slug"`
	Description *string    `db:"description" json:"description"`
	ThemeID     *uuid.UUID `db:"theme_id" json:"theme_id"`
	IsPublic    bool       `db:"is_public" json:"is_public"`
	IsDemo      bool       `db:"is_demo" json:"is_demo"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// PageRecord - страница портфолио вместе с раскладкой и блоками.
type PageRecord struct {
	ID              uuid.UUID              `db:"id" json:"id"`
	PortfolioID     uuid.UUID              `db:"portfolio_id" json:"portfolio_id"`
	Key             string                 `db:"key" json:"key"`
	Title           string                 `db:"title" json:"title"`
	Route           string                 `db:"route" json:"route"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
	Layouts         []PageLayoutRecord     `db:"-" json:"page_layouts"`
	WidgetInstances []WidgetInstanceRecord `db:"-" json:"widget_instances"`
}

type PageLayoutRecord struct {
	ID     uuid.UUID       `db:"id" json:"id"`
	PageID uuid.UUID       `db:"page_id" json:"-"`
	Layout json.RawMessage `db:"layout" json:"layout"`
}

// WidgetInstanceRecord - блок страницы с описанием его типа.
type WidgetInstanceRecord struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PageID       uuid.UUID       `db:"page_id" json:"page_id"`
	WidgetTypeID uuid.UUID       `db:"widget_type_id" json:"widget_type_id"`
	Props        json.RawMessage `db:"props" json:"props"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	WidgetType   WidgetTypeRef   `db:"widget_type" json:"widget_types"`
}

// WidgetTypeRef - краткое описание типа блока.
type WidgetTypeRef struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Key        string          `db:"key" json:"key"`
	Name       string          `db:"name" json:"name"`
	Schema     json.RawMessage `db:"schema" json:"schema"`
	RenderHint *string         `db:"render_hint" json:"render_hint"`
}

// PublicPortfolioDetail - портфолио с темой и страницами.
type PublicPortfolioDetail struct {
	PortfolioRecord
	Theme *Theme       `json:"themes"`
	Pages []PageRecord `json:"pages"`
}
