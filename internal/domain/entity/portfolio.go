package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

const (
	// MainPageKey - ключ страницы, создаваемой вместе с портфолио.
	MainPageKey   = "main"
	mainPageTitle = "Main"
	mainPageRoute = "/"

	maxPortfolioNameLength = 120
)

// Portfolio - строка таблицы portfolios.
type Portfolio struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CommunityID *uuid.UUID
	Name        string
	Slug        string
	Description *string
	ThemeID     *uuid.UUID
	IsPublic    bool
	IsDemo      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPortfolio проверяет имя и создаёт непубличное портфолио без slug.
func NewPortfolio(userID uuid.UUID, name string, description *string, themeID, communityID *uuid.UUID) (*Portfolio, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "Portfolio name is required")
	}
	if len([]rune(name)) > maxPortfolioNameLength {
		return nil, apperror.New(apperror.ErrCodeValidation, "Name is too long")
	}

	now := time.Now()
	return &Portfolio{
		ID:          uuid.New(),
		UserID:      userID,
		CommunityID: communityID,
		Name:        name,
		Description: description,
		ThemeID:     themeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Portfolio) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// Page - страница портфолио.
type Page struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	Key         string
	Title       string
	Route       string
	CreatedAt   time.Time
}

// NewMainPage создаёт главную страницу портфолио.
func NewMainPage(portfolioID uuid.UUID) *Page {
	return &Page{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Key:         MainPageKey,
		Title:       mainPageTitle,
		Route:       mainPageRoute,
		CreatedAt:   time.Now(),
	}
}

// WidgetInstance - сохранённый блок страницы.
type WidgetInstance struct {
	ID           uuid.UUID
	PageID       uuid.UUID
	WidgetTypeID uuid.UUID
	Props        json.RawMessage
	CreatedAt    time.Time
}

// PageLayout - сохранённая раскладка страницы.
type PageLayout struct {
	ID        uuid.UUID
	PageID    uuid.UUID
	Layout    Layout
	UpdatedAt time.Time
}
