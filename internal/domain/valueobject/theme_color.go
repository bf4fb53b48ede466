package valueobject

import "github.com/pathwai/pathwai-backend/internal/pkg/apperror"

// ThemeColor - индекс цветовой схемы профиля (0..6).
type ThemeColor int

const (
	ThemeRose ThemeColor = iota
	ThemeBlue
	ThemePurple
	ThemeGreen
	ThemeOrange
	ThemeTeal
	ThemeNeutral
)

var themeColorNames = [...]string{"rose", "blue", "purple", "green", "orange", "teal", "neutral"}

func (c ThemeColor) IsValid() bool {
	return c >= ThemeRose && c <= ThemeNeutral
}

func (c ThemeColor) Name() string {
	if !c.IsValid() {
		return ""
	}
	return themeColorNames[c]
}

func NewThemeColor(index int) (ThemeColor, error) {
	c := ThemeColor(index)
	if !c.IsValid() {
		return 0, apperror.New(apperror.ErrCodeValidation, "theme color index must be between 0 and 6")
	}
	return c, nil
}
