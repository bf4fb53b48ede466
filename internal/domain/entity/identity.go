package entity

import "github.com/pathwai/pathwai-backend/internal/domain/valueobject"

// Identity - поля закреплённого блока профиля.
type Identity struct {
	Name          string                 `json:"name"`
	Handle        string                 `json:"handle"`
	AvatarURL     string                 `json:"avatarUrl,omitempty"`
	SelectedColor valueobject.ThemeColor `json:"selectedColor"`
	Title         string                 `json:"title,omitempty"`
	Subtitle      string                 `json:"subtitle,omitempty"`
	Bio           string                 `json:"bio,omitempty"`
	Email         string                 `json:"email,omitempty"`
	Location      string                 `json:"location,omitempty"`
	LinkedIn      string                 `json:"linkedin,omitempty"`
	Dribbble      string                 `json:"dribbble,omitempty"`
	Behance       string                 `json:"behance,omitempty"`
	Twitter       string                 `json:"twitter,omitempty"`
	Unsplash      string                 `json:"unsplash,omitempty"`
	Instagram     string                 `json:"instagram,omitempty"`
	GitHub        string                 `json:"github,omitempty"`
	Website       string                 `json:"website,omitempty"`
}

// DefaultIdentity возвращает заглушку, которую видит пользователь в пустом конструкторе.
func DefaultIdentity() Identity {
	return Identity{
		Name:          "your name",
		Handle:        "@you",
		SelectedColor: valueobject.ThemeRose,
		Title:         "is a digital product designer",
		Subtitle:      "currently designing at acme.",
	}
}

// IdentityPatch - частичное обновление профиля. nil означает «не менять».
type IdentityPatch struct {
	Name          *string `json:"name,omitempty"`
	Handle        *string `json:"handle,omitempty"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	SelectedColor *int    `json:"selectedColor,omitempty"`
	Title         *string `json:"title,omitempty"`
	Subtitle      *string `json:"subtitle,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Email         *string `json:"email,omitempty"`
	Location      *string `json:"location,omitempty"`
	LinkedIn      *string `json:"linkedin,omitempty"`
	Dribbble      *string `json:"dribbble,omitempty"`
	Behance       *string `json:"behance,omitempty"`
	Twitter       *string `json:"twitter,omitempty"`
	Unsplash      *string `json:"unsplash,omitempty"`
	Instagram     *string `json:"instagram,omitempty"`
	GitHub        *string `json:"github,omitempty"`
	Website       *string `json:"website,omitempty"`
}

// Apply выполняет поверхностное слияние патча.
func (i *Identity) Apply(p IdentityPatch) error {
	if p.SelectedColor != nil {
		color, err := valueobject.NewThemeColor(*p.SelectedColor)
		if err != nil {
			return err
		}
		i.SelectedColor = color
	}

	setIf(&i.Name, p.Name)
	setIf(&i.Handle, p.Handle)
	setIf(&i.AvatarURL, p.AvatarURL)
	setIf(&i.Title, p.Title)
	setIf(&i.Subtitle, p.Subtitle)
	setIf(&i.Bio, p.Bio)
	setIf(&i.Email, p.Email)
	setIf(&i.Location, p.Location)
	setIf(&i.LinkedIn, p.LinkedIn)
	setIf(&i.Dribbble, p.Dribbble)
	setIf(&i.Behance, p.Behance)
	setIf(&i.Twitter, p.Twitter)
	setIf(&i.Unsplash, p.Unsplash)
	setIf(&i.Instagram, p.Instagram)
	setIf(&i.GitHub, p.GitHub)
	setIf(&i.Website, p.Website)
	return nil
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
