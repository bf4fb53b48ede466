package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxFullNameLength      = 100
	MaxDescriptionLength   = 2000
	MinTemplateNameLength  = 2
	MaxTemplateNameLength  = 120
	MinCommunityCodeLength = 3
	MaxCommunityCodeLength = 32
	MinResumeTextLength    = 50
	MaxResumeTextLength    = 50000
	MaxLinkLength          = 500
	MaxChatMessageLength   = 4000
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	communityCodeRe  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("invalid email format")
	}
	if len(local) == 0 || len(local) > 64 || !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("invalid email format")
	}
	if len(domain) > 255 || !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

func ValidateFullName(name string) error {
	return ValidateLength("full name", strings.TrimSpace(name), 0, MaxFullNameLength)
}

func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}
	return ValidateLength("description", *description, 0, MaxDescriptionLength)
}

// ValidateTemplateName проверяет название шаблона сообщества.
func ValidateTemplateName(name string) error {
	return ValidateLength("template name", strings.TrimSpace(name), MinTemplateNameLength, MaxTemplateNameLength)
}

// ValidateCommunityCode проверяет код приглашения в сообщество.
func ValidateCommunityCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("community code is required")
	}
	if err := ValidateLength("community code", code, MinCommunityCodeLength, MaxCommunityCodeLength); err != nil {
		return err
	}
	if !communityCodeRe.MatchString(code) {
		return fmt.Errorf("community code may contain only letters, digits, '-' and '_'")
	}
	return nil
}

// ValidateResumeText проверяет текст резюме перед отправкой в модель.
func ValidateResumeText(text string) error {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinResumeTextLength {
		return fmt.Errorf("resume text is too short")
	}
	return ValidateLength("resume text", text, 0, MaxResumeTextLength)
}

func ValidateChatMessage(message string) error {
	if err := ValidateNonEmpty("message", message); err != nil {
		return err
	}
	return ValidateLength("message", message, 0, MaxChatMessageLength)
}

// ValidateLink проверяет необязательную http(s) ссылку.
func ValidateLink(fieldName string, link *string) error {
	if link == nil || strings.TrimSpace(*link) == "" {
		return nil
	}
	linkStr := strings.TrimSpace(*link)

	if err := ValidateLength(fieldName, linkStr, 0, MaxLinkLength); err != nil {
		return err
	}

	parsed, err := url.Parse(linkStr)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL", fieldName)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must start with http:// or https://", fieldName)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must contain a host", fieldName)
	}
	return nil
}
