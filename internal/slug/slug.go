// Package slug строит адреса публичных портфолио.
package slug

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxLength = 64
	// NumberedAttempts - число кандидатов вида base-N перед случайным суффиксом.
	NumberedAttempts = 5
	suffixLength     = 5
	suffixAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

var genericNames = map[string]struct{}{
	"new portfolio":      {},
	"untitled":           {},
	"portfolio":          {},
	"my portfolio":       {},
	"untitled portfolio": {},
}

var adjectives = []string{
	"creative", "modern", "bold", "elegant", "minimal", "vibrant", "sleek", "dynamic", "polished", "innovative",
	"artistic", "professional", "clever", "unique", "bright", "fresh", "smart", "swift", "cosmic", "digital",
	"stellar", "vivid", "urban", "serene", "radiant", "quantum", "nexus", "prime", "apex", "fusion",
}

var nouns = []string{
	"studio", "portfolio", "showcase", "gallery", "space", "works", "labs", "design", "creative", "hub",
	"project", "collection", "archive", "profile", "realm", "vision", "craft", "canvas", "forge", "atelier",
	"workshop", "vault", "sphere", "nexus", "core", "base", "zone", "deck", "grid", "matrix",
}

// ToSlug приводит имя к виду a-z0-9 через дефис, не длиннее 64 символов.
func ToSlug(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLength {
		s = strings.TrimRight(s[:maxLength], "-")
	}
	return s
}

// IsGenericName сообщает, что имя слишком общее для адреса.
func IsGenericName(name string) bool {
	_, ok := genericNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Friendly возвращает адрес вида adjective-noun.
func Friendly() string {
	return adjectives[rand.Intn(len(adjectives))] + "-" + nouns[rand.Intn(len(nouns))]
}

// Base выбирает исходный адрес: из имени или дружелюбный для общих и пустых имён.
func Base(name string) string {
	if IsGenericName(name) {
		return Friendly()
	}
	if s := ToSlug(name); s != "" {
		return s
	}
	return Friendly()
}

// Candidates возвращает адреса для последовательных попыток вставки:
// base, base-1..base-N, base-<случайный суффикс>.
func Candidates(base string, numbered int) []string {
	if numbered < 0 {
		numbered = 0
	}
	out := make([]string, 0, numbered+2)
	out = append(out, base)
	for i := 1; i <= numbered; i++ {
		out = append(out, base+"-"+strconv.Itoa(i))
	}
	return append(out, base+"-"+randomSuffix())
}

func randomSuffix() string {
	b := make([]byte, suffixLength)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
