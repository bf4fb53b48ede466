package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("Ada.Lovelace+cv@example.com"))

	for _, bad := range []string{"", "no-at-sign", "a@b", "a@@b.com", "a b@example.com"} {
		assert.Error(t, ValidateEmail(bad), bad)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("portfolio42"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword(strings.Repeat("a1", 40)))
}

func TestValidateCommunityCode(t *testing.T) {
	assert.NoError(t, ValidateCommunityCode("ai-ml_2025"))
	assert.Error(t, ValidateCommunityCode(" "))
	assert.Error(t, ValidateCommunityCode("ab"))
	assert.Error(t, ValidateCommunityCode("has space"))
}

func TestValidateResumeText(t *testing.T) {
	assert.Error(t, ValidateResumeText("Jane Doe, designer"))
	assert.NoError(t, ValidateResumeText(strings.Repeat("experience ", 10)))
}

func TestValidateLink(t *testing.T) {
	ok := "https://calendly.com/jane"
	ftp := "ftp://example.com"
	empty := "  "

	assert.NoError(t, ValidateLink("link", nil))
	assert.NoError(t, ValidateLink("link", &empty))
	assert.NoError(t, ValidateLink("link", &ok))
	assert.Error(t, ValidateLink("link", &ftp))
}
