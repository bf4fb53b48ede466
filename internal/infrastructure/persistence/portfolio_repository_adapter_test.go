package persistence

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueConstraint(t *testing.T) {
	slugErr := &pq.Error{Code: "23505", Constraint: slugConstraint}
	constraint, ok := uniqueConstraint(fmt.Errorf("exec: %w", slugErr))
	assert.True(t, ok)
	assert.Equal(t, slugConstraint, constraint)

	_, ok = uniqueConstraint(&pq.Error{Code: "23503", Constraint: "portfolios_user_id_fkey"})
	assert.False(t, ok, "foreign key violation is not a unique violation")

	_, ok = uniqueConstraint(errors.New("connection reset"))
	assert.False(t, ok)
}

func TestMissingReference(t *testing.T) {
	themeErr := missingReference(fmt.Errorf("exec: %w", &pq.Error{Code: "23503", Constraint: themeFKConstraint}))
	require.NotNil(t, themeErr)
	assert.Equal(t, http.StatusBadRequest, themeErr.HTTPStatus)
	assert.Equal(t, "Theme not found", themeErr.Message)

	communityErr := missingReference(&pq.Error{Code: "23503", Constraint: communityFKConstraint})
	require.NotNil(t, communityErr)
	assert.Equal(t, "Community not found", communityErr.Message)

	assert.Nil(t, missingReference(&pq.Error{Code: "23503", Constraint: "portfolios_user_id_fkey"}))
	assert.Nil(t, missingReference(&pq.Error{Code: "23505", Constraint: slugConstraint}))
	assert.Nil(t, missingReference(errors.New("connection reset")))
}
