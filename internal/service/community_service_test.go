package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/repository/common"
)

type mockCommunityRepo struct {
	mock.Mock
}

func (m *mockCommunityRepo) GetByCode(ctx context.Context, code string) (*models.Community, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *mockCommunityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *mockCommunityRepo) Join(ctx context.Context, communityID, userID uuid.UUID, profile models.MemberProfile) (repository.JoinResult, error) {
	args := m.Called(ctx, communityID, userID, profile)
	return args.Get(0).(repository.JoinResult), args.Error(1)
}

func (m *mockCommunityRepo) HasRole(ctx context.Context, communityID, userID uuid.UUID, role string) (bool, error) {
	args := m.Called(ctx, communityID, userID, role)
	return args.Bool(0), args.Error(1)
}

func (m *mockCommunityRepo) AssignRole(ctx context.Context, role *models.CommunityRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockCommunityRepo) GetRole(ctx context.Context, id uuid.UUID) (*models.CommunityRole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommunityRole), args.Error(1)
}

func (m *mockCommunityRepo) DeleteRole(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommunityRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Community, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Community), args.Error(1)
}

func TestCommunityService_Join(t *testing.T) {
	ctx := context.Background()
	community := &models.Community{ID: uuid.New(), Name: "Design Guild", Code: "design-guild"}

	tests := []struct {
		name      string
		result    repository.JoinResult
		wantMsg   string
		wantFirst bool
	}{
		{"first member", repository.JoinResult{IsFirstMember: true}, "Successfully joined community", true},
		{"regular member", repository.JoinResult{}, "Successfully joined community", false},
		{"already member", repository.JoinResult{AlreadyMember: true}, "Already a member", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockCommunityRepo)
			user := uuid.New()
			repo.On("GetByCode", ctx, "design-guild").Return(community, nil)
			repo.On("Join", ctx, community.ID, user, models.MemberProfile{}).Return(tt.result, nil)

			res, err := NewCommunityService(repo).Join(ctx, user, "  design-guild ", models.MemberProfile{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, tt.wantFirst, res.IsFirstMember)
			assert.Equal(t, community, res.Community)
			repo.AssertExpectations(t)
		})
	}
}

func TestCommunityService_JoinErrors(t *testing.T) {
	ctx := context.Background()

	repo := new(mockCommunityRepo)
	svc := NewCommunityService(repo)

	_, err := svc.Join(ctx, uuid.New(), "", models.MemberProfile{})
	assert.Equal(t, http.StatusBadRequest, appStatus(t, err))

	repo.On("GetByCode", ctx, "nope").Return(nil, repository.ErrCommunityNotFound)
	_, err = svc.Join(ctx, uuid.New(), "nope", models.MemberProfile{})
	assert.Equal(t, http.StatusNotFound, appStatus(t, err))

	repo.On("GetByCode", ctx, "broken").Return(nil, errors.New("connection reset"))
	_, err = svc.Join(ctx, uuid.New(), "broken", models.MemberProfile{})
	assert.Equal(t, http.StatusInternalServerError, appStatus(t, err))

	repo.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCommunityService_JoinNormalizesProfile(t *testing.T) {
	ctx := context.Background()
	community := &models.Community{ID: uuid.New(), Code: "guild"}
	user := uuid.New()
	repo := new(mockCommunityRepo)
	repo.On("GetByCode", ctx, "guild").Return(community, nil)
	repo.On("Join", ctx, community.ID, user, models.MemberProfile{Industry: "Retail", Skills: []string{"Sales"}}).
		Return(repository.JoinResult{}, nil)

	_, err := NewCommunityService(repo).Join(ctx, user, "guild", models.MemberProfile{
		Industry: "  Retail",
		Skills:   []string{"", " Sales "},
		Goals:    "   ",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCommunityService_AssignRole(t *testing.T) {
	ctx := context.Background()
	communityID, admin, target := uuid.New(), uuid.New(), uuid.New()
	valid := AssignRoleInput{TargetUserID: target, Role: models.ModeratorRole, Scope: "community", CommunityID: communityID}

	t.Run("validation", func(t *testing.T) {
		repo := new(mockCommunityRepo)
		svc := NewCommunityService(repo)
		past := time.Now().Add(-time.Hour)

		cases := map[string]AssignRoleInput{
			"missing fields": {Role: models.ModeratorRole},
			"cohort scope":   {TargetUserID: target, Role: models.ModeratorRole, Scope: "cohort", CommunityID: communityID},
			"unknown role":   {TargetUserID: target, Role: "owner", Scope: "community", CommunityID: communityID},
			"expired":        {TargetUserID: target, Role: models.ModeratorRole, Scope: "community", CommunityID: communityID, ExpiresAt: &past},
		}
		for name, in := range cases {
			_, err := svc.AssignRole(ctx, admin, in)
			assert.Equal(t, http.StatusBadRequest, appStatus(t, err), name)
		}
		repo.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything)
	})

	t.Run("not an admin", func(t *testing.T) {
		repo := new(mockCommunityRepo)
		repo.On("HasRole", ctx, communityID, admin, models.CommunityAdminRole).Return(false, nil)

		_, err := NewCommunityService(repo).AssignRole(ctx, admin, valid)
		assert.Equal(t, http.StatusForbidden, appStatus(t, err))
		repo.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything)
	})

	t.Run("assigned", func(t *testing.T) {
		repo := new(mockCommunityRepo)
		repo.On("HasRole", ctx, communityID, admin, models.CommunityAdminRole).Return(true, nil)
		repo.On("AssignRole", ctx, mock.MatchedBy(func(r *models.CommunityRole) bool {
			return r.UserID == target && r.Role == models.ModeratorRole && r.AssignedBy != nil && *r.AssignedBy == admin
		})).Return(nil)

		role, err := NewCommunityService(repo).AssignRole(ctx, admin, valid)
		require.NoError(t, err)
		assert.Equal(t, communityID, role.CommunityID)
		repo.AssertExpectations(t)
	})

	t.Run("already assigned", func(t *testing.T) {
		repo := new(mockCommunityRepo)
		repo.On("HasRole", ctx, communityID, admin, models.CommunityAdminRole).Return(true, nil)
		repo.On("AssignRole", ctx, mock.Anything).Return(common.ErrAlreadyExists)

		_, err := NewCommunityService(repo).AssignRole(ctx, admin, valid)
		assert.Equal(t, http.StatusConflict, appStatus(t, err))
	})
}

func TestCommunityService_RevokeRole(t *testing.T) {
	ctx := context.Background()
	communityID, admin := uuid.New(), uuid.New()
	roleID := uuid.New()
	role := &models.CommunityRole{ID: roleID, CommunityID: communityID, UserID: uuid.New(), Role: models.ModeratorRole}

	repo := new(mockCommunityRepo)
	svc := NewCommunityService(repo)

	assert.Equal(t, http.StatusBadRequest, appStatus(t, svc.RevokeRole(ctx, admin, roleID, "")))
	assert.Equal(t, http.StatusBadRequest, appStatus(t, svc.RevokeRole(ctx, admin, roleID, "cohort")))

	missing := uuid.New()
	repo.On("GetRole", ctx, missing).Return(nil, repository.ErrRoleNotFound)
	assert.Equal(t, http.StatusNotFound, appStatus(t, svc.RevokeRole(ctx, admin, missing, "community")))

	outsider := uuid.New()
	repo.On("GetRole", ctx, roleID).Return(role, nil)
	repo.On("HasRole", ctx, communityID, outsider, models.CommunityAdminRole).Return(false, nil)
	assert.Equal(t, http.StatusForbidden, appStatus(t, svc.RevokeRole(ctx, outsider, roleID, "community")))
	repo.AssertNotCalled(t, "DeleteRole", mock.Anything, mock.Anything)

	repo.On("HasRole", ctx, communityID, admin, models.CommunityAdminRole).Return(true, nil)
	repo.On("DeleteRole", ctx, roleID).Return(nil)
	require.NoError(t, svc.RevokeRole(ctx, admin, roleID, "community"))
	repo.AssertCalled(t, "DeleteRole", ctx, roleID)
}
