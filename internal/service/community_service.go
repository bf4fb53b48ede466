package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/repository/common"
	"github.com/pathwai/pathwai-backend/internal/validation"
)

// CommunityStore - операции с сообществами, нужные сервису.
type CommunityStore interface {
	GetByCode(ctx context.Context, code string) (*models.Community, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error)
	Join(ctx context.Context, communityID, userID uuid.UUID, profile models.MemberProfile) (repository.JoinResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Community, error)
	HasRole(ctx context.Context, communityID, userID uuid.UUID, role string) (bool, error)
	AssignRole(ctx context.Context, role *models.CommunityRole) error
	GetRole(ctx context.Context, id uuid.UUID) (*models.CommunityRole, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

// AssignRoleInput - выдача роли участнику сообщества.
type AssignRoleInput struct {
	TargetUserID uuid.UUID
	Role         string
	Scope        string
	CommunityID  uuid.UUID
	ExpiresAt    *time.Time
}

// JoinCommunityResult - ответ на вступление в сообщество.
type JoinCommunityResult struct {
	Message       string            `json:"message"`
	Community     *models.Community `json:"community"`
	IsFirstMember bool              `json:"isFirstMember"`
}

type CommunityService struct {
	repo CommunityStore
}

func NewCommunityService(repo CommunityStore) *CommunityService {
	return &CommunityService{repo: repo}
}

// Join добавляет пользователя в сообщество по коду приглашения и сохраняет анкету участника.
func (s *CommunityService) Join(ctx context.Context, userID uuid.UUID, code string, profile models.MemberProfile) (*JoinCommunityResult, error) {
	code = strings.TrimSpace(code)
	if err := validation.ValidateCommunityCode(code); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	community, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCommunityNotFound) {
			return nil, apperror.ErrCommunityNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch community")
	}

	res, err := s.repo.Join(ctx, community.ID, userID, normalizeProfile(profile))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to join community")
	}

	if res.AlreadyMember {
		return &JoinCommunityResult{Message: "Already a member", Community: community}, nil
	}

	logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"community_id": community.ID,
		"first_member": res.IsFirstMember,
	}).Info("user joined community")

	return &JoinCommunityResult{
		Message:       "Successfully joined community",
		Community:     community,
		IsFirstMember: res.IsFirstMember,
	}, nil
}

// Get возвращает сообщество по id.
func (s *CommunityService) Get(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommunityNotFound) {
			return nil, apperror.ErrCommunityNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch community")
	}
	return c, nil
}

func (s *CommunityService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Community, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch communities")
	}
	return items, nil
}

// AssignRole выдаёт роль от имени администратора сообщества.
func (s *CommunityService) AssignRole(ctx context.Context, actorID uuid.UUID, in AssignRoleInput) (*models.CommunityRole, error) {
	if in.TargetUserID == uuid.Nil || in.Role == "" || in.Scope == "" || in.CommunityID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "Missing required fields")
	}
	if in.Scope != models.RoleScopeCommunity {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "Invalid scope")
	}
	if !models.IsCommunityRole(in.Role) {
		return nil, apperror.New(apperror.ErrCodeValidation, "Unknown role: "+in.Role)
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "expiresAt must be in the future")
	}
	if err := s.requireAdmin(ctx, in.CommunityID, actorID); err != nil {
		return nil, err
	}

	role := &models.CommunityRole{
		CommunityID: in.CommunityID,
		UserID:      in.TargetUserID,
		Role:        in.Role,
		AssignedBy:  &actorID,
		ExpiresAt:   in.ExpiresAt,
	}
	if err := s.repo.AssignRole(ctx, role); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, apperror.New(apperror.ErrCodeConflict, "Role already assigned")
		case errors.Is(err, repository.ErrRoleTargetMissing):
			return nil, apperror.New(apperror.ErrCodeNotFound, "User not found")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to assign role")
	}

	logger.WithFields(logrus.Fields{
		"actor_id":     actorID,
		"user_id":      in.TargetUserID,
		"community_id": in.CommunityID,
		"role":         in.Role,
	}).Info("community role assigned")
	return role, nil
}

// RevokeRole отзывает роль. Отзывать может только администратор того же сообщества.
func (s *CommunityService) RevokeRole(ctx context.Context, actorID, roleID uuid.UUID, scope string) error {
	if roleID == uuid.Nil || scope == "" {
		return apperror.New(apperror.ErrCodeBadRequest, "Missing roleId or scope")
	}
	if scope != models.RoleScopeCommunity {
		return apperror.New(apperror.ErrCodeBadRequest, "Invalid scope")
	}

	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "Role not found")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch role")
	}
	if err := s.requireAdmin(ctx, role.CommunityID, actorID); err != nil {
		return err
	}
	if err := s.repo.DeleteRole(ctx, roleID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to revoke role")
	}

	logger.WithFields(logrus.Fields{
		"actor_id":     actorID,
		"role_id":      roleID,
		"community_id": role.CommunityID,
	}).Info("community role revoked")
	return nil
}

func (s *CommunityService) requireAdmin(ctx context.Context, communityID, userID uuid.UUID) error {
	ok, err := s.repo.HasRole(ctx, communityID, userID, models.CommunityAdminRole)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to check permissions")
	}
	if !ok {
		return apperror.New(apperror.ErrCodeForbidden, "Forbidden - Community admin access required")
	}
	return nil
}

// normalizeProfile убирает пробелы и пустые навыки.
func normalizeProfile(p models.MemberProfile) models.MemberProfile {
	out := models.MemberProfile{
		Industry: strings.TrimSpace(p.Industry),
		Goals:    strings.TrimSpace(p.Goals),
	}
	for _, skill := range p.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			out.Skills = append(out.Skills, skill)
		}
	}
	return out
}

// CommunityName нужен чату, которому достаточно названия.
func (s *CommunityService) CommunityName(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}
