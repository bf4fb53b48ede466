package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/repository/common"
)

var (
	// ErrCommunityNotFound возвращается, когда сообщество с кодом не найдено.
	ErrCommunityNotFound = errors.New("community not found")
	ErrRoleNotFound      = errors.New("community role not found")
	// ErrRoleTargetMissing - пользователя или сообщества для роли не существует.
	ErrRoleTargetMissing = errors.New("role target does not exist")
)

// JoinResult - итог вступления в сообщество.
type JoinResult struct {
	AlreadyMember bool
	IsFirstMember bool
}

// CommunityRepository работает с сообществами, участниками и ролями.
type CommunityRepository struct {
	db *sqlx.DB
}

func NewCommunityRepository(db *sqlx.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

const communityColumns = `id, name, code, description, created_at`

func (r *CommunityRepository) GetByCode(ctx context.Context, code string) (*models.Community, error) {
	return common.GetByField[models.Community](ctx, r.db, "communities", communityColumns, "code", code, ErrCommunityNotFound)
}

func (r *CommunityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	return common.GetByID[models.Community](ctx, r.db, "communities", communityColumns, id, ErrCommunityNotFound)
}

// Join добавляет пользователя в сообщество. Первый участник получает роль
// community_admin. Строка сообщества блокируется, чтобы двое не стали первыми одновременно.
// Непустая анкета уже состоящего участника перезаписывается.
func (r *CommunityRepository) Join(ctx context.Context, communityID, userID uuid.UUID, profile models.MemberProfile) (JoinResult, error) {
	metadata, err := json.Marshal(profile)
	if err != nil {
		return JoinResult{}, fmt.Errorf("community repository: encode profile %w", err)
	}

	var result JoinResult
	err = common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT id FROM communities WHERE id = $1 FOR UPDATE`, communityID); err != nil {
			return fmt.Errorf("community repository: lock %w", err)
		}

		var memberID uuid.UUID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO community_members (community_id, user_id, metadata) VALUES ($1, $2, $3)
			ON CONFLICT (community_id, user_id) DO NOTHING
			RETURNING id`, communityID, userID, metadata).Scan(&memberID)
		if errors.Is(err, sql.ErrNoRows) {
			result.AlreadyMember = true
			if profile.IsEmpty() {
				return nil
			}
			_, err = tx.ExecContext(ctx, `
				UPDATE community_members SET metadata = $3 WHERE community_id = $1 AND user_id = $2`,
				communityID, userID, metadata)
			if err != nil {
				return fmt.Errorf("community repository: update profile %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("community repository: insert member %w", err)
		}

		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM community_members WHERE community_id = $1`, communityID); err != nil {
			return fmt.Errorf("community repository: count members %w", err)
		}
		if count != 1 {
			return nil
		}

		result.IsFirstMember = true
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_community_roles (community_id, user_id, role, notes)
			VALUES ($1, $2, $3, 'Bootstrap first admin')
			ON CONFLICT DO NOTHING`, communityID, userID, models.CommunityAdminRole)
		if err != nil {
			return fmt.Errorf("community repository: assign admin %w", err)
		}
		return nil
	})
	return result, err
}

// HasRole проверяет действующую роль пользователя в сообществе.
func (r *CommunityRepository) HasRole(ctx context.Context, communityID, userID uuid.UUID, role string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM user_community_roles
			WHERE community_id = $1 AND user_id = $2 AND role = $3
			  AND (expires_at IS NULL OR expires_at > NOW())
		)`, communityID, userID, role)
	if err != nil {
		return false, fmt.Errorf("community repository: has role %w", err)
	}
	return exists, nil
}

const roleColumns = `id, community_id, user_id, role, notes, assigned_by, assigned_at, expires_at`

// AssignRole выдаёт роль. Истёкшая роль выдаётся заново, действующая
// возвращает common.ErrAlreadyExists.
func (r *CommunityRepository) AssignRole(ctx context.Context, role *models.CommunityRole) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO user_community_roles (community_id, user_id, role, notes, assigned_by, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (community_id, user_id, role) DO UPDATE
			SET notes = EXCLUDED.notes, assigned_by = EXCLUDED.assigned_by,
			    assigned_at = NOW(), expires_at = EXCLUDED.expires_at
			WHERE user_community_roles.expires_at IS NOT NULL AND user_community_roles.expires_at <= NOW()
		RETURNING id, assigned_at`,
		role.CommunityID, role.UserID, role.Role, role.Notes, role.AssignedBy, role.ExpiresAt,
	).Scan(&role.ID, &role.AssignedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrAlreadyExists
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrRoleTargetMissing
		}
		return fmt.Errorf("community repository: assign role %w", err)
	}
	return nil
}

func (r *CommunityRepository) GetRole(ctx context.Context, id uuid.UUID) (*models.CommunityRole, error) {
	return common.GetByID[models.CommunityRole](ctx, r.db, "user_community_roles", roleColumns, id, ErrRoleNotFound)
}

func (r *CommunityRepository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_community_roles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("community repository: delete role %w", err)
	}
	return nil
}

// ListForUser возвращает сообщества, в которых состоит пользователь.
func (r *CommunityRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Community, error) {
	items := []models.Community{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT c.id, c.name, c.code, c.description, c.created_at
		FROM communities c
		JOIN community_members m ON m.community_id = c.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("community repository: list for user %w", err)
	}
	return items, nil
}
