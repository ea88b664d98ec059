package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
)

// UserSkillRepository manages the offered/wanted edges between users and skills.
type UserSkillRepository interface {
	Add(ctx context.Context, edge *model.UserSkill) error
	AddMany(ctx context.Context, edges []model.UserSkill) error
	Remove(ctx context.Context, userID, skillID uuid.UUID, direction model.SkillDirection) error
	RemoveDirection(ctx context.Context, userID uuid.UUID, direction model.SkillDirection) error
	Has(ctx context.Context, userID, skillID uuid.UUID, direction model.SkillDirection) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkillName, error)
	SkillNamesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]model.UserSkillName, error)
}

type userSkillRepository struct {
	db *gorm.DB
}

// NewUserSkillRepository creates a new user skill repository.
func NewUserSkillRepository(db *gorm.DB) UserSkillRepository {
	return &userSkillRepository{db: db}
}

func (r *userSkillRepository) Add(ctx context.Context, edge *model.UserSkill) error {
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return translateError(err, "user skill")
	}
	return nil
}

func (r *userSkillRepository) AddMany(ctx context.Context, edges []model.UserSkill) error {
	if len(edges) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&edges).Error; err != nil {
		return translateError(err, "user skill")
	}
	return nil
}

func (r *userSkillRepository) Remove(ctx context.Context, userID, skillID uuid.UUID, direction model.SkillDirection) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ? AND direction = ?", userID, skillID, direction).
		Delete(&model.UserSkill{})
	if res.Error != nil {
		return translateError(res.Error, "user skill")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user skill")
	}
	return nil
}

// RemoveDirection deletes every edge of the user in the given direction.
func (r *userSkillRepository) RemoveDirection(ctx context.Context, userID uuid.UUID, direction model.SkillDirection) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND direction = ?", userID, direction).
		Delete(&model.UserSkill{}).Error
	return translateError(err, "user skill")
}

func (r *userSkillRepository) Has(ctx context.Context, userID, skillID uuid.UUID, direction model.SkillDirection) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserSkill{}).
		Where("user_id = ? AND skill_id = ? AND direction = ?", userID, skillID, direction).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "user skill")
	}
	return count > 0, nil
}

func (r *userSkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkillName, error) {
	return r.SkillNamesForUsers(ctx, []uuid.UUID{userID})
}

// SkillNamesForUsers loads the skill edges of several users in one query,
// ordered by skill name.
func (r *userSkillRepository) SkillNamesForUsers(ctx context.Context, userIDs []uuid.UUID) ([]model.UserSkillName, error) {
	var rows []model.UserSkillName
	if len(userIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("user_skills").
		Select("user_skills.user_id, user_skills.skill_id, user_skills.direction, skills.name").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id IN ?", userIDs).
		Order("skills.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "user skill")
	}
	return rows, nil
}
