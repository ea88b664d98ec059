package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/model"
)

// SearchFilter selects public users for the directory search.
type SearchFilter struct {
	ExcludeUserID uuid.UUID
	Skill         string
	Direction     model.SkillDirection
	Availability  string
	Page          Page
}

// SearchRepository runs the user directory query.
type SearchRepository interface {
	Search(ctx context.Context, filter SearchFilter) ([]model.User, int64, error)
}

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new search repository.
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

// Search returns one page of matching users, oldest first, and the total match count.
func (r *searchRepository) Search(ctx context.Context, filter SearchFilter) ([]model.User, int64, error) {
	var total int64
	if err := r.query(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "user")
	}

	var users []model.User
	err := filter.Page.apply(r.query(ctx, filter)).
		Order("users.created_at ASC, users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, 0, translateError(err, "user")
	}
	return users, total, nil
}

func (r *searchRepository) query(ctx context.Context, filter SearchFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.User{}).
		Where("users.visibility = ?", model.VisibilityPublic).
		Where("users.id <> ?", filter.ExcludeUserID)

	if filter.Availability != "" {
		q = q.Where("users.availability = ?", filter.Availability)
	}
	if filter.Skill != "" {
		// A subquery keeps users matching several skills to a single row.
		sub := r.db.WithContext(ctx).Table("user_skills").
			Select("user_skills.user_id").
			Joins("JOIN skills ON skills.id = user_skills.skill_id").
			Where("LOWER(skills.name) LIKE ? ESCAPE '!'", containsPattern(filter.Skill))
		if filter.Direction != "" {
			sub = sub.Where("user_skills.direction = ?", filter.Direction)
		}
		q = q.Where("users.id IN (?)", sub)
	}
	return q
}
