package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/model"
)

// SkillRepository defines skill catalog persistence operations.
type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Skill, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Skill, error)
	FindByName(ctx context.Context, name string) (*model.Skill, error)
	List(ctx context.Context) ([]model.Skill, error)
	Match(ctx context.Context, substring string) ([]model.Skill, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new skill repository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *model.Skill) error {
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return translateError(err, "skill")
	}
	return nil
}

func (r *skillRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Skill, error) {
	var skill model.Skill
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&skill).Error; err != nil {
		return nil, translateError(err, "skill")
	}
	return &skill, nil
}

func (r *skillRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Skill, error) {
	out := make(map[uuid.UUID]model.Skill, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var skills []model.Skill
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&skills).Error; err != nil {
		return nil, translateError(err, "skill")
	}
	for _, s := range skills {
		out[s.ID] = s
	}
	return out, nil
}

// FindByName looks a skill up by name, ignoring case.
func (r *skillRepository) FindByName(ctx context.Context, name string) (*model.Skill, error) {
	var skill model.Skill
	if err := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&skill).Error; err != nil {
		return nil, translateError(err, "skill")
	}
	return &skill, nil
}

func (r *skillRepository) List(ctx context.Context) ([]model.Skill, error) {
	var skills []model.Skill
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, translateError(err, "skill")
	}
	return skills, nil
}

// Match returns skills whose name contains substring, ignoring case.
func (r *skillRepository) Match(ctx context.Context, substring string) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(substring)).
		Order("name ASC").
		Find(&skills).Error
	if err != nil {
		return nil, translateError(err, "skill")
	}
	return skills, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lower-cased LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
