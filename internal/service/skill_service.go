package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/cache"
	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

const (
	skillCatalogCacheKey = "skills:catalog"
	skillCatalogCacheTTL = 10 * time.Minute
)

// DefaultSkills is the canonical catalog installed by SeedDefaults.
var DefaultSkills = []string{
	"Python Programming", "JavaScript", "React", "Node.js", "FastAPI",
	"SQL", "Machine Learning", "Data Analysis", "Web Design", "Graphic Design",
	"Photography", "Cooking", "Guitar", "Spanish", "French",
	"German", "Yoga", "Fitness Training", "Writing", "Public Speaking",
}

// SkillService is the skill directory.
type SkillService interface {
	List(ctx context.Context) ([]model.Skill, error)
	Match(ctx context.Context, substring string) ([]model.Skill, error)
	Create(ctx context.Context, name string) (*model.Skill, error)
	SeedDefaults(ctx context.Context) (created int, err error)
}

type skillService struct {
	repos *repository.Repositories
	cache *cache.Client
}

// NewSkillService builds the skill directory over the catalog repository and cache.
func NewSkillService(repos *repository.Repositories, cache *cache.Client) SkillService {
	return &skillService{repos: repos, cache: cache}
}

// List returns the catalog ordered by name, served from cache when possible.
func (s *skillService) List(ctx context.Context) ([]model.Skill, error) {
	var cached []model.Skill
	if s.cache.GetJSON(ctx, skillCatalogCacheKey, &cached) {
		return cached, nil
	}

	skills, err := s.repos.Skills.List(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, skillCatalogCacheKey, skills, skillCatalogCacheTTL)
	return skills, nil
}

func (s *skillService) Match(ctx context.Context, substring string) ([]model.Skill, error) {
	return s.repos.Skills.Match(ctx, strings.TrimSpace(substring))
}

// Create adds a catalog entry. Names are unique ignoring case.
func (s *skillService) Create(ctx context.Context, name string) (*model.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidArgument("skill name is required")
	}

	_, err := s.repos.Skills.FindByName(ctx, name)
	if err == nil {
		return nil, apperrors.Conflict("skill already exists")
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	skill := &model.Skill{Name: name}
	if err := s.repos.Skills.Create(ctx, skill); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, skillCatalogCacheKey)
	return skill, nil
}

// SeedDefaults inserts the canonical skills that are not present yet.
func (s *skillService) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, name := range DefaultSkills {
		_, err := s.Create(ctx, name)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
		default:
			return created, err
		}
	}
	return created, nil
}
