package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"skillswap/internal/cache"
	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// Admin listing bounds.
const (
	DefaultAdminLimit = 100
	MaxAdminLimit     = 1000
)

// PlatformStats summarizes the marketplace.
type PlatformStats struct {
	TotalUsers     int64                      `json:"total_users"`
	TotalSwaps     int64                      `json:"total_swaps"`
	SwapsByStatus  map[model.SwapStatus]int64 `json:"swaps_by_status"`
	CompletedSwaps int64                      `json:"completed_swaps"`
	TotalFeedback  int64                      `json:"total_feedback"`
	AverageRating  decimal.Decimal            `json:"average_rating"`
}

// AdminService holds the moderation and reporting operations.
type AdminService interface {
	Stats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context, offset, limit int) ([]model.User, error)
	Ban(ctx context.Context, userID uuid.UUID) (*model.User, error)
	Unban(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ListSwaps(ctx context.Context, status string, offset, limit int) ([]SwapView, error)
	ListFeedback(ctx context.Context, offset, limit int) ([]FeedbackView, error)
	DeleteSwap(ctx context.Context, swapID uuid.UUID) error
	DeleteFeedback(ctx context.Context, feedbackID uuid.UUID) error
	CreateSkill(ctx context.Context, name string) (*model.Skill, error)
	SeedSkills(ctx context.Context) (int, error)
}

type adminService struct {
	repos  *repository.Repositories
	skills SkillService
	cache  *cache.Client
}

// NewAdminService creates the admin service.
func NewAdminService(repos *repository.Repositories, skills SkillService, cache *cache.Client) AdminService {
	return &adminService{repos: repos, skills: skills, cache: cache}
}

func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.repos.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	swaps, err := s.repos.Swaps.Count(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repos.Swaps.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := s.repos.Feedback.Count(ctx)
	if err != nil {
		return nil, err
	}
	avg, ok, err := s.repos.Feedback.Average(ctx)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		TotalUsers:     users,
		TotalSwaps:     swaps,
		SwapsByStatus:  byStatus,
		CompletedSwaps: byStatus[model.SwapStatusAccepted],
		TotalFeedback:  feedback,
		AverageRating:  decimal.Zero,
	}
	if ok {
		stats.AverageRating = decimal.NewFromFloat(avg).Round(2)
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, offset, limit int) ([]model.User, error) {
	page, err := adminPage(offset, limit)
	if err != nil {
		return nil, err
	}
	return s.repos.Users.List(ctx, page)
}

// Ban hides a user's profile. Admins cannot be banned.
func (s *adminService) Ban(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.setVisibility(ctx, userID, model.VisibilityPrivate, true)
}

// Unban makes a user's profile public again.
func (s *adminService) Unban(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.setVisibility(ctx, userID, model.VisibilityPublic, false)
}

func (s *adminService) setVisibility(ctx context.Context, userID uuid.UUID, v model.Visibility, refuseAdmin bool) (*model.User, error) {
	var user *model.User
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		var err error
		user, err = tx.Users.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if refuseAdmin && user.IsAdmin() {
			return apperrors.PreconditionFailed("cannot ban an admin user")
		}
		if err := tx.Users.Update(ctx, userID, map[string]interface{}{"visibility": v}); err != nil {
			return err
		}
		user.Visibility = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidateProfile(ctx, s.cache, userID)
	return user, nil
}

func (s *adminService) ListSwaps(ctx context.Context, status string, offset, limit int) ([]SwapView, error) {
	statusFilter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	page, err := adminPage(offset, limit)
	if err != nil {
		return nil, err
	}
	swaps, err := s.repos.Swaps.List(ctx, repository.SwapFilter{Status: statusFilter}, page)
	if err != nil {
		return nil, err
	}
	return buildSwapViews(ctx, s.repos, swaps)
}

func (s *adminService) ListFeedback(ctx context.Context, offset, limit int) ([]FeedbackView, error) {
	page, err := adminPage(offset, limit)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Feedback.List(ctx, page)
	if err != nil {
		return nil, err
	}
	return buildFeedbackViews(ctx, s.repos, items)
}

// DeleteSwap removes a swap request together with its feedback.
func (s *adminService) DeleteSwap(ctx context.Context, swapID uuid.UUID) error {
	return s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := tx.Swaps.FindByIDForUpdate(ctx, swapID); err != nil {
			return err
		}
		if err := tx.Feedback.DeleteBySwap(ctx, swapID); err != nil {
			return err
		}
		return tx.Swaps.Delete(ctx, swapID)
	})
}

func (s *adminService) DeleteFeedback(ctx context.Context, feedbackID uuid.UUID) error {
	return s.repos.Feedback.Delete(ctx, feedbackID)
}

func (s *adminService) CreateSkill(ctx context.Context, name string) (*model.Skill, error) {
	return s.skills.Create(ctx, name)
}

func (s *adminService) SeedSkills(ctx context.Context) (int, error) {
	return s.skills.SeedDefaults(ctx)
}

func adminPage(offset, limit int) (repository.Page, error) {
	if offset < 0 {
		return repository.Page{}, apperrors.InvalidArgument("skip must not be negative")
	}
	if limit == 0 {
		limit = DefaultAdminLimit
	}
	if limit < 1 || limit > MaxAdminLimit {
		return repository.Page{}, apperrors.InvalidArgument("limit must be between 1 and 1000")
	}
	return repository.Page{Offset: offset, Limit: limit}, nil
}
