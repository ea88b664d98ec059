package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/model"
)

// FeedbackRepository defines feedback persistence operations.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Feedback, error)
	Exists(ctx context.Context, swapID, fromUserID uuid.UUID) (bool, error)
	ListByRater(ctx context.Context, userID uuid.UUID) ([]model.Feedback, error)
	ListByRatee(ctx context.Context, userID uuid.UUID) ([]model.Feedback, error)
	ListBySwap(ctx context.Context, swapID uuid.UUID) ([]model.Feedback, error)
	List(ctx context.Context, page Page) ([]model.Feedback, error)
	Count(ctx context.Context) (int64, error)
	Average(ctx context.Context) (float64, bool, error)
	AverageRatings(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySwap(ctx context.Context, swapID uuid.UUID) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return translateError(err, "feedback for this swap")
	}
	return nil
}

func (r *feedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&feedback).Error; err != nil {
		return nil, translateError(err, "feedback")
	}
	return &feedback, nil
}

// Exists reports whether fromUserID already rated swapID.
func (r *feedbackRepository) Exists(ctx context.Context, swapID, fromUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Where("swap_id = ? AND from_user_id = ?", swapID, fromUserID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "feedback")
	}
	return count > 0, nil
}

func (r *feedbackRepository) ListByRater(ctx context.Context, userID uuid.UUID) ([]model.Feedback, error) {
	return r.listWhere(ctx, "from_user_id = ?", userID)
}

func (r *feedbackRepository) ListByRatee(ctx context.Context, userID uuid.UUID) ([]model.Feedback, error) {
	return r.listWhere(ctx, "to_user_id = ?", userID)
}

func (r *feedbackRepository) ListBySwap(ctx context.Context, swapID uuid.UUID) ([]model.Feedback, error) {
	return r.listWhere(ctx, "swap_id = ?", swapID)
}

func (r *feedbackRepository) listWhere(ctx context.Context, query string, arg interface{}) ([]model.Feedback, error) {
	var items []model.Feedback
	if err := r.db.WithContext(ctx).Where(query, arg).Order(oldestFirst).Find(&items).Error; err != nil {
		return nil, translateError(err, "feedback")
	}
	return items, nil
}

func (r *feedbackRepository) List(ctx context.Context, page Page) ([]model.Feedback, error) {
	var items []model.Feedback
	if err := page.apply(r.db.WithContext(ctx)).Order(oldestFirst).Find(&items).Error; err != nil {
		return nil, translateError(err, "feedback")
	}
	return items, nil
}

func (r *feedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Feedback{}).Count(&count).Error; err != nil {
		return 0, translateError(err, "feedback")
	}
	return count, nil
}

// Average returns the mean of all ratings; ok is false when there are none.
func (r *feedbackRepository) Average(ctx context.Context) (avg float64, ok bool, err error) {
	var v sql.NullFloat64
	if err := r.db.WithContext(ctx).Model(&model.Feedback{}).Select("AVG(rating)").Row().Scan(&v); err != nil {
		return 0, false, translateError(err, "feedback")
	}
	return v.Float64, v.Valid, nil
}

// AverageRatings returns the mean rating received per user in one grouped query.
// Users without feedback are absent from the result.
func (r *feedbackRepository) AverageRatings(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	out := make(map[uuid.UUID]float64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ToUserID uuid.UUID
		Average  float64
	}
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Select("to_user_id, AVG(rating) AS average").
		Where("to_user_id IN ?", userIDs).
		Group("to_user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "feedback")
	}
	for _, row := range rows {
		out[row.ToUserID] = row.Average
	}
	return out, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Feedback{})
	if res.Error != nil {
		return translateError(res.Error, "feedback")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "feedback")
	}
	return nil
}

func (r *feedbackRepository) DeleteBySwap(ctx context.Context, swapID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("swap_id = ?", swapID).Delete(&model.Feedback{}).Error
	return translateError(err, "feedback")
}
