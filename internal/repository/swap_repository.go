package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/model"
)

// SwapFilter narrows swap listings.
type SwapFilter struct {
	SenderID   *uuid.UUID
	ReceiverID *uuid.UUID
	Status     *model.SwapStatus
}

// SwapRepository defines swap request persistence operations.
type SwapRepository interface {
	Create(ctx context.Context, swap *model.SwapRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SwapRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SwapRequest, error)
	HasPending(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error)
	ResolvePending(ctx context.Context, id uuid.UUID, status model.SwapStatus, at time.Time) (bool, error)
	ListBySender(ctx context.Context, senderID uuid.UUID, status *model.SwapStatus) ([]model.SwapRequest, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, status *model.SwapStatus) ([]model.SwapRequest, error)
	List(ctx context.Context, filter SwapFilter, page Page) ([]model.SwapRequest, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[model.SwapStatus]int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type swapRepository struct {
	db *gorm.DB
}

// NewSwapRepository creates a new swap repository.
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

func (r *swapRepository) Create(ctx context.Context, swap *model.SwapRequest) error {
	if err := r.db.WithContext(ctx).Create(swap).Error; err != nil {
		return translateError(err, "pending swap request between these users")
	}
	return nil
}

func (r *swapRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&swap).Error; err != nil {
		return nil, translateError(err, "swap request")
	}
	return &swap, nil
}

// FindByIDForUpdate finds a swap request by ID with row-level lock for update.
func (r *swapRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&swap).Error; err != nil {
		return nil, translateError(err, "swap request")
	}
	return &swap, nil
}

// HasPending reports whether sender already has a pending request to receiver.
func (r *swapRepository) HasPending(ctx context.Context, senderID, receiverID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, model.SwapStatusPending).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, "swap request")
	}
	return count > 0, nil
}

// ResolvePending moves a pending request to a terminal status. It reports
// false when the request was no longer pending.
func (r *swapRepository) ResolvePending(ctx context.Context, id uuid.UUID, status model.SwapStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("id = ? AND status = ?", id, model.SwapStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"pending_pair": nil,
			"updated_at":   at,
		})
	if res.Error != nil {
		return false, translateError(res.Error, "swap request")
	}
	return res.RowsAffected == 1, nil
}

func (r *swapRepository) ListBySender(ctx context.Context, senderID uuid.UUID, status *model.SwapStatus) ([]model.SwapRequest, error) {
	return r.List(ctx, SwapFilter{SenderID: &senderID, Status: status}, Page{})
}

func (r *swapRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, status *model.SwapStatus) ([]model.SwapRequest, error) {
	return r.List(ctx, SwapFilter{ReceiverID: &receiverID, Status: status}, Page{})
}

// List returns swap requests oldest first.
func (r *swapRepository) List(ctx context.Context, filter SwapFilter, page Page) ([]model.SwapRequest, error) {
	q := r.db.WithContext(ctx)
	if filter.SenderID != nil {
		q = q.Where("sender_id = ?", *filter.SenderID)
	}
	if filter.ReceiverID != nil {
		q = q.Where("receiver_id = ?", *filter.ReceiverID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var swaps []model.SwapRequest
	if err := page.apply(q).Order(oldestFirst).Find(&swaps).Error; err != nil {
		return nil, translateError(err, "swap request")
	}
	return swaps, nil
}

func (r *swapRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.SwapRequest{}).Count(&count).Error; err != nil {
		return 0, translateError(err, "swap request")
	}
	return count, nil
}

func (r *swapRepository) CountByStatus(ctx context.Context) (map[model.SwapStatus]int64, error) {
	var rows []struct {
		Status model.SwapStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "swap request")
	}

	out := map[model.SwapStatus]int64{
		model.SwapStatusPending:   0,
		model.SwapStatusAccepted:  0,
		model.SwapStatusRejected:  0,
		model.SwapStatusCancelled: 0,
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *swapRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SwapRequest{})
	if res.Error != nil {
		return translateError(res.Error, "swap request")
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "swap request")
	}
	return nil
}
