package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/metrics"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// Swap listing directions.
const (
	SwapsSent     = "sent"
	SwapsReceived = "received"
)

// CreateSwapInput describes a new swap proposal.
type CreateSwapInput struct {
	ReceiverID      uuid.UUID
	SenderSkillID   uuid.UUID
	ReceiverSkillID uuid.UUID
	Message         string
}

// SwapView is a swap request with its participants and skills resolved.
type SwapView struct {
	ID            uuid.UUID        `json:"id"`
	SenderID      uuid.UUID        `json:"sender_id"`
	ReceiverID    uuid.UUID        `json:"receiver_id"`
	Sender        model.PublicUser `json:"sender"`
	Receiver      model.PublicUser `json:"receiver"`
	SenderSkill   model.SkillRef   `json:"sender_skill"`
	ReceiverSkill model.SkillRef   `json:"receiver_skill"`
	Message       string           `json:"message,omitempty"`
	Status        model.SwapStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// SwapService runs the swap request lifecycle.
type SwapService interface {
	Create(ctx context.Context, senderID uuid.UUID, in CreateSwapInput) (*SwapView, error)
	Transition(ctx context.Context, requestID, actorID uuid.UUID, status model.SwapStatus) (*SwapView, error)
	Cancel(ctx context.Context, requestID, actorID uuid.UUID) (*SwapView, error)
	Get(ctx context.Context, requestID, actorID uuid.UUID) (*SwapView, error)
	ListMine(ctx context.Context, actorID uuid.UUID, direction, status string) ([]SwapView, error)
}

type swapService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewSwapService creates a new swap service.
func NewSwapService(repos *repository.Repositories) SwapService {
	return &swapService{repos: repos, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Create proposes a swap. The sender row is locked for the whole check-then-insert
// so concurrent proposals by one sender serialize.
func (s *swapService) Create(ctx context.Context, senderID uuid.UUID, in CreateSwapInput) (*SwapView, error) {
	var swap *model.SwapRequest
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := tx.Users.FindByIDForUpdate(ctx, senderID); err != nil {
			return err
		}
		if _, err := tx.Users.FindByID(ctx, in.ReceiverID); err != nil {
			return err
		}
		if senderID == in.ReceiverID {
			return apperrors.InvalidArgument("cannot send a swap request to yourself")
		}

		offers, err := tx.UserSkills.Has(ctx, senderID, in.SenderSkillID, model.SkillOffered)
		if err != nil {
			return err
		}
		if !offers {
			return apperrors.PreconditionFailed("you do not offer the selected skill")
		}
		offers, err = tx.UserSkills.Has(ctx, in.ReceiverID, in.ReceiverSkillID, model.SkillOffered)
		if err != nil {
			return err
		}
		if !offers {
			return apperrors.PreconditionFailed("receiver does not offer the requested skill")
		}

		pending, err := tx.Swaps.HasPending(ctx, senderID, in.ReceiverID)
		if err != nil {
			return err
		}
		if pending {
			return apperrors.Conflict("a pending swap request to this user already exists")
		}

		now := s.now()
		swap = &model.SwapRequest{
			SenderID:        senderID,
			ReceiverID:      in.ReceiverID,
			SenderSkillID:   in.SenderSkillID,
			ReceiverSkillID: in.ReceiverSkillID,
			Message:         strings.TrimSpace(in.Message),
			Status:          model.SwapStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return tx.Swaps.Create(ctx, swap)
	})
	if err != nil {
		return nil, err
	}

	metrics.SwapTransitions.WithLabelValues(string(model.SwapStatusPending)).Inc()
	return s.view(ctx, swap)
}

// Transition lets the receiver accept or reject a pending request.
func (s *swapService) Transition(ctx context.Context, requestID, actorID uuid.UUID, status model.SwapStatus) (*SwapView, error) {
	return s.resolve(ctx, requestID, func(swap *model.SwapRequest) error {
		if status != model.SwapStatusAccepted && status != model.SwapStatusRejected {
			return apperrors.InvalidArgument("status must be accepted or rejected")
		}
		if swap.ReceiverID != actorID {
			return apperrors.Forbidden("only the receiver can respond to this request")
		}
		return nil
	}, status)
}

// Cancel lets the sender withdraw a pending request.
func (s *swapService) Cancel(ctx context.Context, requestID, actorID uuid.UUID) (*SwapView, error) {
	return s.resolve(ctx, requestID, func(swap *model.SwapRequest) error {
		if swap.SenderID != actorID {
			return apperrors.Forbidden("only the sender can cancel this request")
		}
		return nil
	}, model.SwapStatusCancelled)
}

// resolve moves a locked pending request to status after authorize accepts the actor.
func (s *swapService) resolve(ctx context.Context, requestID uuid.UUID, authorize func(*model.SwapRequest) error, status model.SwapStatus) (*SwapView, error) {
	var swap *model.SwapRequest
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		var err error
		swap, err = tx.Swaps.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if err := authorize(swap); err != nil {
			return err
		}
		if swap.Status != model.SwapStatusPending {
			return apperrors.PreconditionFailed("swap request is not pending")
		}

		now := s.now()
		updated, err := tx.Swaps.ResolvePending(ctx, swap.ID, status, now)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.PreconditionFailed("swap request is not pending")
		}
		swap.Status = status
		swap.PendingPair = nil
		swap.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SwapTransitions.WithLabelValues(string(status)).Inc()
	return s.view(ctx, swap)
}

// Get returns a request visible to one of its participants.
func (s *swapService) Get(ctx context.Context, requestID, actorID uuid.UUID) (*SwapView, error) {
	swap, err := s.repos.Swaps.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(actorID) {
		return nil, apperrors.Forbidden("not a participant of this swap request")
	}
	return s.view(ctx, swap)
}

// ListMine returns the actor's sent or received requests, oldest first.
func (s *swapService) ListMine(ctx context.Context, actorID uuid.UUID, direction, status string) ([]SwapView, error) {
	statusFilter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	var swaps []model.SwapRequest
	switch direction {
	case SwapsSent:
		swaps, err = s.repos.Swaps.ListBySender(ctx, actorID, statusFilter)
	case SwapsReceived:
		swaps, err = s.repos.Swaps.ListByReceiver(ctx, actorID, statusFilter)
	default:
		return nil, apperrors.InvalidArgument("direction must be sent or received")
	}
	if err != nil {
		return nil, err
	}
	return s.views(ctx, swaps)
}

// parseStatusFilter validates an optional status query value.
func parseStatusFilter(status string) (*model.SwapStatus, error) {
	if status == "" {
		return nil, nil
	}
	st := model.SwapStatus(status)
	if !st.Valid() {
		return nil, apperrors.InvalidArgument("unknown swap status " + status)
	}
	return &st, nil
}

func (s *swapService) view(ctx context.Context, swap *model.SwapRequest) (*SwapView, error) {
	views, err := s.views(ctx, []model.SwapRequest{*swap})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views resolves participants and skills for a batch of requests.
func (s *swapService) views(ctx context.Context, swaps []model.SwapRequest) ([]SwapView, error) {
	return buildSwapViews(ctx, s.repos, swaps)
}

func buildSwapViews(ctx context.Context, repos *repository.Repositories, swaps []model.SwapRequest) ([]SwapView, error) {
	userIDs := make([]uuid.UUID, 0, len(swaps)*2)
	skillIDs := make([]uuid.UUID, 0, len(swaps)*2)
	for _, sw := range swaps {
		userIDs = append(userIDs, sw.SenderID, sw.ReceiverID)
		skillIDs = append(skillIDs, sw.SenderSkillID, sw.ReceiverSkillID)
	}

	users, err := repos.Users.FindByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}
	skills, err := repos.Skills.FindByIDs(ctx, uniqueIDs(skillIDs))
	if err != nil {
		return nil, err
	}

	out := make([]SwapView, 0, len(swaps))
	for _, sw := range swaps {
		sender := users[sw.SenderID]
		receiver := users[sw.ReceiverID]
		senderSkill := skills[sw.SenderSkillID]
		receiverSkill := skills[sw.ReceiverSkillID]
		out = append(out, SwapView{
			ID:            sw.ID,
			SenderID:      sw.SenderID,
			ReceiverID:    sw.ReceiverID,
			Sender:        sender.Public(),
			Receiver:      receiver.Public(),
			SenderSkill:   model.SkillRef{ID: sw.SenderSkillID, Name: senderSkill.Name},
			ReceiverSkill: model.SkillRef{ID: sw.ReceiverSkillID, Name: receiverSkill.Name},
			Message:       sw.Message,
			Status:        sw.Status,
			CreatedAt:     sw.CreatedAt,
			UpdatedAt:     sw.UpdatedAt,
		})
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
