package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/metrics"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// Feedback listing roles.
const (
	FeedbackGiven    = "given"
	FeedbackReceived = "received"
)

// SubmitFeedbackInput is a rating for a completed swap. ToUserID may be
// uuid.Nil, in which case the counterpart is rated.
type SubmitFeedbackInput struct {
	SwapID   uuid.UUID
	ToUserID uuid.UUID
	Rating   int
	Text     string
}

// FeedbackView is a feedback entry with both parties resolved.
type FeedbackView struct {
	ID        uuid.UUID        `json:"id"`
	SwapID    uuid.UUID        `json:"swap_id"`
	FromUser  model.PublicUser `json:"from_user"`
	ToUser    model.PublicUser `json:"to_user"`
	Rating    int              `json:"rating"`
	Text      string           `json:"feedback_text,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// FeedbackService is the feedback ledger.
type FeedbackService interface {
	Submit(ctx context.Context, raterID uuid.UUID, in SubmitFeedbackInput) (*FeedbackView, error)
	ListFor(ctx context.Context, viewerID, userID uuid.UUID, role string) ([]FeedbackView, error)
	ListForSwap(ctx context.Context, viewerID, swapID uuid.UUID) ([]FeedbackView, error)
}

type feedbackService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repos *repository.Repositories) FeedbackService {
	return &feedbackService{repos: repos, now: utcNow}
}

// Submit records one rating per participant of an accepted swap.
func (s *feedbackService) Submit(ctx context.Context, raterID uuid.UUID, in SubmitFeedbackInput) (*FeedbackView, error) {
	var entry *model.Feedback
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		swap, err := tx.Swaps.FindByIDForUpdate(ctx, in.SwapID)
		if err != nil {
			return err
		}
		if swap.Status != model.SwapStatusAccepted {
			return apperrors.PreconditionFailed("feedback is only allowed for accepted swaps")
		}
		if !swap.IsParticipant(raterID) {
			return apperrors.Forbidden("not a participant of this swap")
		}

		exists, err := tx.Feedback.Exists(ctx, swap.ID, raterID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("feedback for this swap already submitted")
		}

		if !model.ValidRating(in.Rating) {
			return apperrors.InvalidArgument(fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating))
		}
		counterpart := swap.Counterpart(raterID)
		toUser := in.ToUserID
		if toUser == uuid.Nil {
			toUser = counterpart
		}
		if toUser != counterpart {
			return apperrors.InvalidArgument("feedback must be addressed to the other participant")
		}

		entry = &model.Feedback{
			SwapID:     swap.ID,
			FromUserID: raterID,
			ToUserID:   toUser,
			Rating:     in.Rating,
			Text:       strings.TrimSpace(in.Text),
			CreatedAt:  s.now(),
		}
		return tx.Feedback.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	metrics.FeedbackSubmitted.Inc()
	views, err := buildFeedbackViews(ctx, s.repos, []model.Feedback{*entry})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListFor returns feedback given or received by a user. Feedback of private
// users is visible only to themselves.
func (s *feedbackService) ListFor(ctx context.Context, viewerID, userID uuid.UUID, role string) ([]FeedbackView, error) {
	if role != FeedbackGiven && role != FeedbackReceived {
		return nil, apperrors.InvalidArgument("role must be given or received")
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPublic() && viewerID != user.ID {
		return nil, apperrors.Forbidden("this user's feedback is private")
	}

	var items []model.Feedback
	if role == FeedbackGiven {
		items, err = s.repos.Feedback.ListByRater(ctx, userID)
	} else {
		items, err = s.repos.Feedback.ListByRatee(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return buildFeedbackViews(ctx, s.repos, items)
}

// ListForSwap returns the feedback of one swap to its participants.
func (s *feedbackService) ListForSwap(ctx context.Context, viewerID, swapID uuid.UUID) ([]FeedbackView, error) {
	swap, err := s.repos.Swaps.FindByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParticipant(viewerID) {
		return nil, apperrors.Forbidden("not a participant of this swap")
	}

	items, err := s.repos.Feedback.ListBySwap(ctx, swapID)
	if err != nil {
		return nil, err
	}
	return buildFeedbackViews(ctx, s.repos, items)
}

func buildFeedbackViews(ctx context.Context, repos *repository.Repositories, items []model.Feedback) ([]FeedbackView, error) {
	ids := make([]uuid.UUID, 0, len(items)*2)
	for _, f := range items {
		ids = append(ids, f.FromUserID, f.ToUserID)
	}
	users, err := repos.Users.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	out := make([]FeedbackView, 0, len(items))
	for _, f := range items {
		from := users[f.FromUserID]
		to := users[f.ToUserID]
		out = append(out, FeedbackView{
			ID:        f.ID,
			SwapID:    f.SwapID,
			FromUser:  from.Public(),
			ToUser:    to.Public(),
			Rating:    f.Rating,
			Text:      f.Text,
			CreatedAt: f.CreatedAt,
		})
	}
	return out, nil
}
