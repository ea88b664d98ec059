package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
	"skillswap/internal/testutil"
)

func TestFeedbackService_SubmitChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	outsider := env.user(t, "c")
	pending := env.propose(t, a, b, guitar, spanish)

	_, err := env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: uuid.New(), Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: pending.ID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)

	_, err = env.swaps.Transition(ctx, pending.ID, b.ID, model.SwapStatusAccepted)
	require.NoError(t, err)
	swapID := pending.ID

	tests := []struct {
		name    string
		rater   uuid.UUID
		input   SubmitFeedbackInput
		wantErr error
	}{
		{"outsider", outsider.ID, SubmitFeedbackInput{SwapID: swapID, Rating: 5}, apperrors.ErrForbidden},
		{"rating too low", a.ID, SubmitFeedbackInput{SwapID: swapID, Rating: 0}, apperrors.ErrInvalidArgument},
		{"rating too high", a.ID, SubmitFeedbackInput{SwapID: swapID, Rating: 6}, apperrors.ErrInvalidArgument},
		{"addressed to self", a.ID, SubmitFeedbackInput{SwapID: swapID, ToUserID: a.ID, Rating: 5}, apperrors.ErrInvalidArgument},
		{"addressed to outsider", a.ID, SubmitFeedbackInput{SwapID: swapID, ToUserID: outsider.ID, Rating: 5}, apperrors.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.feedback.Submit(ctx, tt.rater, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	view, err := env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: swapID, Rating: 4, Text: " thanks "})
	require.NoError(t, err)
	assert.Equal(t, b.ID, view.ToUser.ID)
	assert.Equal(t, a.ID, view.FromUser.ID)
	assert.Equal(t, "thanks", view.Text)

	// A duplicate is reported before the rating is even looked at.
	_, err = env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: swapID, Rating: 9})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFeedbackService_ListForVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	viewer := env.user(t, "viewer")
	swap := env.accepted(t, a, b, guitar, spanish)

	_, err := env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: swap.ID, Rating: 5})
	require.NoError(t, err)

	received, err := env.feedback.ListFor(ctx, viewer.ID, b.ID, FeedbackReceived)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, 5, received[0].Rating)

	given, err := env.feedback.ListFor(ctx, viewer.ID, a.ID, FeedbackGiven)
	require.NoError(t, err)
	assert.Len(t, given, 1)

	_, err = env.feedback.ListFor(ctx, viewer.ID, a.ID, "all")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.feedback.ListFor(ctx, viewer.ID, uuid.New(), FeedbackGiven)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	private := env.user(t, "private", testutil.Private())
	_, err = env.feedback.ListFor(ctx, viewer.ID, private.ID, FeedbackReceived)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	own, err := env.feedback.ListFor(ctx, private.ID, private.ID, FeedbackReceived)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestFeedbackService_ListForSwap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	outsider := env.user(t, "c")
	swap := env.accepted(t, a, b, guitar, spanish)

	_, err := env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: swap.ID, Rating: 5})
	require.NoError(t, err)
	_, err = env.feedback.Submit(ctx, b.ID, SubmitFeedbackInput{SwapID: swap.ID, Rating: 3})
	require.NoError(t, err)

	items, err := env.feedback.ListForSwap(ctx, b.ID, swap.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].FromUser.ID)
	assert.Equal(t, b.ID, items[1].FromUser.ID)

	_, err = env.feedback.ListForSwap(ctx, outsider.ID, swap.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
