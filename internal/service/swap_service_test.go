package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
)

func TestSwapService_GuitarForSpanishScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)

	created, err := env.swaps.Create(ctx, a.ID, CreateSwapInput{
		ReceiverID:      b.ID,
		SenderSkillID:   guitar.ID,
		ReceiverSkillID: spanish.ID,
		Message:         " let's trade ",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusPending, created.Status)
	assert.Equal(t, "let's trade", created.Message)
	assert.Equal(t, "Guitar", created.SenderSkill.Name)
	assert.Equal(t, "Spanish", created.ReceiverSkill.Name)
	assert.Equal(t, "b", created.Receiver.Name)

	_, err = env.swaps.Create(ctx, a.ID, CreateSwapInput{ReceiverID: b.ID, SenderSkillID: guitar.ID, ReceiverSkillID: spanish.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := env.swaps.Transition(ctx, created.ID, b.ID, model.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, got.Status)

	_, err = env.swaps.Cancel(ctx, created.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)

	_, err = env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: created.ID, ToUserID: b.ID, Rating: 5})
	require.NoError(t, err)
	_, err = env.feedback.Submit(ctx, b.ID, SubmitFeedbackInput{SwapID: created.ID, Rating: 4, Text: "great"})
	require.NoError(t, err)
	_, err = env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: created.ID, ToUserID: b.ID, Rating: 3})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSwapService_CreateRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)

	tests := []struct {
		name    string
		sender  uuid.UUID
		input   CreateSwapInput
		wantErr error
	}{
		{"receiver missing", a.ID, CreateSwapInput{ReceiverID: uuid.New(), SenderSkillID: guitar.ID, ReceiverSkillID: spanish.ID}, apperrors.ErrNotFound},
		{"self request", a.ID, CreateSwapInput{ReceiverID: a.ID, SenderSkillID: guitar.ID, ReceiverSkillID: guitar.ID}, apperrors.ErrInvalidArgument},
		{"sender does not offer", a.ID, CreateSwapInput{ReceiverID: b.ID, SenderSkillID: spanish.ID, ReceiverSkillID: spanish.ID}, apperrors.ErrPreconditionFailed},
		{"wanted is not offered", a.ID, CreateSwapInput{ReceiverID: b.ID, SenderSkillID: guitar.ID, ReceiverSkillID: guitar.ID}, apperrors.ErrPreconditionFailed},
		{"unknown skill", a.ID, CreateSwapInput{ReceiverID: b.ID, SenderSkillID: uuid.New(), ReceiverSkillID: spanish.ID}, apperrors.ErrPreconditionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.swaps.Create(ctx, tt.sender, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	mine, err := env.swaps.ListMine(ctx, a.ID, SwapsSent, "")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestSwapService_PendingUniquenessIgnoresSkillPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	piano := env.skill(t, "Piano")
	env.offers(t, a, piano)

	first := env.propose(t, a, b, guitar, spanish)

	_, err := env.swaps.Create(ctx, a.ID, CreateSwapInput{ReceiverID: b.ID, SenderSkillID: piano.ID, ReceiverSkillID: spanish.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// The reverse direction is independent.
	env.propose(t, b, a, spanish, guitar)

	// Once resolved, the pair is free again.
	_, err = env.swaps.Transition(ctx, first.ID, b.ID, model.SwapStatusRejected)
	require.NoError(t, err)
	env.propose(t, a, b, piano, spanish)
}

func TestSwapService_Transition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	outsider := env.user(t, "c")
	swap := env.propose(t, a, b, guitar, spanish)

	_, err := env.swaps.Transition(ctx, uuid.New(), b.ID, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.swaps.Transition(ctx, swap.ID, b.ID, model.SwapStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.swaps.Transition(ctx, swap.ID, b.ID, model.SwapStatusPending)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.swaps.Transition(ctx, swap.ID, a.ID, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.swaps.Transition(ctx, swap.ID, outsider.ID, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	rejected, err := env.swaps.Transition(ctx, swap.ID, b.ID, model.SwapStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusRejected, rejected.Status)

	// Terminal states never change.
	_, err = env.swaps.Transition(ctx, swap.ID, b.ID, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
	_, err = env.swaps.Cancel(ctx, swap.ID, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)

	stored, err := env.swaps.Get(ctx, swap.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusRejected, stored.Status)
}

func TestSwapService_Cancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	swap := env.propose(t, a, b, guitar, spanish)

	_, err := env.swaps.Cancel(ctx, swap.ID, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	cancelled, err := env.swaps.Cancel(ctx, swap.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusCancelled, cancelled.Status)

	_, err = env.swaps.Transition(ctx, swap.ID, b.ID, model.SwapStatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionFailed)
}

func TestSwapService_GetRequiresParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	outsider := env.user(t, "c")
	swap := env.propose(t, a, b, guitar, spanish)

	_, err := env.swaps.Get(ctx, uuid.New(), a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.swaps.Get(ctx, swap.ID, outsider.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	for _, viewer := range []uuid.UUID{a.ID, b.ID} {
		got, err := env.swaps.Get(ctx, swap.ID, viewer)
		require.NoError(t, err)
		assert.Equal(t, swap.ID, got.ID)
	}
}

func TestSwapService_ListMine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	c := env.user(t, "c")
	env.offers(t, c, spanish)

	toB := env.propose(t, a, b, guitar, spanish)
	toC := env.propose(t, a, c, guitar, spanish)
	fromB := env.propose(t, b, a, spanish, guitar)
	_, err := env.swaps.Transition(ctx, toC.ID, c.ID, model.SwapStatusAccepted)
	require.NoError(t, err)

	sent, err := env.swaps.ListMine(ctx, a.ID, SwapsSent, "")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{toB.ID, toC.ID}, swapIDs(sent))

	pending, err := env.swaps.ListMine(ctx, a.ID, SwapsSent, "pending")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{toB.ID}, swapIDs(pending))

	received, err := env.swaps.ListMine(ctx, a.ID, SwapsReceived, "")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fromB.ID}, swapIDs(received))

	_, err = env.swaps.ListMine(ctx, a.ID, "both", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	_, err = env.swaps.ListMine(ctx, a.ID, SwapsSent, "done")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

// The test pool holds one connection, so these attempts serialize on it. The
// interleaving where HasPending misses a concurrent insert is forced in
// TestSwapService_CreateLosingPendingRaceConflicts.
func TestSwapService_ConcurrentCreateAdmitsOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.swaps.Create(ctx, a.ID, CreateSwapInput{
				ReceiverID:      b.ID,
				SenderSkillID:   guitar.ID,
				ReceiverSkillID: spanish.ID,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	sent, err := env.swaps.ListMine(ctx, a.ID, SwapsSent, "pending")
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestSwapService_CreateLosingPendingRaceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)

	// Insert a competing pending request on the same transaction right after
	// the pending check has counted zero rows.
	var fired bool
	var raceErr error
	err := env.db.Callback().Query().After("gorm:query").Register("test:pending_race", func(db *gorm.DB) {
		if fired || db.Statement.Table != "swap_requests" {
			return
		}
		fired = true
		raceErr = db.Session(&gorm.Session{NewDB: true}).Create(&model.SwapRequest{
			SenderID:        a.ID,
			ReceiverID:      b.ID,
			SenderSkillID:   guitar.ID,
			ReceiverSkillID: spanish.ID,
		}).Error
	})
	require.NoError(t, err)

	_, err = env.swaps.Create(ctx, a.ID, CreateSwapInput{
		ReceiverID:      b.ID,
		SenderSkillID:   guitar.ID,
		ReceiverSkillID: spanish.ID,
	})
	require.True(t, fired)
	require.NoError(t, raceErr)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, env.db.Callback().Query().Remove("test:pending_race"))
	// Both inserts shared the rolled-back transaction.
	sent, err := env.swaps.ListMine(ctx, a.ID, SwapsSent, "")
	require.NoError(t, err)
	assert.Empty(t, sent)
}
