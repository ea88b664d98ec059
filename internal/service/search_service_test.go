package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/testutil"
)

func TestSearchService_ValidatesPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me")

	_, err := env.search.Search(ctx, me.ID, SearchQuery{Page: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = env.search.Search(ctx, me.ID, SearchQuery{Page: 1, Direction: "sideways"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	res, err := env.search.Search(ctx, me.ID, SearchQuery{Page: 1, Size: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxSearchPageSize, res.Size)
	assert.Equal(t, 0, res.Pages)
	assert.Empty(t, res.Users)

	res, err = env.search.Search(ctx, me.ID, SearchQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Size)
}

func TestSearchService_PagePastLastIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me")
	env.user(t, "other")

	res, err := env.search.Search(ctx, me.ID, SearchQuery{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, 1, res.Pages)
	assert.Empty(t, res.Users)

	res, err = env.search.Search(ctx, me.ID, SearchQuery{Page: math.MaxInt/10 + 1, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Users)

	_, err = env.search.Search(ctx, me.ID, SearchQuery{Page: math.MaxInt/10 + 2, Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSearchService_SkillsAndRatings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, b, guitar, spanish := env.guitarSpanish(t)
	searcher := env.user(t, "searcher")
	swap := env.accepted(t, a, b, guitar, spanish)

	_, err := env.feedback.Submit(ctx, a.ID, SubmitFeedbackInput{SwapID: swap.ID, Rating: 5})
	require.NoError(t, err)

	res, err := env.search.Search(ctx, searcher.ID, SearchQuery{Skill: "guitar", Direction: "offered", Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	entry := res.Users[0]
	assert.Equal(t, a.ID, entry.ID)
	assert.Equal(t, []string{"Guitar"}, entry.SkillsOffered)
	assert.Equal(t, []string{"Spanish"}, entry.SkillsWanted)
	assert.Nil(t, entry.Rating)

	res, err = env.search.Search(ctx, searcher.ID, SearchQuery{Skill: "guitar", Direction: "wanted", Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	require.NotNil(t, res.Users[0].Rating)
	assert.Equal(t, 5.0, *res.Users[0].Rating)
}

func TestSearchService_NeverReturnsRequesterOrPrivate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guitar := env.skill(t, "Guitar")
	me := env.user(t, "me")
	hidden := env.user(t, "hidden", testutil.Private())
	env.offers(t, me, guitar)
	env.offers(t, hidden, guitar)

	res, err := env.search.Search(ctx, me.ID, SearchQuery{Skill: "Guitar", Page: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Users)
	assert.Equal(t, int64(0), res.Total)
}

func TestSearchService_PagesPartitionResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me")
	guitar := env.skill(t, "Guitar")
	bass := env.skill(t, "Bass Guitar")

	var want []uuid.UUID
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"} {
		u := env.user(t, name)
		env.offers(t, u, guitar)
		env.offers(t, u, bass)
		want = append(want, u.ID)
	}

	var got []uuid.UUID
	for page := 1; page <= 4; page++ {
		res, err := env.search.Search(ctx, me.ID, SearchQuery{Skill: "guitar", Page: page, Size: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(7), res.Total)
		assert.Equal(t, 3, res.Pages)
		for _, u := range res.Users {
			got = append(got, u.ID)
		}
		if page == 4 {
			assert.Empty(t, res.Users)
		}
	}
	assert.Equal(t, want, got)
}
