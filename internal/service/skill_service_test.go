package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "skillswap/internal/errors"
)

func TestSkillService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.skills.Create(ctx, "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	guitar, err := env.skills.Create(ctx, "  Guitar ")
	require.NoError(t, err)
	assert.Equal(t, "Guitar", guitar.Name)

	_, err = env.skills.Create(ctx, "guitar")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	skills, err := env.skills.List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.True(t, env.redis.Exists(skillCatalogCacheKey))

	// Creating invalidates the cached catalog.
	_, err = env.skills.Create(ctx, "Archery")
	require.NoError(t, err)
	assert.False(t, env.redis.Exists(skillCatalogCacheKey))

	skills, err = env.skills.List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Archery", skills[0].Name)

	matched, err := env.skills.Match(ctx, "UIT")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Guitar", matched[0].Name)
}

func TestSkillService_SeedDefaultsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.skills.Create(ctx, "Guitar")
	require.NoError(t, err)

	created, err := env.skills.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultSkills)-1, created)

	created, err = env.skills.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)

	skills, err := env.skills.List(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, len(DefaultSkills))
}

func TestSkillService_ListSurvivesRedisOutage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.skills.Create(ctx, "Guitar")
	require.NoError(t, err)

	env.redis.Close()

	skills, err := env.skills.List(ctx)
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}
