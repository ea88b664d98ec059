package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestClient_JSONRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	type entry struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.SetJSON(ctx, "skills", []entry{{Name: "Guitar"}}, time.Minute))

	var out []entry
	require.True(t, c.GetJSON(ctx, "skills", &out))
	assert.Equal(t, []entry{{Name: "Guitar"}}, out)

	assert.False(t, c.GetJSON(ctx, "missing", &out))
}

func TestClient_FailsSafeWhenRedisDown(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_NilIsMiss(t *testing.T) {
	var c *Client
	got, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_StrictReportsRedisDown(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetStrict(ctx, "k", []byte("v"), time.Minute))
	got, err := c.GetStrict(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	require.NoError(t, c.DeleteStrict(ctx, "k"))
	got, err = c.GetStrict(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	mr.Close()
	_, err = c.GetStrict(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.SetStrict(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.DeleteStrict(ctx, "k"))

	var unset *Client
	assert.Error(t, unset.SetStrict(ctx, "k", nil, time.Minute))
}

func TestClient_InvalidateBlocksAdd(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.AddJSON(ctx, "p", "old", time.Minute))
	require.NoError(t, c.AddJSON(ctx, "p", "ignored", time.Minute))
	var out string
	require.True(t, c.GetJSON(ctx, "p", &out))
	assert.Equal(t, "old", out)

	require.NoError(t, c.Invalidate(ctx, "p", 5*time.Second))
	assert.False(t, c.GetJSON(ctx, "p", &out))
	require.NoError(t, c.AddJSON(ctx, "p", "stale", time.Minute))
	assert.False(t, c.GetJSON(ctx, "p", &out))

	mr.FastForward(6 * time.Second)
	require.NoError(t, c.AddJSON(ctx, "p", "fresh", time.Minute))
	require.True(t, c.GetJSON(ctx, "p", &out))
	assert.Equal(t, "fresh", out)
}
