package redis

import (
	"context"
	"testing"
	"time"

	"strmly/internal/domain/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiter_AllowAuth(t *testing.T) {
	mr, client := setupMiniredis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{AuthLimit: 3, AuthWindow: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.AllowAuth(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := limiter.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.LessOrEqual(t, res.ResetIn, time.Minute)

	other, err := limiter.AllowAuth(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	mr.FastForward(61 * time.Second)
	res, err = limiter.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	require.NoError(t, limiter.ResetAuth(ctx, "10.0.0.1"))
	assert.False(t, mr.Exists(authKey("10.0.0.1")))
}

func TestRateLimiter_SeparateBuckets(t *testing.T) {
	_, client := setupMiniredis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{
		GeneralLimit: 1, GeneralWindow: time.Minute,
		UploadLimit: 1, UploadWindow: time.Hour,
	})
	ctx := context.Background()

	res, err := limiter.AllowGeneral(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.AllowUpload(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.AllowUpload(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestRateLimiter_ServerDown(t *testing.T) {
	client := NewClient(Config{Host: "127.0.0.1", Port: "1"})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRateLimiter(client, DefaultRateLimitConfig())

	_, err := limiter.AllowGeneral(context.Background(), "1.1.1.1")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	_ = client.Close()

	_, err = Connect(context.Background(), Config{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestUserCache(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewUserCache(client, time.Minute)
	ctx := context.Background()

	u := user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PasswordHash: "secret-hash"}

	_, ok, err := cache.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetUser(ctx, u))
	raw, err := mr.Get(userKey(u.ID))
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret-hash")

	got, ok, err := cache.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada", got.Name)
	assert.Empty(t, got.PasswordHash)

	require.NoError(t, cache.InvalidateUser(ctx, u.ID))
	_, ok, err = cache.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetUser(ctx, u))
	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
