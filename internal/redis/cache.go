package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"strmly/internal/domain/user"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - user:{user_id} - profile cache used by token authentication

const DefaultUserTTL = 5 * time.Minute

// UserCache keeps the public part of a user so authenticated requests skip the users table.
type UserCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewUserCache(client *goredis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// cachedUser never carries the password hash
type cachedUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetUser returns ok=false on a cache miss.
func (c *UserCache) GetUser(ctx context.Context, id uuid.UUID) (user.User, bool, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err == goredis.Nil {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, err
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		return user.User{}, false, err
	}
	return user.User{
		ID:        cached.ID,
		Name:      cached.Name,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}, true, nil
}

func (c *UserCache) SetUser(ctx context.Context, u user.User) error {
	data, err := json.Marshal(cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userKey(u.ID), data, c.ttl).Err()
}

func (c *UserCache) InvalidateUser(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, userKey(id)).Err()
}

func userKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}
