package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

func TestProfileCache_SetGetDelete(t *testing.T) {
	rdb := newTestClient(t)
	ctx := context.Background()
	cache := NewProfileCache(rdb, time.Minute)

	doc := application.UserDocument{
		UserID:   "usr_123e4567-e89b-12d3-a456-426614174000",
		Email:    "cache@example.com",
		Name:     "Cache",
		UserType: 2,
	}
	t.Cleanup(func() { _ = rdb.Del(ctx, helpers.KeyUserProfile(doc.UserID)).Err() })

	_, ok, err := cache.Get(ctx, doc.UserID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, doc))
	got, ok, err := cache.Get(ctx, doc.UserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, doc, got)

	ttl, err := rdb.TTL(ctx, helpers.KeyUserProfile(doc.UserID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Delete(ctx, doc.UserID))
	_, ok, err = cache.Get(ctx, doc.UserID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewProfileCache_DefaultTTL(t *testing.T) {
	c := NewProfileCache(nil, 0)
	assert.Equal(t, defaultProfileTTL, c.ttl)
}
