package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

const defaultProfileTTL = 10 * time.Minute

// ProfileCache caches user documents as JSON under user:profile:<id>.
type ProfileCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewProfileCache(rdb goredis.Cmdable, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func (c *ProfileCache) Get(ctx context.Context, id string) (application.UserDocument, bool, error) {
	var doc application.UserDocument
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, helpers.KeyUserProfile(id), &doc)
	return doc, ok, err
}

func (c *ProfileCache) Set(ctx context.Context, doc application.UserDocument) error {
	return helpers.RedisSetJSON(ctx, c.rdb, helpers.KeyUserProfile(doc.UserID), doc, c.ttl)
}

func (c *ProfileCache) Delete(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, c.rdb, helpers.KeyUserProfile(id))
}

var _ application.UserCache = (*ProfileCache)(nil)
