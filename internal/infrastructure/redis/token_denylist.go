package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-identity/internal/application"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// TokenDenylist keeps revoked refresh token ids until the token would expire anyway.
type TokenDenylist struct {
	rdb goredis.Cmdable
}

func NewTokenDenylist(rdb goredis.Cmdable) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

// Revoke uses SETNX so two concurrent refreshes of the same token cannot both win.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, until time.Time) (bool, error) {
	ttl := time.Until(until)
	if ttl < time.Second {
		ttl = time.Second
	}
	return d.rdb.SetNX(ctx, helpers.KeyRevokedToken(jti), 1, ttl).Result()
}

var _ application.TokenDenylist = (*TokenDenylist)(nil)
