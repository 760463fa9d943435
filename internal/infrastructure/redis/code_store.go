package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/identity"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// CodeStore keeps verification codes in Redis as HMAC digests with a TTL.
type CodeStore struct {
	rdb    goredis.Cmdable
	secret string
}

func NewCodeStore(rdb goredis.Cmdable, secret string) *CodeStore {
	return &CodeStore{rdb: rdb, secret: secret}
}

func (s *CodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, helpers.KeyVerifyCode(email), helpers.SecretHash(s.secret, email, code), ttl).Err()
}

// Check compares code with the stored digest and deletes it on a match.
func (s *CodeStore) Check(ctx context.Context, email, code string) (bool, error) {
	key := helpers.KeyVerifyCode(email)
	stored, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !helpers.SecretHashEqual(stored, s.secret, email, code) {
		return false, nil
	}
	// a concurrent Check may have consumed it first
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

var _ identity.CodeStore = (*CodeStore)(nil)
