package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session under two prefix-scoped keys. Intended for
// shared or kiosk installations where several client processes observe the
// same session; single-user installs should prefer [FileStore].
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "swk"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisStore) tokenKey() string {
	return s.prefix + ":token"
}

func (s *RedisStore) userKey() string {
	return s.prefix + ":user"
}

func (s *RedisStore) Save(ctx context.Context, token string, user *User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), token, 0)
		pipe.Set(ctx, s.userKey(), encoded, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (string, *User, error) {
	values, err := s.redis.MGet(ctx, s.tokenKey(), s.userKey()).Result()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	token, _ := values[0].(string)
	if token == "" {
		return "", nil, nil
	}

	var user *User
	if raw, ok := values[1].(string); ok && raw != "" {
		decoded := &User{}
		if err := json.Unmarshal([]byte(raw), decoded); err == nil {
			user = decoded
		}
	}
	return token, user, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
