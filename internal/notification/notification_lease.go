package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DispatchLeaseKey = "notifications:dispatch:lease"

// Lease keeps dispatcher runs from overlapping across worker processes.
type Lease interface {
	Acquire(ctx context.Context) (bool, error)
	// Extend pushes the expiry forward. It reports false when the lease is
	// no longer held by this holder.
	Extend(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

const releaseLua = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

const extendLua = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

type RedisLease struct {
	rdb      *redis.Client
	key      string
	ttl      time.Duration
	token    string
	newToken func() string
}

func NewRedisLease(rdb *redis.Client, key string, ttl time.Duration) *RedisLease {
	return &RedisLease{
		rdb:      rdb,
		key:      key,
		ttl:      ttl,
		newToken: uuid.NewString,
	}
}

func (l *RedisLease) Acquire(ctx context.Context) (bool, error) {
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Extend resets the TTL only while the key still holds this lease's token.
func (l *RedisLease) Extend(ctx context.Context) (bool, error) {
	if l.token == "" {
		return false, nil
	}
	n, err := l.rdb.Eval(ctx, extendLua, []string{l.key}, l.token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	if n == 0 {
		l.token = ""
		return false, nil
	}
	return true, nil
}

// Release deletes the key only while it still holds this lease's token.
func (l *RedisLease) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""
	return l.rdb.Eval(ctx, releaseLua, []string{l.key}, token).Err()
}
