// Package lock serializes punches for one employee across agents.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "presence:punch-lock:"

var ErrHeld = errors.New("lock: held by another holder")

//go:generate mockgen -source=lock.go -destination=mock/lock_mock.go -package=mock
type Locker interface {
	// Acquire returns a release func, or ErrHeld when someone else has it.
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another agent is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
	token  func() string
}

func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb:    rdb,
		prefix: DefaultPrefix,
		ttl:    ttl,
		token:  func() string { return uuid.New().String() },
	}
}

// WithTokenFunc is for tests.
func (l *RedisLocker) WithTokenFunc(f func() string) *RedisLocker {
	l.token = f
	return l
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	fullKey := l.prefix + key
	tok := l.token()

	ok, err := l.rdb.SetNX(ctx, fullKey, tok, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHeld
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.rdb, []string{fullKey}, tok).Err()
	}, nil
}

// NoopLocker always succeeds; used when no redis is configured.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
