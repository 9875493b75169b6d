package redisad

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

const keyPrefix = "hotel-name:"

// releaseScript deletes the key only while it still carries our token, so an
// expired lock taken over by another owner is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// NameLock reserves hotel names in Redis with SET NX plus a TTL.
type NameLock struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *NameLock {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

func NewWithClient(c *redis.Client, ttl time.Duration) *NameLock {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &NameLock{c: c, ttl: ttl}
}

func (l *NameLock) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *NameLock) Close() error { return l.c.Close() }

// Acquire implements domain.NameLock.
func (l *NameLock) Acquire(ctx context.Context, name string) (func(), error) {
	key := keyPrefix + name
	token := uuid.NewString()

	ok, err := l.c.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		observability.ObserveLock("error")
		return nil, errors.Wrapf(err, "reserve hotel name %q", name)
	}
	if !ok {
		observability.ObserveLock("contended")
		return nil, domain.NameBusyf("hotel: %s is being created by another request", name)
	}
	observability.ObserveLock("acquired")

	release := func() {
		// the caller's ctx may already be done by the time release runs
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.c, []string{key}, token).Err(); err != nil {
			observability.ObserveLock("error")
			log.Warn().Err(err).Str("key", key).Msg("name lock release failed")
			return
		}
		observability.ObserveLock("released")
	}
	return release, nil
}
