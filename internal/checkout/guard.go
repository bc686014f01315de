package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

// Guard short-circuits duplicate in-flight submissions. The database stays
// the source of truth, so a guard that cannot reach its backend lets the
// checkout through.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type NoopGuard struct{}

func (NoopGuard) Acquire(context.Context, string) (func(), error) { return func() {}, nil }

type RedisGuard struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisGuard(addr, serviceName string) *RedisGuard {
	return &RedisGuard{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Prefix: serviceName + ":checkout",
		TTL:    30 * time.Second,
	}
}

func (g *RedisGuard) key(k string) string {
	return fmt.Sprintf("%s:%s", g.Prefix, k)
}

func (g *RedisGuard) Acquire(ctx context.Context, k string) (func(), error) {
	l := logging.FromContext(ctx).With("component", "checkout.guard")
	key := g.key(k)

	ok, err := g.Client.SetNX(ctx, key, time.Now().Unix(), g.TTL).Result()
	if err != nil {
		l.Warn("guard_unavailable", "key", key, "error", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrCheckoutInProgress
	}

	return func() {
		// release must outlive a cancelled request
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := g.Client.Del(rctx, key).Err(); err != nil {
			l.Warn("guard_release_failed", "key", key, "error", err)
		}
	}, nil
}

func (g *RedisGuard) Close() error { return g.Client.Close() }
