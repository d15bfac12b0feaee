package cache

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

// BreakerCache stops calling the wrapped cache after repeated failures, so an
// unavailable Redis costs requests nothing until the breaker half-opens again.
// Cache misses do not count as failures.
type BreakerCache struct {
	next CartCache
	cb   *gobreaker.CircuitBreaker[[]domain.CartLine]
}

func NewBreakerCache(next CartCache, lg *zap.Logger) *BreakerCache {
	cb := gobreaker.NewCircuitBreaker[[]domain.CartLine](gobreaker.Settings{
		Name:        "cart-cache",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss) || errors.Is(err, ErrStaleGeneration)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lg.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return &BreakerCache{next: next, cb: cb}
}

func (b *BreakerCache) Get(ctx context.Context, userEmail string) ([]domain.CartLine, error) {
	return b.cb.Execute(func() ([]domain.CartLine, error) {
		return b.next.Get(ctx, userEmail)
	})
}

func (b *BreakerCache) Generation(ctx context.Context, userEmail string) (int64, error) {
	var gen int64
	_, err := b.cb.Execute(func() ([]domain.CartLine, error) {
		var err error
		gen, err = b.next.Generation(ctx, userEmail)
		return nil, err
	})
	return gen, err
}

func (b *BreakerCache) Set(ctx context.Context, userEmail string, gen int64, lines []domain.CartLine) error {
	_, err := b.cb.Execute(func() ([]domain.CartLine, error) {
		return nil, b.next.Set(ctx, userEmail, gen, lines)
	})
	return err
}

// Delete bypasses the breaker: an invalidation must always be attempted.
func (b *BreakerCache) Delete(ctx context.Context, userEmail string) error {
	return b.next.Delete(ctx, userEmail)
}

// State reports the breaker state.
func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}
