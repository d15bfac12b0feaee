package cache

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

// CartCache holds a user's cart lines keyed by email.
//
// Every Delete bumps a per-user generation. A reader takes the generation
// before it reads the store and passes it to Set, which stores nothing if the
// generation moved in between. A fill racing an invalidation therefore never
// puts the older lines back.
type CartCache interface {
	Get(ctx context.Context, userEmail string) ([]domain.CartLine, error)
	Generation(ctx context.Context, userEmail string) (int64, error)
	Set(ctx context.Context, userEmail string, gen int64, lines []domain.CartLine) error
	Delete(ctx context.Context, userEmail string) error
}

var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrStaleGeneration = errors.New("cache generation changed")
)

// Nop is used when no Redis is configured: every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]domain.CartLine, error) { return nil, ErrCacheMiss }

func (Nop) Generation(context.Context, string) (int64, error) { return 0, nil }

func (Nop) Set(context.Context, string, int64, []domain.CartLine) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }
