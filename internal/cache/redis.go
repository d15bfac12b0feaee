package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/domain"
)

const (
	maxJitter = 5 * time.Minute
	// Outlives any cart entry, and is refreshed on every bump.
	generationTTL = 24 * time.Hour
)

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1].
// A missing generation key counts as generation 0.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[1])
if (gen or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: ttl,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, userEmail string) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, cacheKey(userEmail)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart lines")
	}
	return lines, nil
}

func (r *RedisCache) Generation(ctx context.Context, userEmail string) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey(userEmail)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "redis get generation")
	}
	return gen, nil
}

// Set stores lines with the base TTL plus up to five minutes of jitter so
// entries written together do not expire together. It returns
// ErrStaleGeneration without writing when gen is no longer current.
func (r *RedisCache) Set(ctx context.Context, userEmail string, gen int64, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return errors.Wrap(err, "marshal cart lines")
	}

	ttl := r.baseTTL + rand.N(maxJitter)
	keys := []string{generationKey(userEmail), cacheKey(userEmail)}
	stored, err := setIfGeneration.Run(ctx, r.client, keys, strconv.FormatInt(gen, 10), data, ttl.Milliseconds()).Int()
	if err != nil {
		return errors.Wrap(err, "redis set")
	}
	if stored == 0 {
		return ErrStaleGeneration
	}
	return nil
}

// Delete drops the entry and bumps the generation in one transaction.
func (r *RedisCache) Delete(ctx context.Context, userEmail string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userEmail))
		pipe.Expire(ctx, generationKey(userEmail), generationTTL)
		pipe.Del(ctx, cacheKey(userEmail))
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "redis delete")
	}
	return nil
}

func cacheKey(userEmail string) string {
	return fmt.Sprintf("cart:%s", userEmail)
}

func generationKey(userEmail string) string {
	return fmt.Sprintf("cart:gen:%s", userEmail)
}
