package aggregate

import (
	"context"
	"time"
)

// Store is the auxiliary key/value + sorted-set capability the
// synchronizers write their derived aggregates into. The lifecycle of the
// backing client is owned by the host; everything here takes it as an
// injected dependency so tests can substitute the in-memory
// implementation.
type Store interface {
	// GetInt reads a counter. A missing key is 0, not an error.
	GetInt(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, n int64) (int64, error)
	// DecrFloor atomically decrements a counter, clamping at zero.
	DecrFloor(ctx context.Context, key string) (int64, error)

	// GetHash reads a hash. A missing key is an empty map.
	GetHash(ctx context.Context, key string) (map[string]string, error)

	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	ZScore(ctx context.Context, key string, member string) (float64, bool, error)
	// ZRevRange returns members with scores, highest score first, over the
	// inclusive [start, stop] index range.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)

	// Batch starts a pipelined batch; queued operations are dispatched
	// together on Exec.
	Batch() Batch
}

// Batch groups multiple writes into one all-or-nothing dispatch.
type Batch interface {
	Incr(key string)
	Set(key string, value string)
	HSet(key string, fields map[string]string)
	Del(keys ...string)
	ZAdd(key string, score float64, member string)
	ZRem(key string, member string)
	ZIncrBy(key string, incr float64, member string)
	Exec(ctx context.Context) error
}

type ScoredMember struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}
