package aggregate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// decrFloorScript decrements and rewrites the key to 0 when the result
// went negative, so concurrent decrements can never leave a negative
// counter behind.
var decrFloorScript = redis.NewScript(`
local v = redis.call('DECR', KEYS[1])
if v < 0 then
	redis.call('SET', KEYS[1], 0)
	return 0
end
return v
`)

type redisStore struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) Store {
	return &redisStore{
		rdb: rdb,
	}
}

func (s *redisStore) GetInt(ctx context.Context, key string) (int64, error) {
	v, err := s.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (s *redisStore) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	return s.rdb.IncrBy(ctx, key, n).Result()
}

func (s *redisStore) DecrFloor(ctx context.Context, key string) (int64, error) {
	return decrFloorScript.Run(ctx, s.rdb, []string{key}).Int64()
}

func (s *redisStore) GetHash(ctx context.Context, key string) (map[string]string, error) {
	return s.rdb.HGetAll(ctx, key).Result()
}

func (s *redisStore) GetString(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStore) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *redisStore) ZScore(ctx context.Context, key string, member string) (float64, bool, error) {
	score, err := s.rdb.ZScore(ctx, key, member).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (s *redisStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	zs, err := s.rdb.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}

	members := make([]ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		members = append(members, ScoredMember{Member: member, Score: z.Score})
	}
	return members, nil
}

func (s *redisStore) Batch() Batch {
	return &redisBatch{pipe: s.rdb.TxPipeline()}
}

type redisBatch struct {
	pipe redis.Pipeliner
}

func (b *redisBatch) Incr(key string) {
	b.pipe.Incr(context.Background(), key)
}

func (b *redisBatch) Set(key string, value string) {
	b.pipe.Set(context.Background(), key, value, 0)
}

func (b *redisBatch) HSet(key string, fields map[string]string) {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	b.pipe.HSet(context.Background(), key, values)
}

func (b *redisBatch) Del(keys ...string) {
	b.pipe.Del(context.Background(), keys...)
}

func (b *redisBatch) ZAdd(key string, score float64, member string) {
	b.pipe.ZAdd(context.Background(), key, redis.Z{Score: score, Member: member})
}

func (b *redisBatch) ZRem(key string, member string) {
	b.pipe.ZRem(context.Background(), key, member)
}

func (b *redisBatch) ZIncrBy(key string, incr float64, member string) {
	b.pipe.ZIncrBy(context.Background(), key, incr, member)
}

func (b *redisBatch) Exec(ctx context.Context) error {
	_, err := b.pipe.Exec(ctx)
	return err
}
