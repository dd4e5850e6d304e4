package aggregate

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

// memoryStore keeps everything in process. It backs tests and cache-less
// deployments; semantics mirror the redis implementation, including the
// zero floor on DecrFloor and treating absent keys as zero/empty.
type memoryStore struct {
	mu      sync.Mutex
	strings map[string]memoryValue
	hashes  map[string]map[string]string
	zsets   map[string]map[string]float64
}

type memoryValue struct {
	value     string
	expiresAt time.Time
}

func (v memoryValue) expired() bool {
	return !v.expiresAt.IsZero() && time.Now().After(v.expiresAt)
}

func NewMemory() Store {
	return &memoryStore{
		strings: make(map[string]memoryValue),
		hashes:  make(map[string]map[string]string),
		zsets:   make(map[string]map[string]float64),
	}
}

func (s *memoryStore) getInt(key string) int64 {
	v, ok := s.strings[key]
	if !ok || v.expired() {
		return 0
	}
	n, _ := strconv.ParseInt(v.value, 10, 64)
	return n
}

func (s *memoryStore) setInt(key string, n int64) {
	s.strings[key] = memoryValue{value: strconv.FormatInt(n, 10)}
}

func (s *memoryStore) GetInt(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getInt(key), nil
}

func (s *memoryStore) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.getInt(key) + n
	s.setInt(key, v)
	return v, nil
}

func (s *memoryStore) DecrFloor(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.getInt(key) - 1
	if v < 0 {
		v = 0
	}
	s.setInt(key, v)
	return v, nil
}

func (s *memoryStore) GetHash(ctx context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields := make(map[string]string, len(s.hashes[key]))
	for k, v := range s.hashes[key] {
		fields[k] = v
	}
	return fields, nil
}

func (s *memoryStore) GetString(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.strings[key]
	if !ok || v.expired() {
		return "", false, nil
	}
	return v.value, true, nil
}

func (s *memoryStore) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mv := memoryValue{value: value}
	if ttl > 0 {
		mv.expiresAt = time.Now().Add(ttl)
	}
	s.strings[key] = mv
	return nil
}

func (s *memoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.del(keys...)
	return nil
}

func (s *memoryStore) del(keys ...string) {
	for _, key := range keys {
		delete(s.strings, key)
		delete(s.hashes, key)
		delete(s.zsets, key)
	}
}

func (s *memoryStore) ZScore(ctx context.Context, key string, member string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.zsets[key][member]
	return score, ok, nil
}

func (s *memoryStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]ScoredMember, 0, len(s.zsets[key]))
	for member, score := range s.zsets[key] {
		members = append(members, ScoredMember{Member: member, Score: score})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		return members[i].Member > members[j].Member
	})

	if start < 0 {
		start = 0
	}
	if start >= int64(len(members)) {
		return nil, nil
	}
	if stop < 0 || stop >= int64(len(members)) {
		stop = int64(len(members)) - 1
	}
	return members[start : stop+1], nil
}

func (s *memoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

// memoryBatch queues closures and applies them under one lock on Exec.
type memoryBatch struct {
	store *memoryStore
	ops   []func()
}

func (b *memoryBatch) Incr(key string) {
	b.ops = append(b.ops, func() {
		b.store.setInt(key, b.store.getInt(key)+1)
	})
}

func (b *memoryBatch) Set(key string, value string) {
	b.ops = append(b.ops, func() {
		b.store.strings[key] = memoryValue{value: value}
	})
}

func (b *memoryBatch) HSet(key string, fields map[string]string) {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	b.ops = append(b.ops, func() {
		h, ok := b.store.hashes[key]
		if !ok {
			h = make(map[string]string, len(copied))
			b.store.hashes[key] = h
		}
		for k, v := range copied {
			h[k] = v
		}
	})
}

func (b *memoryBatch) Del(keys ...string) {
	b.ops = append(b.ops, func() {
		b.store.del(keys...)
	})
}

func (b *memoryBatch) ZAdd(key string, score float64, member string) {
	b.ops = append(b.ops, func() {
		z, ok := b.store.zsets[key]
		if !ok {
			z = make(map[string]float64)
			b.store.zsets[key] = z
		}
		z[member] = score
	})
}

func (b *memoryBatch) ZRem(key string, member string) {
	b.ops = append(b.ops, func() {
		delete(b.store.zsets[key], member)
		if len(b.store.zsets[key]) == 0 {
			delete(b.store.zsets, key)
		}
	})
}

func (b *memoryBatch) ZIncrBy(key string, incr float64, member string) {
	b.ops = append(b.ops, func() {
		z, ok := b.store.zsets[key]
		if !ok {
			z = make(map[string]float64)
			b.store.zsets[key] = z
		}
		z[member] += incr
	})
}

func (b *memoryBatch) Exec(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		op()
	}
	b.ops = nil
	return nil
}
