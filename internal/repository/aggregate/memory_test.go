package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounters(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	n, err := store.GetInt(ctx, "cnt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = store.IncrBy(ctx, "cnt", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = store.DecrFloor(ctx, "cnt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryDecrFloorClampsAtZero(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for i := 0; i < 3; i++ {
		n, err := store.DecrFloor(ctx, "cnt")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	}
}

func TestMemoryStringsWithTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.SetString(ctx, "k", "v", 0))
	v, ok, err := store.GetString(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, store.SetString(ctx, "short", "v", time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, ok, err = store.GetString(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBatchAppliesOnExec(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	batch := store.Batch()
	batch.Incr("cnt")
	batch.HSet("h", map[string]string{"a": "1"})
	batch.ZAdd("z", 2, "x")
	batch.ZAdd("z", 1, "y")

	// Nothing lands until Exec.
	n, err := store.GetInt(ctx, "cnt")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, batch.Exec(ctx))

	n, err = store.GetInt(ctx, "cnt")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	fields, err := store.GetHash(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, fields)

	members, err := store.ZRevRange(ctx, "z", 0, -1)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "x", members[0].Member)
	assert.Equal(t, "y", members[1].Member)
}

func TestMemoryZRevRangeBounds(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	batch := store.Batch()
	for i, m := range []string{"a", "b", "c", "d"} {
		batch.ZAdd("z", float64(i), m)
	}
	require.NoError(t, batch.Exec(ctx))

	// Highest score first, inclusive stop index.
	members, err := store.ZRevRange(ctx, "z", 0, 1)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "d", members[0].Member)
	assert.Equal(t, "c", members[1].Member)

	members, err = store.ZRevRange(ctx, "z", 10, 20)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemoryZRemDropsMember(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	batch := store.Batch()
	batch.ZAdd("z", 1, "a")
	require.NoError(t, batch.Exec(ctx))

	batch = store.Batch()
	batch.ZRem("z", "a")
	require.NoError(t, batch.Exec(ctx))

	_, ok, err := store.ZScore(ctx, "z", "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
