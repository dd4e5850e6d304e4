package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/repository/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cached struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(aggregate.NewMemory())

	require.NoError(t, repo.Default.SetJSON(ctx, "k", cached{Name: "x", N: 2}, time.Minute))

	got, err := Get[cached](repo.Default, ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cached{Name: "x", N: 2}, *got)
}

func TestGetMiss(t *testing.T) {
	repo := New(aggregate.NewMemory())

	_, err := Get[cached](repo.Default, context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGetCachedNull(t *testing.T) {
	ctx := context.Background()
	repo := New(aggregate.NewMemory())

	require.NoError(t, repo.Default.SetJSON(ctx, "k", nil, time.Minute))

	got, err := Get[cached](repo.Default, ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetManyRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(aggregate.NewMemory())

	require.NoError(t, repo.Default.SetJSON(ctx, "k", []cached{{Name: "a"}, {Name: "b"}}, time.Minute))

	got, err := GetMany[cached](repo.Default, ctx, "k")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
}

func TestDelInvalidates(t *testing.T) {
	ctx := context.Background()
	repo := New(aggregate.NewMemory())

	require.NoError(t, repo.Default.SetJSON(ctx, "k", cached{}, time.Minute))
	require.NoError(t, repo.Default.Del(ctx, "k"))

	_, err := Get[cached](repo.Default, ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCommentListKeyIsCanonical(t *testing.T) {
	ref := model.ItemRef{ContentTypeID: 7, ObjectPK: "42"}
	start, stop := 0, 10

	// Branch id order does not matter; the key sorts them.
	a := CommentListKey(ref, true, false, false, []string{"2", "1"}, &start, &stop)
	b := CommentListKey(ref, true, false, false, []string{"1", "2"}, &start, &stop)
	assert.Equal(t, a, b)

	// Flags and bounds do.
	c := CommentListKey(ref, false, false, false, []string{"1", "2"}, &start, &stop)
	assert.NotEqual(t, a, c)
	d := CommentListKey(ref, true, false, false, []string{"1", "2"}, nil, nil)
	assert.NotEqual(t, a, d)
}

func TestAggregateKeys(t *testing.T) {
	ref := model.ItemRef{ContentTypeID: 7, ObjectPK: "42"}

	assert.Equal(t, "comcount:pub:7:42", CommentCountKey(ref))
	assert.Equal(t, "lastcom:pub:7:42", LastCommentKey(ref))
	assert.Equal(t, "comcount:cat:3", RankingCategoryKey("comcount", 3))
	assert.Equal(t, "lastcom:ct:7", RankingContentTypeKey("lastcom", 7))
	assert.Equal(t, "comcount:all", RankingGlobalKey("comcount"))
}
