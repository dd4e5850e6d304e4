package service

import (
	"context"
	"testing"
	"time"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("most_commented")
	require.NoError(t, err)
	assert.Equal(t, MostCommented, p)

	p, err = ParsePolicy("last_commented")
	require.NoError(t, err)
	assert.Equal(t, LastCommented, p)

	_, err = ParsePolicy("recently_commented")
	assert.ErrorIs(t, err, ErrUnsupportedPolicy)
}

func TestTopOrdersByScore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	refA := model.ItemRef{ContentTypeID: 7, ObjectPK: "a"}
	refB := model.ItemRef{ContentTypeID: 7, ObjectPK: "b"}
	refC := model.ItemRef{ContentTypeID: 7, ObjectPK: "c"}
	env.addItem(refA, 3, true)
	env.addItem(refB, 3, true)
	env.addItem(refC, 3, true)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		env.postComment(ctx, refB, nil, base.Add(time.Duration(i)*time.Minute))
	}
	env.postComment(ctx, refA, nil, base)
	env.postComment(ctx, refA, nil, base.Add(time.Hour))

	ranked, err := env.rankings.Top(ctx, MostCommented, Scope{Kind: ScopeGlobal}, 0, 9)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, refB, ranked[0].Ref)
	assert.Equal(t, float64(3), ranked[0].Score)
	assert.Equal(t, refA, ranked[1].Ref)
	assert.Equal(t, float64(2), ranked[1].Score)

	// Last-commented favors the item with the newest comment.
	ranked, err = env.rankings.Top(ctx, LastCommented, Scope{Kind: ScopeGlobal}, 0, 9)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, refA, ranked[0].Ref)
}

func TestTopScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	refA := model.ItemRef{ContentTypeID: 7, ObjectPK: "a"}
	refB := model.ItemRef{ContentTypeID: 8, ObjectPK: "b"}
	env.addItem(refA, 3, true)
	env.addItem(refB, 4, true)

	env.postComment(ctx, refA, nil, time.Now())
	env.postComment(ctx, refB, nil, time.Now())

	ranked, err := env.rankings.Top(ctx, MostCommented, Scope{Kind: ScopeContentType, ID: 7}, 0, 9)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, refA, ranked[0].Ref)

	ranked, err = env.rankings.Top(ctx, MostCommented, Scope{Kind: ScopeCategory, ID: 4}, 0, 9)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, refB, ranked[0].Ref)

	ranked, err = env.rankings.Top(ctx, MostCommented, Scope{Kind: ScopeGlobal}, 0, 9)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestTopUnknownScope(t *testing.T) {
	env := newTestEnv()
	_, err := env.rankings.Top(context.Background(), MostCommented, Scope{Kind: "region"}, 0, 9)
	assert.ErrorIs(t, err, ErrUnknownScope)
}

func TestRetractSweepsAllPolicies(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	item := env.addItem(testRef, 3, true)

	env.postComment(ctx, testRef, nil, time.Now())

	require.NoError(t, env.rankings.Retract(ctx, item))

	for _, policy := range []Policy{MostCommented, LastCommented} {
		ranked, err := env.rankings.Top(ctx, policy, Scope{Kind: ScopeGlobal}, 0, 9)
		require.NoError(t, err)
		assert.Empty(t, ranked, string(policy))
	}
}
