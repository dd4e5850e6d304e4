package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserCacheForTest(env *testEnv) *userCacheService {
	return newUserCacheService(zap.NewNop(), env.repo, nil).(*userCacheService)
}

func TestUserCacheFindByID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newUserCacheForTest(env)

	id := uuid.New()

	user, err := svc.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, user)

	env.users.users[id] = &model.CachedUser{ID: id, Username: "john"}

	user, err = svc.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "john", user.Username)
}

func TestUserCacheApplyUpdateCreatesUnknownUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newUserCacheForTest(env)

	id := uuid.New()
	svc.applyUpdate(ctx, id, map[string]interface{}{
		"username":     "john",
		"display_name": "John",
	})

	user, err := svc.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "john", user.Username)
	assert.Equal(t, "John", user.DisplayName)
}

func TestUserCacheApplyUpdatePatchesExistingUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	svc := newUserCacheForTest(env)

	id := uuid.New()
	env.users.users[id] = &model.CachedUser{ID: id, Username: "john", DisplayName: "John"}

	svc.applyUpdate(ctx, id, map[string]interface{}{"display_name": "Johnny"})

	user, err := svc.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "john", user.Username)
	assert.Equal(t, "Johnny", user.DisplayName)
}

func TestCachedUserDisplay(t *testing.T) {
	u := &model.CachedUser{Username: "john"}
	assert.Equal(t, "john", u.Display())

	u.DisplayName = "John"
	assert.Equal(t, "John", u.Display())
}
