package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKVStore(t *testing.T, store contract.KVStore) {
	t.Helper()
	ctx := context.Background()
	user := uuid.New()
	other := uuid.New()

	var view entity.ViewState
	found, err := store.Get(ctx, user, "view", &view)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, user, "view", entity.ViewState{ActiveTab: entity.TabExam, ShowLeaderboard: true}))
	require.NoError(t, store.Set(ctx, user, "view", entity.ViewState{ActiveTab: entity.TabEquations}))

	found, err = store.Get(ctx, user, "view", &view)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entity.TabEquations, view.ActiveTab)
	assert.False(t, view.ShowLeaderboard)

	found, err = store.Get(ctx, other, "view", &view)
	require.NoError(t, err)
	assert.False(t, found, "keys are namespaced per user")

	require.NoError(t, store.Delete(ctx, user, "view"))
	found, err = store.Get(ctx, user, "view", &view)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGormKVStore(t *testing.T) {
	exerciseKVStore(t, NewGormKVStore(newTestDB(t)))
}

func TestGormKVStoreCorruptValue(t *testing.T) {
	db := newTestDB(t)
	store := NewGormKVStore(db)
	user := uuid.New()
	require.NoError(t, store.Set(context.Background(), user, "history", "not a list"))

	var history []entity.StudyHistoryItem
	_, err := store.Get(context.Background(), user, "history", &history)
	assert.Error(t, err)
}

// Runs against a live server only: REDIS_URL=redis://localhost:6379 go test ./internal/repository/...
func TestRedisKVStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	exerciseKVStore(t, NewRedisKVStore(rdb, time.Minute))
}
