package nats

import (
	"context"
	"testing"
	"time"

	"studyspace-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFeedReplaysLatestToNewReader(t *testing.T) {
	feed := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	at := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	require.NoError(t, feed.PublishActivity(ctx, []entity.ActivityRecord{{UserId: uuid.New(), DisplayName: "Old"}}, at))
	require.NoError(t, feed.PublishActivity(ctx, []entity.ActivityRecord{{UserId: uuid.New(), DisplayName: "New"}}, at.Add(time.Minute)))

	ch, err := feed.SubscribeActivity(ctx)
	require.NoError(t, err)

	got := <-ch
	require.Len(t, got.Records, 1)
	assert.Equal(t, "New", got.Records[0].DisplayName)
	assert.Equal(t, at.Add(time.Minute), got.EmittedAt)
}

func TestLocalFeedSlowReaderSeesOnlyNewest(t *testing.T) {
	feed := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := feed.SubscribeActivity(ctx)
	require.NoError(t, err)

	at := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, feed.PublishActivity(ctx, nil, at.Add(time.Duration(i)*time.Second)))
	}

	got := <-ch
	assert.Equal(t, at.Add(2*time.Second), got.EmittedAt)
	assert.NotNil(t, got.Records)

	cancel()
	_, open := <-ch
	assert.False(t, open)
}
