package implementation

import (
	"context"
	"sync"
	"testing"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepositoryFindOrCreate(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))
	ctx := context.Background()
	id := uuid.New()

	created, err := repo.FindOrCreate(ctx, id, "Ana")
	require.NoError(t, err)
	assert.Equal(t, entity.PlanFree, created.Plan)
	assert.Equal(t, "Ana", created.DisplayName)

	again, err := repo.FindOrCreate(ctx, id, "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.DisplayName)
}

func TestProfileRepositoryFindByIdMissing(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))

	_, err := repo.FindById(context.Background(), uuid.New())
	assert.ErrorIs(t, err, contract.ErrProfileNotFound)
}

func TestProfileRepositoryUpdateIsPartial(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))
	ctx := context.Background()
	profile := &entity.UserProfile{
		DisplayName: "Ben",
		Plan:        entity.PlanStudent,
		Usage:       entity.UsageStats{TotalGenerations: 9, DailyGenerations: 4, StreakDays: 3},
	}
	require.NoError(t, repo.Create(ctx, profile))

	resetAt := time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, profile.Id, entity.UsageReset(entity.UsageStats{
		DailyGenerations: 0,
		LastActiveDate:   resetAt,
		StreakDays:       4,
	})))

	got, err := repo.FindById(ctx, profile.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Usage.DailyGenerations)
	assert.Equal(t, 9, got.Usage.TotalGenerations)
	assert.Equal(t, 4, got.Usage.StreakDays)
	assert.True(t, resetAt.Equal(got.Usage.LastActiveDate))
	assert.Equal(t, entity.PlanStudent, got.Plan)

	assert.ErrorIs(t, repo.Update(ctx, uuid.New(), entity.UsageReset(entity.UsageStats{})), contract.ErrProfileNotFound)
}

func TestProfileRepositoryIncrementUsageIsAtomic(t *testing.T) {
	repo := NewProfileRepository(newTestDB(t))
	ctx := context.Background()
	profile := &entity.UserProfile{DisplayName: "Cleo", Plan: entity.PlanUnlimited}
	require.NoError(t, repo.Create(ctx, profile))

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementUsage(ctx, profile.Id, entity.UsageDelta{TotalGenerations: 1, DailyGenerations: 1, ActiveAt: &now})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	usage, err := repo.IncrementUsage(ctx, profile.Id, entity.UsageDelta{MasteredConcepts: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, usage.TotalGenerations)
	assert.Equal(t, 10, usage.DailyGenerations)
	assert.Equal(t, 1, usage.MasteredConcepts)
	assert.True(t, now.Equal(usage.LastActiveDate))
}

func TestActivityRepositoryFindActive(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepository(db)
	activity := NewActivityRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	seed := []entity.UserProfile{
		{DisplayName: "stale", Usage: entity.UsageStats{DailyGenerations: 30, LastActiveDate: now.Add(-30 * time.Hour)}},
		{DisplayName: "idle", Usage: entity.UsageStats{DailyGenerations: 0, LastActiveDate: now.Add(-time.Hour)}},
		{DisplayName: "older", Usage: entity.UsageStats{DailyGenerations: 9, LastActiveDate: now.Add(-5 * time.Hour)}},
		{DisplayName: "recent", Usage: entity.UsageStats{DailyGenerations: 2, LastActiveDate: now.Add(-time.Minute)}},
		{DisplayName: "middle", Usage: entity.UsageStats{DailyGenerations: 5, LastActiveDate: now.Add(-2 * time.Hour)}},
	}
	for i := range seed {
		require.NoError(t, profiles.Create(ctx, &seed[i]))
	}

	records, err := activity.FindActive(ctx, now.Add(-24*time.Hour), 40)
	require.NoError(t, err)
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.DisplayName
	}
	assert.Equal(t, []string{"recent", "middle", "older"}, names)

	limited, err := activity.FindActive(ctx, now.Add(-24*time.Hour), 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
