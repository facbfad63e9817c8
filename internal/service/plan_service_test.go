package service

import (
	"context"
	"testing"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/repository/implementation"
	"studyspace-be/internal/repository/unitofwork"
	"studyspace-be/pkg/quota"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllPlansInTierOrder(t *testing.T) {
	svc := NewPlanService(nil, nil)
	plans := svc.GetAllPlans(context.Background())

	require.Len(t, plans, len(entity.Plans))
	for i, p := range plans {
		assert.Equal(t, entity.Plans[i], p.Plan)
		assert.Len(t, p.Features, len(entity.Features))
	}

	free, unlimited := plans[0], plans[len(plans)-1]
	assert.Equal(t, 0, free.DailyQuota)
	assert.False(t, free.CanForceRegenerate)
	assert.True(t, unlimited.Unlimited)
	assert.True(t, unlimited.CanForceRegenerate)
	assert.Len(t, unlimited.Modes, len(entity.Modes))
}

func TestGetUserUsageStatus(t *testing.T) {
	today := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name          string
		plan          entity.Plan
		timezone      string
		usage         entity.UsageStats
		wantUsed      int
		wantRemaining int
		wantStreak    int
		wantCan       bool
		wantResetsAt  time.Time
	}{
		{
			name:          "same day keeps the counter",
			plan:          entity.PlanStarter,
			usage:         entity.UsageStats{TotalGenerations: 9, DailyGenerations: 3, LastActiveDate: today.Add(-time.Hour), StreakDays: 2},
			wantUsed:      3,
			wantRemaining: 2,
			wantStreak:    2,
			wantCan:       true,
		},
		{
			name:          "new day resets and extends the streak",
			plan:          entity.PlanStarter,
			usage:         entity.UsageStats{TotalGenerations: 9, DailyGenerations: 5, LastActiveDate: yesterday, StreakDays: 2},
			wantUsed:      0,
			wantRemaining: 5,
			wantStreak:    3,
			wantCan:       true,
		},
		{
			name:          "exhausted quota",
			plan:          entity.PlanStarter,
			usage:         entity.UsageStats{TotalGenerations: 5, DailyGenerations: 5, LastActiveDate: today.Add(-time.Minute), StreakDays: 1},
			wantUsed:      5,
			wantRemaining: 0,
			wantStreak:    1,
			wantCan:       false,
		},
		{
			name:          "unlimited has no remaining count",
			plan:          entity.PlanUnlimited,
			usage:         entity.UsageStats{TotalGenerations: 90, DailyGenerations: 40, LastActiveDate: today.Add(-time.Minute), StreakDays: 1},
			wantUsed:      40,
			wantRemaining: -1,
			wantStreak:    1,
			wantCan:       true,
		},
		{
			// 23:00 on May 19 in Los Angeles; it is 02:00 on May 20 there now.
			name:          "viewer day rolled over before the server day",
			plan:          entity.PlanStarter,
			timezone:      "America/Los_Angeles",
			usage:         entity.UsageStats{TotalGenerations: 5, DailyGenerations: 5, LastActiveDate: time.Date(2025, 5, 20, 6, 0, 0, 0, time.UTC), StreakDays: 1},
			wantUsed:      0,
			wantRemaining: 5,
			wantStreak:    2,
			wantCan:       true,
			wantResetsAt:  time.Date(2025, 5, 21, 7, 0, 0, 0, time.UTC),
		},
		{
			// 03:00 on May 20 in Jakarta, the same viewer day as now.
			name:          "server day rolled over before the viewer day",
			plan:          entity.PlanStarter,
			timezone:      "Asia/Jakarta",
			usage:         entity.UsageStats{TotalGenerations: 5, DailyGenerations: 5, LastActiveDate: time.Date(2025, 5, 19, 20, 0, 0, 0, time.UTC), StreakDays: 1},
			wantUsed:      5,
			wantRemaining: 0,
			wantStreak:    1,
			wantCan:       false,
			wantResetsAt:  time.Date(2025, 5, 20, 17, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			ctx := context.Background()
			userID := uuid.New()
			repo := implementation.NewProfileRepository(db)
			require.NoError(t, repo.Create(ctx, &entity.UserProfile{Id: userID, DisplayName: "Lee", Plan: tt.plan, Timezone: tt.timezone, Usage: tt.usage}))

			svc := NewPlanService(unitofwork.NewRepositoryFactory(db), quota.NewFakeClock(today))
			status, err := svc.GetUserUsageStatus(ctx, userID, "", "")
			require.NoError(t, err)

			assert.Equal(t, tt.plan, status.Plan)
			assert.Equal(t, "Lee", status.DisplayName)
			assert.Equal(t, tt.wantUsed, status.Used)
			assert.Equal(t, tt.wantRemaining, status.Remaining)
			assert.Equal(t, tt.wantCan, status.CanGenerate)
			assert.Equal(t, tt.wantStreak, status.Usage.StreakDays)
			wantResetsAt := tt.wantResetsAt
			if wantResetsAt.IsZero() {
				wantResetsAt = time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
			}
			assert.True(t, wantResetsAt.Equal(status.ResetsAt), "resets at %s", status.ResetsAt)

			stored, err := repo.FindById(ctx, userID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUsed, stored.Usage.DailyGenerations)
			assert.Equal(t, tt.usage.TotalGenerations, stored.Usage.TotalGenerations)
		})
	}
}

func TestGetUserUsageStatusCreatesFreeProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlanService(unitofwork.NewRepositoryFactory(db), quota.NewFakeClock(time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)))

	status, err := svc.GetUserUsageStatus(context.Background(), uuid.New(), "Noor", "")
	require.NoError(t, err)
	assert.Equal(t, entity.PlanFree, status.Plan)
	assert.Equal(t, "Noor", status.DisplayName)
	assert.Equal(t, 0, status.Quota)
	assert.False(t, status.CanGenerate)
	assert.True(t, status.UpgradeAvailable)
	assert.Equal(t, []entity.Feature{entity.FeatureThemes}, status.Capabilities)
}
