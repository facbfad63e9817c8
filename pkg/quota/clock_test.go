package quota

import (
	"testing"
	"time"

	"studyspace-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestShouldReset(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)

	tests := []struct {
		name       string
		lastActive time.Time
		now        time.Time
		want       bool
	}{
		{
			name:       "zero last active",
			lastActive: time.Time{},
			now:        time.Date(2026, 3, 10, 9, 0, 0, 0, loc),
			want:       true,
		},
		{
			name:       "same day morning and night",
			lastActive: time.Date(2026, 3, 10, 0, 1, 0, 0, loc),
			now:        time.Date(2026, 3, 10, 23, 59, 0, 0, loc),
			want:       false,
		},
		{
			name:       "just past midnight",
			lastActive: time.Date(2026, 3, 10, 23, 59, 0, 0, loc),
			now:        time.Date(2026, 3, 11, 0, 0, 1, 0, loc),
			want:       true,
		},
		{
			name:       "less than 24h but a new calendar day",
			lastActive: time.Date(2026, 3, 10, 22, 0, 0, 0, loc),
			now:        time.Date(2026, 3, 11, 6, 0, 0, 0, loc),
			want:       true,
		},
		{
			name:       "stored in UTC, compared in local day",
			lastActive: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC), // 01:00 on the 11th locally
			now:        time.Date(2026, 3, 11, 8, 0, 0, 0, loc),
			want:       false,
		},
		{
			name:       "last active in the future",
			lastActive: time.Date(2026, 3, 12, 8, 0, 0, 0, loc),
			now:        time.Date(2026, 3, 11, 8, 0, 0, 0, loc),
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldReset(tt.lastActive, tt.now))
		})
	}
}

func TestResetIsIdempotentWithinADay(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC))
	usage := entity.UsageStats{
		TotalGenerations: 12,
		DailyGenerations: 4,
		LastActiveDate:   time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC),
		StreakDays:       3,
	}

	first, changed := Reset(usage, clock.Now())
	assert.True(t, changed)
	assert.Equal(t, 0, first.DailyGenerations)
	assert.Equal(t, 12, first.TotalGenerations)
	assert.Equal(t, clock.Now(), first.LastActiveDate)
	assert.Equal(t, 4, first.StreakDays)

	clock.Advance(3 * time.Hour)
	first.DailyGenerations = 2
	second, changed := Reset(first, clock.Now())
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestResetStreak(t *testing.T) {
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)

	t.Run("gap breaks the streak", func(t *testing.T) {
		usage := entity.UsageStats{LastActiveDate: now.AddDate(0, 0, -3), StreakDays: 9}
		got, _ := Reset(usage, now)
		assert.Equal(t, 1, got.StreakDays)
	})

	t.Run("first activity starts a streak", func(t *testing.T) {
		got, changed := Reset(entity.UsageStats{}, now)
		assert.True(t, changed)
		assert.Equal(t, 1, got.StreakDays)
	})
}

func TestNextReset(t *testing.T) {
	now := time.Date(2026, 12, 31, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), NextReset(now))
}
