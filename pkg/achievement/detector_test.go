package achievement

import (
	"fmt"
	"testing"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/pkg/ranking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewerID = uuid.MustParse("5f0c3f5e-8d7a-4a3b-9b51-0c2f6f0c9a11")

// snapshotWithViewerAt builds a board of size max(rank, 12) with the viewer at rank.
func snapshotWithViewerAt(rank int) ranking.Snapshot {
	size := 12
	if rank > size {
		size = rank
	}
	records := make([]entity.ActivityRecord, 0, size)
	for i := 1; i <= size; i++ {
		rec := entity.ActivityRecord{
			UserId:           uuid.New(),
			DisplayName:      fmt.Sprintf("user-%d", i),
			DailyGenerations: 1000 - i,
		}
		if i == rank {
			rec.UserId = viewerID
			rec.DisplayName = "viewer"
		}
		records = append(records, rec)
	}
	return ranking.BuildSnapshot(records, viewerID, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC))
}

func unranked() ranking.Snapshot {
	return ranking.BuildSnapshot([]entity.ActivityRecord{{UserId: uuid.New(), DailyGenerations: 3}}, viewerID, time.Now())
}

func TestDetectorTiers(t *testing.T) {
	tests := []struct {
		rank int
		want entity.AchievementType
	}{
		{1, entity.AchievementChampion},
		{2, entity.AchievementElite},
		{3, entity.AchievementElite},
		{4, entity.AchievementPro},
		{10, entity.AchievementPro},
		{11, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("rank %d", tt.rank), func(t *testing.T) {
			got := NewDetector().Observe(snapshotWithViewerAt(tt.rank))
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.rank, got.Rank)
			assert.Equal(t, "viewer", got.UserName)
			assert.Equal(t, 1000-tt.rank, got.Count)
		})
	}
}

func TestDetectorLeap(t *testing.T) {
	t.Run("gain of six is a leap", func(t *testing.T) {
		d := NewDetector()
		assert.Nil(t, d.Observe(snapshotWithViewerAt(20)))

		got := d.Observe(snapshotWithViewerAt(14))
		require.NotNil(t, got)
		assert.Equal(t, entity.AchievementLeap, got.Type)
		assert.Equal(t, 14, got.Rank)
		require.NotNil(t, got.FromRank)
		assert.Equal(t, 20, *got.FromRank)
	})

	t.Run("gain of exactly five is a leap", func(t *testing.T) {
		d := NewDetector()
		d.Observe(snapshotWithViewerAt(20))
		got := d.Observe(snapshotWithViewerAt(15))
		require.NotNil(t, got)
		assert.Equal(t, entity.AchievementLeap, got.Type)
	})

	t.Run("gain of four is nothing", func(t *testing.T) {
		d := NewDetector()
		d.Observe(snapshotWithViewerAt(20))
		assert.Nil(t, d.Observe(snapshotWithViewerAt(16)))
	})

	t.Run("first snapshot never leaps", func(t *testing.T) {
		assert.Nil(t, NewDetector().Observe(snapshotWithViewerAt(30)))
	})

	t.Run("tiers take precedence over leap", func(t *testing.T) {
		d := NewDetector()
		d.Observe(snapshotWithViewerAt(25))
		got := d.Observe(snapshotWithViewerAt(8))
		require.NotNil(t, got)
		assert.Equal(t, entity.AchievementPro, got.Type)
		assert.Nil(t, got.FromRank)
	})

	t.Run("leap is measured from best rank, not last rank", func(t *testing.T) {
		d := NewDetector()
		d.Observe(snapshotWithViewerAt(14))
		d.Observe(snapshotWithViewerAt(30))
		assert.Nil(t, d.Observe(snapshotWithViewerAt(20)))
	})
}

func TestDetectorBestRankIsMonotonic(t *testing.T) {
	d := NewDetector()
	_, ok := d.BestRankSeen()
	assert.False(t, ok)

	ranks := []int{18, 25, 12, 12, 30, 9, 40}
	minSeen := ranks[0]
	for _, r := range ranks {
		d.Observe(snapshotWithViewerAt(r))
		if r < minSeen {
			minSeen = r
		}
		best, ok := d.BestRankSeen()
		require.True(t, ok)
		assert.Equal(t, minSeen, best)
	}
}

func TestDetectorUnrankedLeavesStateAlone(t *testing.T) {
	d := NewDetector()
	d.Observe(snapshotWithViewerAt(20))

	assert.Nil(t, d.Observe(unranked()))
	best, _ := d.BestRankSeen()
	assert.Equal(t, 20, best)
}

func TestTrackerDeduplicates(t *testing.T) {
	tr := NewTracker()

	first := tr.Observe(snapshotWithViewerAt(1))
	require.NotNil(t, first)
	assert.Equal(t, entity.AchievementChampion, first.Type)

	assert.Nil(t, tr.Observe(snapshotWithViewerAt(1)), "unchanged standing must not re-emit")
	require.NotNil(t, tr.Current())

	second := tr.Observe(snapshotWithViewerAt(2))
	require.NotNil(t, second)
	assert.Equal(t, entity.AchievementElite, second.Type)

	third := tr.Observe(snapshotWithViewerAt(3))
	require.NotNil(t, third, "same tier at a different rank is a new standing")
	assert.Equal(t, 3, third.Rank)
}

func TestTrackerClearsWhenNothingEarned(t *testing.T) {
	tr := NewTracker()
	require.NotNil(t, tr.Observe(snapshotWithViewerAt(5)))

	assert.Nil(t, tr.Observe(snapshotWithViewerAt(15)))
	assert.Nil(t, tr.Current())

	assert.NotNil(t, tr.Observe(snapshotWithViewerAt(5)))
}

func TestTrackerKeepsCurrentWhileUnranked(t *testing.T) {
	tr := NewTracker()
	require.NotNil(t, tr.Observe(snapshotWithViewerAt(2)))

	assert.Nil(t, tr.Observe(unranked()))
	require.NotNil(t, tr.Current())
	assert.Nil(t, tr.Observe(snapshotWithViewerAt(2)))
}

func TestTrackerDismiss(t *testing.T) {
	tr := NewTracker()
	require.NotNil(t, tr.Observe(snapshotWithViewerAt(1)))

	tr.Dismiss()
	assert.Nil(t, tr.Current())
	assert.Nil(t, tr.Observe(snapshotWithViewerAt(1)))

	got := tr.Observe(snapshotWithViewerAt(2))
	require.NotNil(t, got)
	require.NotNil(t, tr.Current())
	assert.Equal(t, entity.AchievementElite, tr.Current().Type)
}
