// Package ranking turns one emission of the activity feed into a ranked,
// immutable leaderboard snapshot.
package ranking

import (
	"sort"
	"time"

	"studyspace-be/internal/entity"

	"github.com/google/uuid"
)

// RankedRecord is an activity record with its 1-based position.
type RankedRecord struct {
	entity.ActivityRecord
	Rank int `json:"rank"`
}

// Snapshot is never mutated after BuildSnapshot returns it.
type Snapshot struct {
	Records    []RankedRecord `json:"records"`
	ViewerId   uuid.UUID      `json:"viewer_id"`
	ViewerRank *int           `json:"viewer_rank,omitempty"`
	BuiltAt    time.Time      `json:"built_at"`
}

// BuildSnapshot sorts records by daily generations, highest first. The sort is
// stable so ties keep the feed's order, which is already most-recent-first.
func BuildSnapshot(records []entity.ActivityRecord, viewerID uuid.UUID, at time.Time) Snapshot {
	ordered := make([]entity.ActivityRecord, len(records))
	copy(ordered, records)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DailyGenerations > ordered[j].DailyGenerations
	})

	snap := Snapshot{
		Records:  make([]RankedRecord, len(ordered)),
		ViewerId: viewerID,
		BuiltAt:  at,
	}
	for i, rec := range ordered {
		snap.Records[i] = RankedRecord{ActivityRecord: rec, Rank: i + 1}
		if snap.ViewerRank == nil && viewerID != uuid.Nil && rec.UserId == viewerID {
			rank := i + 1
			snap.ViewerRank = &rank
		}
	}
	return snap
}

// ForViewer re-targets the viewer of an existing snapshot without re-sorting.
func (s Snapshot) ForViewer(viewerID uuid.UUID) Snapshot {
	out := Snapshot{Records: s.Records, ViewerId: viewerID, BuiltAt: s.BuiltAt}
	for _, rec := range s.Records {
		if rec.UserId == viewerID {
			rank := rec.Rank
			out.ViewerRank = &rank
			break
		}
	}
	return out
}

// Viewer returns the viewer's own ranked record, if present.
func (s Snapshot) Viewer() (RankedRecord, bool) {
	if s.ViewerRank == nil {
		return RankedRecord{}, false
	}
	return s.Records[*s.ViewerRank-1], true
}

// FilterActive keeps records active within window of now, most recent first
// and then by count. This is the ordering the feed promises upstream.
func FilterActive(records []entity.ActivityRecord, now time.Time, window time.Duration, limit int) []entity.ActivityRecord {
	cutoff := now.Add(-window)
	active := make([]entity.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if !rec.LastActiveDate.Before(cutoff) {
			active = append(active, rec)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].LastActiveDate.Equal(active[j].LastActiveDate) {
			return active[i].LastActiveDate.After(active[j].LastActiveDate)
		}
		return active[i].DailyGenerations > active[j].DailyGenerations
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active
}
