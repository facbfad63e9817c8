// Package achievement converts successive leaderboard snapshots into
// de-duplicated achievement events for one viewing session.
package achievement

import (
	"studyspace-be/internal/entity"
	"studyspace-be/pkg/ranking"
)

const (
	eliteMaxRank = 3
	proMaxRank   = 10
	leapMinGain  = 5
)

// Detector remembers the best rank the viewer has held this session.
// bestRankSeen only ever decreases numerically.
type Detector struct {
	bestRankSeen *int
}

func NewDetector() *Detector {
	return &Detector{}
}

// BestRankSeen returns the best (lowest) rank observed so far.
func (d *Detector) BestRankSeen() (int, bool) {
	if d.bestRankSeen == nil {
		return 0, false
	}
	return *d.bestRankSeen, true
}

// Observe evaluates one snapshot. It returns nil when the viewer is unranked
// or earned nothing this cycle.
func (d *Detector) Observe(snap ranking.Snapshot) *entity.Achievement {
	viewer, ok := snap.Viewer()
	if !ok {
		return nil
	}
	rank := viewer.Rank

	var result *entity.Achievement
	if kind, ok := tierFor(rank); ok {
		result = newAchievement(kind, viewer, snap)
	} else if d.bestRankSeen != nil && *d.bestRankSeen-rank >= leapMinGain {
		result = newAchievement(entity.AchievementLeap, viewer, snap)
		from := *d.bestRankSeen
		result.FromRank = &from
	}

	if d.bestRankSeen == nil || rank < *d.bestRankSeen {
		best := rank
		d.bestRankSeen = &best
	}
	return result
}

// tierFor applies the absolute-rank tiers: champion > elite > pro.
func tierFor(rank int) (entity.AchievementType, bool) {
	switch {
	case rank == 1:
		return entity.AchievementChampion, true
	case rank >= 2 && rank <= eliteMaxRank:
		return entity.AchievementElite, true
	case rank > eliteMaxRank && rank <= proMaxRank:
		return entity.AchievementPro, true
	}
	return "", false
}

func newAchievement(kind entity.AchievementType, viewer ranking.RankedRecord, snap ranking.Snapshot) *entity.Achievement {
	return &entity.Achievement{
		Type:     kind,
		Rank:     viewer.Rank,
		UserName: viewer.DisplayName,
		Count:    viewer.DailyGenerations,
		Date:     snap.BuiltAt,
	}
}
