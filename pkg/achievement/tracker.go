package achievement

import (
	"sync"

	"studyspace-be/internal/entity"
	"studyspace-be/pkg/ranking"
)

// Tracker holds the one achievement currently shown to a viewer and only
// reports a new event when its (type, rank) differs from what is shown.
type Tracker struct {
	mu        sync.Mutex
	detector  *Detector
	current   *entity.Achievement
	dismissed bool
}

func NewTracker() *Tracker {
	return &Tracker{detector: NewDetector()}
}

// Observe feeds one snapshot. It returns the achievement to surface, or nil
// when nothing new should be shown. A cycle without an achievement clears the
// current one.
func (t *Tracker) Observe(snap ranking.Snapshot) *entity.Achievement {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.detector.Observe(snap)
	if next == nil {
		if _, ranked := snap.Viewer(); ranked {
			t.current = nil
		}
		return nil
	}
	if sameStanding(t.current, next) {
		return nil
	}
	t.current = next
	t.dismissed = false
	copied := *next
	return &copied
}

func (t *Tracker) Current() *entity.Achievement {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.dismissed {
		return nil
	}
	copied := *t.current
	return &copied
}

// Dismiss hides the displayed achievement. The standing is still remembered,
// so an unchanged standing is not announced again.
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	t.dismissed = true
	t.mu.Unlock()
}

func (t *Tracker) BestRankSeen() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detector.BestRankSeen()
}

func sameStanding(a, b *entity.Achievement) bool {
	return a != nil && b != nil && a.Type == b.Type && a.Rank == b.Rank
}
