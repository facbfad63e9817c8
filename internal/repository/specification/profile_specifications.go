package specification

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveSince keeps profiles with at least one generation whose last
// activity is not older than Since.
type ActiveSince struct {
	Since time.Time
}

func (s ActiveSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_active_date >= ? AND daily_generations > 0", s.Since)
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
