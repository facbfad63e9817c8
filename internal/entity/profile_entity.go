// FILE: internal/entity/profile_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTimezone is stored for profiles that never reported one.
const DefaultTimezone = "UTC"

type UsageStats struct {
	TotalGenerations int       // never reset
	DailyGenerations int       // reset at the local day boundary
	LastActiveDate   time.Time // last reset-relevant activity
	MasteredConcepts int       // incremented on save
	StreakDays       int
}

type UserProfile struct {
	Id          uuid.UUID
	DisplayName string
	Plan        Plan
	Timezone    string // IANA name; daily usage rolls over at midnight here
	Usage       UsageStats
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileUpdate is a partial merge; nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName      *string
	Plan             *Plan
	Timezone         *string
	TotalGenerations *int
	DailyGenerations *int
	LastActiveDate   *time.Time
	MasteredConcepts *int
	StreakDays       *int
}

// UsageReset is the unconditional set written when a new day starts.
func UsageReset(usage UsageStats) ProfileUpdate {
	return ProfileUpdate{
		DailyGenerations: &usage.DailyGenerations,
		LastActiveDate:   &usage.LastActiveDate,
		StreakDays:       &usage.StreakDays,
	}
}

// UsageDelta is applied atomically on top of the stored counters.
type UsageDelta struct {
	TotalGenerations int
	DailyGenerations int
	MasteredConcepts int
	ActiveAt         *time.Time
}
