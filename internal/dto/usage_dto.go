// DTOs for plans, quota and usage status
package dto

import (
	"time"

	"studyspace-be/internal/entity"
)

// UsageStatsResponse mirrors entity.UsageStats with epoch-millis dates.
type UsageStatsResponse struct {
	TotalGenerations int   `json:"total_generations"`
	DailyGenerations int   `json:"daily_generations"`
	LastActiveDate   int64 `json:"last_active_date"`
	MasteredConcepts int   `json:"mastered_concepts"`
	StreakDays       int   `json:"streak_days"`
}

func NewUsageStatsResponse(u entity.UsageStats) *UsageStatsResponse {
	return &UsageStatsResponse{
		TotalGenerations: u.TotalGenerations,
		DailyGenerations: u.DailyGenerations,
		LastActiveDate:   millis(u.LastActiveDate),
		MasteredConcepts: u.MasteredConcepts,
		StreakDays:       u.StreakDays,
	}
}

// UsageStatusResponse is returned by GET /api/user/usage-status
type UsageStatusResponse struct {
	Plan               entity.Plan        `json:"plan"`
	DisplayName        string             `json:"display_name"`
	Quota              int                `json:"quota"` // -1 = unlimited, 0 = no generation
	Used               int                `json:"used"`
	Remaining          int                `json:"remaining"` // -1 when unlimited
	CanGenerate        bool               `json:"can_generate"`
	ResetsAt           time.Time          `json:"resets_at"`
	Capabilities       []entity.Feature   `json:"capabilities"`
	CanForceRegenerate bool               `json:"can_force_regenerate"`
	UpgradeAvailable   bool               `json:"upgrade_available"`
	Usage              UsageStatsResponse `json:"usage"`
}

// PlanResponse is returned by GET /api/plans (public)
type PlanResponse struct {
	Plan               entity.Plan   `json:"plan"`
	Name               string        `json:"name"`
	DailyQuota         int           `json:"daily_quota"`
	Unlimited          bool          `json:"unlimited"`
	Features           []FeatureDTO  `json:"features"`
	CanForceRegenerate bool          `json:"can_force_regenerate"`
	Modes              []entity.Mode `json:"modes"`
}

type FeatureDTO struct {
	Key       entity.Feature `json:"key"`
	IsEnabled bool           `json:"is_enabled"`
}

// LimitExceededData is the data payload for 429 responses
type LimitExceededData struct {
	Limit            int       `json:"limit"`
	Used             int       `json:"used"`
	ResetAfter       time.Time `json:"reset_after"`
	ShowModalPricing bool      `json:"show_modal_pricing"`
}

// UpgradeRequiredData is the data payload for 403 entitlement responses
type UpgradeRequiredData struct {
	Plan             entity.Plan    `json:"plan"`
	Feature          entity.Feature `json:"feature,omitempty"`
	ShowModalPricing bool           `json:"show_modal_pricing"`
}
