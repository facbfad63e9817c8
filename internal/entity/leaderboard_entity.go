// FILE: internal/entity/leaderboard_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityRecord is one active user's standing as supplied by the activity feed.
type ActivityRecord struct {
	UserId           uuid.UUID `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	DailyGenerations int       `json:"daily_generations"`
	LastActiveDate   time.Time `json:"last_active_date"`
}

type AchievementType string

const (
	AchievementChampion AchievementType = "champion"
	AchievementElite    AchievementType = "elite"
	AchievementPro      AchievementType = "pro"
	AchievementLeap     AchievementType = "leap"
)

type Achievement struct {
	Type     AchievementType `json:"type"`
	Rank     int             `json:"rank"`
	FromRank *int            `json:"from_rank,omitempty"`
	UserName string          `json:"user_name"`
	Count    int             `json:"count"`
	Date     time.Time       `json:"date"`
}
