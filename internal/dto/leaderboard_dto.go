package dto

import (
	"studyspace-be/internal/entity"
	"studyspace-be/pkg/ranking"

	"github.com/google/uuid"
)

type RankedRecordResponse struct {
	Rank             int       `json:"rank"`
	UserId           uuid.UUID `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	DailyGenerations int       `json:"daily_generations"`
	LastActiveDate   int64     `json:"last_active_date"`
	IsViewer         bool      `json:"is_viewer"`
}

type AchievementResponse struct {
	Type     entity.AchievementType `json:"type"`
	Rank     int                    `json:"rank"`
	FromRank *int                   `json:"from_rank,omitempty"`
	UserName string                 `json:"user_name"`
	Count    int                    `json:"count"`
	Date     int64                  `json:"date"`
}

// LeaderboardResponse is both the REST body and the leaderboard.snapshot frame.
type LeaderboardResponse struct {
	Records     []RankedRecordResponse `json:"records"`
	ViewerRank  *int                   `json:"viewer_rank"`
	BuiltAt     int64                  `json:"built_at"`
	Achievement *AchievementResponse   `json:"achievement,omitempty"`
}

func NewAchievementResponse(a *entity.Achievement) *AchievementResponse {
	if a == nil {
		return nil
	}
	return &AchievementResponse{
		Type:     a.Type,
		Rank:     a.Rank,
		FromRank: a.FromRank,
		UserName: a.UserName,
		Count:    a.Count,
		Date:     millis(a.Date),
	}
}

func NewLeaderboardResponse(snap ranking.Snapshot, current *entity.Achievement) *LeaderboardResponse {
	records := make([]RankedRecordResponse, 0, len(snap.Records))
	for _, rec := range snap.Records {
		records = append(records, RankedRecordResponse{
			Rank:             rec.Rank,
			UserId:           rec.UserId,
			DisplayName:      rec.DisplayName,
			DailyGenerations: rec.DailyGenerations,
			LastActiveDate:   millis(rec.LastActiveDate),
			IsViewer:         snap.ViewerRank != nil && rec.Rank == *snap.ViewerRank,
		})
	}
	return &LeaderboardResponse{
		Records:     records,
		ViewerRank:  snap.ViewerRank,
		BuiltAt:     millis(snap.BuiltAt),
		Achievement: NewAchievementResponse(current),
	}
}
