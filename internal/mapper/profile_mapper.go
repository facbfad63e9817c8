package mapper

import (
	"studyspace-be/internal/entity"
	"studyspace-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	return &entity.UserProfile{
		Id:          p.Id,
		DisplayName: p.DisplayName,
		Plan:        entity.Plan(p.Plan),
		Timezone:    p.Timezone,
		Usage: entity.UsageStats{
			TotalGenerations: p.TotalGenerations,
			DailyGenerations: p.DailyGenerations,
			LastActiveDate:   p.LastActiveDate,
			MasteredConcepts: p.MasteredConcepts,
			StreakDays:       p.StreakDays,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	return &model.UserProfile{
		Id:               p.Id,
		DisplayName:      p.DisplayName,
		Plan:             string(p.Plan),
		Timezone:         p.Timezone,
		TotalGenerations: p.Usage.TotalGenerations,
		DailyGenerations: p.Usage.DailyGenerations,
		LastActiveDate:   p.Usage.LastActiveDate,
		MasteredConcepts: p.Usage.MasteredConcepts,
		StreakDays:       p.Usage.StreakDays,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToActivityRecord(p *model.UserProfile) entity.ActivityRecord {
	return entity.ActivityRecord{
		UserId:           p.Id,
		DisplayName:      p.DisplayName,
		DailyGenerations: p.DailyGenerations,
		LastActiveDate:   p.LastActiveDate,
	}
}

// UpdateColumns turns a partial update into a column map for gorm Updates.
func (m *ProfileMapper) UpdateColumns(u entity.ProfileUpdate) map[string]interface{} {
	cols := make(map[string]interface{})
	if u.DisplayName != nil {
		cols["display_name"] = *u.DisplayName
	}
	if u.Plan != nil {
		cols["plan"] = string(*u.Plan)
	}
	if u.Timezone != nil {
		cols["timezone"] = *u.Timezone
	}
	if u.TotalGenerations != nil {
		cols["total_generations"] = *u.TotalGenerations
	}
	if u.DailyGenerations != nil {
		cols["daily_generations"] = *u.DailyGenerations
	}
	if u.LastActiveDate != nil {
		cols["last_active_date"] = *u.LastActiveDate
	}
	if u.MasteredConcepts != nil {
		cols["mastered_concepts"] = *u.MasteredConcepts
	}
	if u.StreakDays != nil {
		cols["streak_days"] = *u.StreakDays
	}
	return cols
}
