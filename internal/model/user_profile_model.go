package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProfile struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DisplayName      string         `gorm:"type:varchar(255);not null"`
	Plan             string         `gorm:"type:varchar(32);not null;default:'free'"`
	Timezone         string         `gorm:"type:varchar(64);not null;default:'UTC'"`
	TotalGenerations int            `gorm:"not null;default:0"`
	DailyGenerations int            `gorm:"not null;default:0"`
	LastActiveDate   time.Time      `gorm:"index"`
	MasteredConcepts int            `gorm:"not null;default:0"`
	StreakDays       int            `gorm:"not null;default:0"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
