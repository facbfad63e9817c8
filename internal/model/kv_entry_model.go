package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// KVEntry stores one persisted workspace slice per user and key.
type KVEntry struct {
	UserId    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Key       string         `gorm:"column:entry_key;type:varchar(64);primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
