package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"studyspace-be/internal/model"
	"studyspace-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKVStore keeps workspace slices in the kv_entries table.
type GormKVStore struct {
	db *gorm.DB
}

func NewGormKVStore(db *gorm.DB) contract.KVStore {
	return &GormKVStore{db: db}
}

func (s *GormKVStore) Get(ctx context.Context, userID uuid.UUID, key string, dst interface{}) (bool, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).Where("user_id = ? AND entry_key = ?", userID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(entry.Value, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *GormKVStore) Set(ctx context.Context, userID uuid.UUID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	entry := model.KVEntry{UserId: userID, Key: key, Value: datatypes.JSON(raw)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormKVStore) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	return s.db.WithContext(ctx).Where("user_id = ? AND entry_key = ?", userID, key).Delete(&model.KVEntry{}).Error
}
