package implementation

import (
	"context"
	"errors"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/mapper"
	"studyspace-be/internal/model"
	"studyspace-be/internal/repository/contract"
	"studyspace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *entity.UserProfile) error {
	if profile.Id == uuid.Nil {
		profile.Id = uuid.New()
	}
	if profile.Plan == "" {
		profile.Plan = entity.PlanFree
	}
	if profile.Timezone == "" {
		profile.Timezone = entity.DefaultTimezone
	}
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error) {
	var m model.UserProfile
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProfileRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	profile, err := r.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, contract.ErrProfileNotFound
	}
	return profile, nil
}

func (r *ProfileRepositoryImpl) FindOrCreate(ctx context.Context, id uuid.UUID, displayName string) (*entity.UserProfile, error) {
	m := model.UserProfile{Id: id, DisplayName: displayName, Plan: string(entity.PlanFree), Timezone: entity.DefaultTimezone}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}
	return r.FindById(ctx, id)
}

func (r *ProfileRepositoryImpl) Update(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) error {
	cols := r.mapper.UpdateColumns(update)
	if len(cols) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.UserProfile{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrProfileNotFound
	}
	return nil
}

// IncrementUsage adds the deltas in SQL so concurrent generations never lose a count.
func (r *ProfileRepositoryImpl) IncrementUsage(ctx context.Context, id uuid.UUID, delta entity.UsageDelta) (*entity.UsageStats, error) {
	cols := map[string]interface{}{
		"total_generations": gorm.Expr("total_generations + ?", delta.TotalGenerations),
		"daily_generations": gorm.Expr("daily_generations + ?", delta.DailyGenerations),
		"mastered_concepts": gorm.Expr("mastered_concepts + ?", delta.MasteredConcepts),
	}
	if delta.ActiveAt != nil {
		cols["last_active_date"] = *delta.ActiveAt
	}

	res := r.db.WithContext(ctx).Model(&model.UserProfile{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, contract.ErrProfileNotFound
	}

	profile, err := r.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &profile.Usage, nil
}

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{db: db, mapper: mapper.NewProfileMapper()}
}

func (r *ActivityRepositoryImpl) FindActive(ctx context.Context, since time.Time, limit int) ([]entity.ActivityRecord, error) {
	var rows []*model.UserProfile
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ActiveSince{Since: since},
		specification.OrderBy{Field: "last_active_date", Desc: true},
		specification.OrderBy{Field: "daily_generations", Desc: true},
		specification.Limit{N: limit},
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]entity.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, r.mapper.ToActivityRecord(row))
	}
	return records, nil
}
