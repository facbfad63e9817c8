// FILE: internal/service/plan_service.go
// Service for plan listing and daily usage status
package service

import (
	"context"
	"fmt"

	"studyspace-be/internal/dto"
	"studyspace-be/internal/entity"
	"studyspace-be/internal/repository/specification"
	"studyspace-be/internal/repository/unitofwork"
	"studyspace-be/pkg/entitlement"
	"studyspace-be/pkg/quota"

	"github.com/google/uuid"
)

type PlanService interface {
	// Public
	GetAllPlans(ctx context.Context) []*dto.PlanResponse

	// User
	GetUserUsageStatus(ctx context.Context, userId uuid.UUID, displayName, timezone string) (*dto.UsageStatusResponse, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      quota.Clock
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory, clock quota.Clock) PlanService {
	if clock == nil {
		clock = quota.SystemClock{}
	}
	return &planService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// GetAllPlans returns every plan in tier order for the pricing modal
func (s *planService) GetAllPlans(ctx context.Context) []*dto.PlanResponse {
	specs := entitlement.AllSpecs()
	result := make([]*dto.PlanResponse, 0, len(specs))
	for _, spec := range specs {
		features := make([]dto.FeatureDTO, 0, len(entity.Features))
		for _, f := range entity.Features {
			features = append(features, dto.FeatureDTO{Key: f, IsEnabled: spec.Capabilities[f]})
		}

		var modes []entity.Mode
		for _, m := range entity.Modes {
			if entitlement.CanUseMode(spec.Plan, m) {
				modes = append(modes, m)
			}
		}

		result = append(result, &dto.PlanResponse{
			Plan:               spec.Plan,
			Name:               spec.Name,
			DailyQuota:         int(spec.DailyQuota),
			Unlimited:          spec.DailyQuota.IsUnlimited(),
			Features:           features,
			CanForceRegenerate: entitlement.CanForceRegenerate(spec.Plan),
			Modes:              modes,
		})
	}
	return result
}

// GetUserUsageStatus returns the daily quota state, rolling the counter over
// first when the stored day is stale. Days follow the viewer's timezone.
func (s *planService) GetUserUsageStatus(ctx context.Context, userId uuid.UUID, displayName, timezone string) (*dto.UsageStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := ensureProfile(ctx, uow.ProfileRepository(), userId, displayName, timezone); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: userId}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile %s vanished", userId)
	}

	now := quota.ViewerNow(s.clock, profile.Timezone)
	if usage, reset := quota.Reset(profile.Usage, now); reset {
		if err := uow.ProfileRepository().Update(ctx, userId, entity.UsageReset(usage)); err != nil {
			return nil, fmt.Errorf("failed to reset daily usage: %w", err)
		}
		profile.Usage = usage
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	limit := entitlement.QuotaFor(profile.Plan)
	remaining := -1
	if !limit.IsUnlimited() {
		remaining = int(limit) - profile.Usage.DailyGenerations
		if remaining < 0 {
			remaining = 0
		}
	}

	capabilities := make([]entity.Feature, 0, len(entity.Features))
	for _, f := range entity.Features {
		if entitlement.CanUse(profile.Plan, f) {
			capabilities = append(capabilities, f)
		}
	}

	return &dto.UsageStatusResponse{
		Plan:               profile.Plan,
		DisplayName:        profile.DisplayName,
		Quota:              int(limit),
		Used:               profile.Usage.DailyGenerations,
		Remaining:          remaining,
		CanGenerate:        entitlement.CheckBeforeSubmit(profile.Plan, profile.Usage).Allowed,
		ResetsAt:           quota.NextReset(now),
		Capabilities:       capabilities,
		CanForceRegenerate: entitlement.CanForceRegenerate(profile.Plan),
		UpgradeAvailable:   profile.Plan != entity.PlanUnlimited,
		Usage:              *dto.NewUsageStatsResponse(profile.Usage),
	}, nil
}
