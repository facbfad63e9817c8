package contract

import (
	"context"
	"errors"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/repository/specification"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error)
	// FindById returns ErrProfileNotFound instead of a nil profile.
	FindById(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error)
	// FindOrCreate returns the stored profile or creates a free-plan one.
	FindOrCreate(ctx context.Context, id uuid.UUID, displayName string) (*entity.UserProfile, error)
	Update(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) error
	IncrementUsage(ctx context.Context, id uuid.UUID, delta entity.UsageDelta) (*entity.UsageStats, error)
}

type ActivityRepository interface {
	// FindActive lists users active since the given instant, most recent
	// first, then by daily generations.
	FindActive(ctx context.Context, since time.Time, limit int) ([]entity.ActivityRecord, error)
}
