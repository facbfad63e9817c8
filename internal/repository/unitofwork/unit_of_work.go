package unitofwork

import (
	"context"

	"studyspace-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProfileRepository() contract.ProfileRepository
	ActivityRepository() contract.ActivityRepository
	KVStore() contract.KVStore
}
