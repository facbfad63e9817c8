package contract

import (
	"context"

	"github.com/google/uuid"
)

// KVStore persists JSON values namespaced per user.
type KVStore interface {
	// Get decodes the stored value into dst; found is false when nothing is stored.
	Get(ctx context.Context, userID uuid.UUID, key string, dst interface{}) (found bool, err error)
	Set(ctx context.Context, userID uuid.UUID, key string, value interface{}) error
	Delete(ctx context.Context, userID uuid.UUID, key string) error
}
