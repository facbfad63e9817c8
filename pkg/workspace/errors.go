package workspace

import (
	"errors"
	"fmt"

	"studyspace-be/internal/entity"
)

var (
	ErrTabNotFound          = errors.New("tab not found")
	ErrInvalidMode          = errors.New("invalid mode")
	ErrEmptyInput           = errors.New("input is empty")
	ErrTabLocked            = errors.New("tab is locked")
	ErrLockNotSupported     = errors.New("tab does not support locking")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrNoResult             = errors.New("no result for mode")
	ErrGenerationFailed     = errors.New("generation failed")
)

// GenerationFailedError is returned when the generator itself failed. The
// tab keeps its input so the user can retry.
type GenerationFailedError struct {
	Tab   entity.TabID
	Mode  entity.Mode
	Cause error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generate %s for %s tab: %v", e.Mode, e.Tab, e.Cause)
}

func (e *GenerationFailedError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Cause
}
