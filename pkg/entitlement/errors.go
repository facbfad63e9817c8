package entitlement

import (
	"errors"
	"time"

	"studyspace-be/internal/entity"
)

var ErrEntitlementDenied = errors.New("entitlement denied")

// DeniedError carries the reason a request was refused plus usage details
// for the pricing prompt.
type DeniedError struct {
	Reason     string
	Plan       entity.Plan
	Feature    entity.Feature
	Limit      entity.Quota
	Used       int
	ResetAfter *time.Time
}

func (e *DeniedError) Error() string {
	return e.Reason
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrEntitlementDenied
}

// IsQuotaExhausted distinguishes "come back tomorrow" from "upgrade".
func (e *DeniedError) IsQuotaExhausted() bool {
	return e.Reason == ReasonDailyLimitReached
}

// Err converts a denied decision into a *DeniedError; nil when allowed.
func (d Decision) Err(plan entity.Plan, resetAfter time.Time) error {
	if d.Allowed {
		return nil
	}
	e := &DeniedError{Reason: d.Reason, Plan: plan, Limit: d.Limit, Used: d.Used}
	if d.Reason == ReasonDailyLimitReached {
		e.ResetAfter = &resetAfter
	}
	return e
}

func FeatureDenied(plan entity.Plan, feature entity.Feature) error {
	return &DeniedError{Reason: ReasonFeatureNotInPlan, Plan: plan, Feature: feature, Limit: QuotaFor(plan)}
}
