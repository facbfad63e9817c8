// Package entitlement answers whether a plan may use a feature and whether a
// generation request fits inside the plan's daily quota.
package entitlement

import "studyspace-be/internal/entity"

const (
	ReasonUpgradeRequired   = "upgrade required"
	ReasonDailyLimitReached = "daily limit reached"
	ReasonFeatureNotInPlan  = "feature not in plan"
)

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool
	Reason  string
	Limit   entity.Quota
	Used    int
}

func allowed() Decision {
	return Decision{Allowed: true}
}

// CanUse reports whether plan grants feature. Unknown plans and features are denied.
func CanUse(plan entity.Plan, feature entity.Feature) bool {
	spec, ok := planTable[plan]
	if !ok {
		return false
	}
	return spec.Capabilities[feature]
}

// QuotaFor returns the daily generation quota of plan.
func QuotaFor(plan entity.Plan) entity.Quota {
	return Spec(plan).DailyQuota
}

// CheckBeforeSubmit decides whether one more generation may run today.
func CheckBeforeSubmit(plan entity.Plan, usage entity.UsageStats) Decision {
	quota := QuotaFor(plan)

	if quota == 0 {
		return Decision{Reason: ReasonUpgradeRequired, Limit: quota, Used: usage.DailyGenerations}
	}
	if quota.IsUnlimited() {
		return allowed()
	}
	if usage.DailyGenerations >= int(quota) {
		return Decision{Reason: ReasonDailyLimitReached, Limit: quota, Used: usage.DailyGenerations}
	}
	return allowed()
}

// CanForceRegenerate gates bypassing the cache. The two lowest tiers never
// may, whatever their quota; regeneration itself does not consume quota.
func CanForceRegenerate(plan entity.Plan) bool {
	if plan == entity.Plans[0] || plan == entity.Plans[1] {
		return false
	}
	return CanUse(plan, entity.FeatureRegen)
}

// CanUseMode checks the capability an output mode depends on, if any.
func CanUseMode(plan entity.Plan, mode entity.Mode) bool {
	feature, gated := modeFeatures[mode]
	if !gated {
		return true
	}
	return CanUse(plan, feature)
}

// RequiredFeature returns the feature a mode is gated by.
func RequiredFeature(mode entity.Mode) (entity.Feature, bool) {
	f, ok := modeFeatures[mode]
	return f, ok
}
