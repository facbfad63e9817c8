package entitlement

import "studyspace-be/internal/entity"

// PlanSpec is the static definition of one plan.
type PlanSpec struct {
	Plan         entity.Plan
	Name         string
	DailyQuota   entity.Quota
	Capabilities map[entity.Feature]bool
}

func grant(features ...entity.Feature) map[entity.Feature]bool {
	set := make(map[entity.Feature]bool, len(features))
	for _, f := range features {
		set[f] = true
	}
	return set
}

var starterFeatures = []entity.Feature{
	entity.FeatureThemes, entity.FeatureSave, entity.FeatureEnglish,
	entity.FeatureFlashcards, entity.FeatureSummaries,
}

var studentFeatures = append(append([]entity.Feature{}, starterFeatures...),
	entity.FeatureSharing, entity.FeatureTTS, entity.FeatureRegen, entity.FeatureTest,
)

var proFeatures = append(append([]entity.Feature{}, studentFeatures...),
	entity.FeatureCourses, entity.FeatureStudyPlan,
)

// planTable is a whitelist: a feature missing from a plan's set is denied.
var planTable = map[entity.Plan]PlanSpec{
	entity.PlanFree: {
		Plan:         entity.PlanFree,
		Name:         "Free",
		DailyQuota:   0,
		Capabilities: grant(entity.FeatureThemes),
	},
	entity.PlanStarter: {
		Plan:         entity.PlanStarter,
		Name:         "Starter",
		DailyQuota:   5,
		Capabilities: grant(starterFeatures...),
	},
	entity.PlanStudent: {
		Plan:         entity.PlanStudent,
		Name:         "Student",
		DailyQuota:   20,
		Capabilities: grant(studentFeatures...),
	},
	entity.PlanPro: {
		Plan:         entity.PlanPro,
		Name:         "Pro",
		DailyQuota:   50,
		Capabilities: grant(proFeatures...),
	},
	entity.PlanUnlimited: {
		Plan:         entity.PlanUnlimited,
		Name:         "Unlimited",
		DailyQuota:   entity.QuotaUnlimited,
		Capabilities: grant(entity.Features...),
	},
}

// modeFeatures maps an output mode to the capability it needs. Modes not
// listed only need quota.
var modeFeatures = map[entity.Mode]entity.Feature{
	entity.ModeFlashcards: entity.FeatureFlashcards,
	entity.ModeSummary:    entity.FeatureSummaries,
	entity.ModeQuiz:       entity.FeatureTest,
	entity.ModeStudyPlan:  entity.FeatureStudyPlan,
}

// Spec returns the definition of plan, falling back to the free plan for
// unknown identifiers.
func Spec(plan entity.Plan) PlanSpec {
	if spec, ok := planTable[plan]; ok {
		return spec
	}
	return planTable[entity.PlanFree]
}

// AllSpecs returns plan definitions in tier order.
func AllSpecs() []PlanSpec {
	specs := make([]PlanSpec, 0, len(entity.Plans))
	for _, p := range entity.Plans {
		specs = append(specs, planTable[p])
	}
	return specs
}
