// FILE: internal/entity/plan_entity.go
package entity

type Plan string
type Feature string

const (
	PlanFree      Plan = "free"
	PlanStarter   Plan = "starter"
	PlanStudent   Plan = "student"
	PlanPro       Plan = "pro"
	PlanUnlimited Plan = "unlimited"
)

// Plans lists every plan from the lowest tier to the highest.
var Plans = []Plan{PlanFree, PlanStarter, PlanStudent, PlanPro, PlanUnlimited}

const (
	FeatureThemes     Feature = "themes"
	FeatureSave       Feature = "save"
	FeatureEnglish    Feature = "english"
	FeatureSharing    Feature = "sharing"
	FeatureTTS        Feature = "tts"
	FeatureRegen      Feature = "regen"
	FeatureCourses    Feature = "courses"
	FeatureFlashcards Feature = "flashcards"
	FeatureSummaries  Feature = "summaries"
	FeatureTest       Feature = "test"
	FeatureStudyPlan  Feature = "studyplan"
)

var Features = []Feature{
	FeatureThemes, FeatureSave, FeatureEnglish, FeatureSharing, FeatureTTS, FeatureRegen,
	FeatureCourses, FeatureFlashcards, FeatureSummaries, FeatureTest, FeatureStudyPlan,
}

// Quota is a daily generation allowance. -1 = unlimited, 0 = no generation at all.
type Quota int

const QuotaUnlimited Quota = -1

func (q Quota) IsUnlimited() bool {
	return q < 0
}

func (p Plan) IsValid() bool {
	for _, known := range Plans {
		if p == known {
			return true
		}
	}
	return false
}
