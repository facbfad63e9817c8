// FILE: internal/entity/workspace_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type TabID string
type Mode string

const (
	TabGeneral   TabID = "general"
	TabExam      TabID = "exam"
	TabEquations TabID = "equations"
)

var Tabs = []TabID{TabGeneral, TabExam, TabEquations}

const (
	ModeFlashcards Mode = "flashcards"
	ModeSummary    Mode = "summary"
	ModeQuiz       Mode = "quiz"
	ModeStudyPlan  Mode = "studyplan"
	ModeExplain    Mode = "explain"
)

var Modes = []Mode{ModeFlashcards, ModeSummary, ModeQuiz, ModeStudyPlan, ModeExplain}

func (t TabID) IsValid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

func (m Mode) IsValid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Content is one generated artifact.
type Content struct {
	Mode        Mode      `json:"mode"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generated_at"`
}

type StudyHistoryItem struct {
	Id           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	TopicExcerpt string    `json:"topic_excerpt"`
	Mode         Mode      `json:"mode"`
}

// LibraryItem is a result the user explicitly saved.
type LibraryItem struct {
	Id      uuid.UUID `json:"id"`
	Tab     TabID     `json:"tab"`
	Content Content   `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}

type ViewState struct {
	ActiveTab       TabID `json:"active_tab"`
	ShowLeaderboard bool  `json:"show_leaderboard"`
}
