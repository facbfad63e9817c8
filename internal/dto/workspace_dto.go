package dto

import (
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/pkg/workspace"

	"github.com/google/uuid"
)

type SetInputRequest struct {
	Input string `json:"input" validate:"max=20000"`
}

type GenerateRequest struct {
	Mode  string `json:"mode" validate:"required,oneof=flashcards summary quiz studyplan explain"`
	Force bool   `json:"force"`
}

type SaveRequest struct {
	Mode string `json:"mode" validate:"required,oneof=flashcards summary quiz studyplan explain"`
}

type ViewRequest struct {
	ActiveTab       string `json:"active_tab" validate:"omitempty,oneof=general exam equations"`
	ShowLeaderboard bool   `json:"show_leaderboard"`
}

type ContentResponse struct {
	Mode        entity.Mode `json:"mode"`
	Body        string      `json:"body"`
	GeneratedAt int64       `json:"generated_at"` // epoch millis
}

type TabResponse struct {
	Tab          entity.TabID                    `json:"tab"`
	RawInput     string                          `json:"raw_input"`
	Status       workspace.Status                `json:"status"`
	IsLocked     bool                            `json:"is_locked"`
	SelectedMode entity.Mode                     `json:"selected_mode,omitempty"`
	Results      map[entity.Mode]ContentResponse `json:"results"`
	Candidates   []string                        `json:"candidates,omitempty"`
	LastError    string                          `json:"last_error,omitempty"`
}

type HistoryItemResponse struct {
	Id           uuid.UUID   `json:"id"`
	Timestamp    int64       `json:"timestamp"`
	TopicExcerpt string      `json:"topic_excerpt"`
	Mode         entity.Mode `json:"mode"`
}

type LibraryItemResponse struct {
	Id      uuid.UUID       `json:"id"`
	Tab     entity.TabID    `json:"tab"`
	Content ContentResponse `json:"content"`
	SavedAt int64           `json:"saved_at"`
}

type ViewResponse struct {
	ActiveTab       entity.TabID `json:"active_tab"`
	ShowLeaderboard bool         `json:"show_leaderboard"`
}

type WorkspaceResponse struct {
	Tabs    []TabResponse         `json:"tabs"`
	History []HistoryItemResponse `json:"history"`
	Library []LibraryItemResponse `json:"library"`
	View    ViewResponse          `json:"view"`
}

type GenerateResponse struct {
	Tab      TabResponse         `json:"tab"`
	Content  ContentResponse     `json:"content"`
	CacheHit bool                `json:"cache_hit"`
	Usage    *UsageStatsResponse `json:"usage,omitempty"`
}

// EquationsExtractedMessage is pushed over the websocket after extraction.
type EquationsExtractedMessage struct {
	Tab        entity.TabID `json:"tab"`
	Candidates []string     `json:"candidates"`
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func NewContentResponse(c entity.Content) ContentResponse {
	return ContentResponse{Mode: c.Mode, Body: c.Body, GeneratedAt: millis(c.GeneratedAt)}
}

func NewTabResponse(t workspace.TabSession) TabResponse {
	results := make(map[entity.Mode]ContentResponse, len(t.ResultsByMode))
	for mode, c := range t.ResultsByMode {
		results[mode] = NewContentResponse(c)
	}
	return TabResponse{
		Tab:          t.Tab,
		RawInput:     t.RawInput,
		Status:       t.Status,
		IsLocked:     t.IsLocked,
		SelectedMode: t.SelectedMode,
		Results:      results,
		Candidates:   t.Candidates,
		LastError:    t.LastError,
	}
}

func NewHistoryResponse(items []entity.StudyHistoryItem) []HistoryItemResponse {
	out := make([]HistoryItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, HistoryItemResponse{
			Id:           it.Id,
			Timestamp:    millis(it.Timestamp),
			TopicExcerpt: it.TopicExcerpt,
			Mode:         it.Mode,
		})
	}
	return out
}

func NewLibraryItemResponse(it entity.LibraryItem) LibraryItemResponse {
	return LibraryItemResponse{
		Id:      it.Id,
		Tab:     it.Tab,
		Content: NewContentResponse(it.Content),
		SavedAt: millis(it.SavedAt),
	}
}

func NewLibraryResponse(items []entity.LibraryItem) []LibraryItemResponse {
	out := make([]LibraryItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewLibraryItemResponse(it))
	}
	return out
}

func NewViewResponse(v entity.ViewState) ViewResponse {
	return ViewResponse{ActiveTab: v.ActiveTab, ShowLeaderboard: v.ShowLeaderboard}
}

// NewWorkspaceResponse lists tabs in their fixed display order.
func NewWorkspaceResponse(snap workspace.Snapshot) *WorkspaceResponse {
	tabs := make([]TabResponse, 0, len(entity.Tabs))
	for _, id := range entity.Tabs {
		if t, ok := snap.Tabs[id]; ok {
			tabs = append(tabs, NewTabResponse(t))
		}
	}
	return &WorkspaceResponse{
		Tabs:    tabs,
		History: NewHistoryResponse(snap.History),
		Library: NewLibraryResponse(snap.Library),
		View:    NewViewResponse(snap.View),
	}
}
