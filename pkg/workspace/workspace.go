package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyspace-be/internal/entity"
)

// Workspace is one user's live study session: three tabs plus the history,
// library and view slices. All fields are guarded by mu; generator calls are
// made without holding it.
type Workspace struct {
	UserId uuid.UUID

	mu      sync.Mutex
	tabs    map[entity.TabID]*TabSession
	history []entity.StudyHistoryItem
	library []entity.LibraryItem
	view    entity.ViewState

	extraction extractionState
}

type extractionState struct {
	timer  *time.Timer
	cancel context.CancelFunc
	token  uint64
}

// Snapshot is a detached copy of a workspace safe to serialize.
type Snapshot struct {
	UserId  uuid.UUID                   `json:"user_id"`
	Tabs    map[entity.TabID]TabSession `json:"tabs"`
	History []entity.StudyHistoryItem   `json:"history"`
	Library []entity.LibraryItem        `json:"library"`
	View    entity.ViewState            `json:"view"`
}

func New(userID uuid.UUID) *Workspace {
	ws := &Workspace{
		UserId:  userID,
		tabs:    make(map[entity.TabID]*TabSession, len(entity.Tabs)),
		history: []entity.StudyHistoryItem{},
		library: []entity.LibraryItem{},
		view:    entity.ViewState{ActiveTab: entity.TabGeneral},
	}
	for _, tab := range entity.Tabs {
		ws.tabs[tab] = NewTabSession(tab)
	}
	return ws
}

func (w *Workspace) tab(id entity.TabID) (*TabSession, error) {
	t, ok := w.tabs[id]
	if !ok {
		return nil, ErrTabNotFound
	}
	return t, nil
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	tabs := make(map[entity.TabID]TabSession, len(w.tabs))
	for id, t := range w.tabs {
		tabs[id] = t.clone()
	}
	return Snapshot{
		UserId:  w.UserId,
		Tabs:    tabs,
		History: append([]entity.StudyHistoryItem{}, w.history...),
		Library: append([]entity.LibraryItem{}, w.library...),
		View:    w.view,
	}
}

func (w *Workspace) Tab(id entity.TabID) (TabSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.tab(id)
	if err != nil {
		return TabSession{}, err
	}
	return t.clone(), nil
}

func (w *Workspace) History() []entity.StudyHistoryItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]entity.StudyHistoryItem{}, w.history...)
}

func (w *Workspace) Library() []entity.LibraryItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]entity.LibraryItem{}, w.library...)
}

func (w *Workspace) View() entity.ViewState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

func (w *Workspace) SetView(view entity.ViewState) error {
	if view.ActiveTab == "" {
		view.ActiveTab = entity.TabGeneral
	}
	if !view.ActiveTab.IsValid() {
		return ErrTabNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = view
	return nil
}

// HasContent reports whether the tab has something to generate from.
func (w *Workspace) HasContent(id entity.TabID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.tab(id)
	return err == nil && t.HasContent()
}

func (w *Workspace) Lock(id entity.TabID) error {
	return w.withTab(id, (*TabSession).Lock)
}

func (w *Workspace) Unlock(id entity.TabID) error {
	return w.withTab(id, (*TabSession).Unlock)
}

func (w *Workspace) withTab(id entity.TabID, fn func(*TabSession) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.tab(id)
	if err != nil {
		return err
	}
	return fn(t)
}

// Restore slices, each independently, from persisted state. Unknown tabs are
// ignored and missing tabs keep their empty session.
func (w *Workspace) RestoreTabs(tabs map[entity.TabID]TabSession) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, t := range tabs {
		if !id.IsValid() {
			continue
		}
		restored := t.clone()
		restored.normalize(id)
		w.tabs[id] = &restored
	}
}

func (w *Workspace) RestoreHistory(history []entity.StudyHistoryItem) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if history == nil {
		history = []entity.StudyHistoryItem{}
	}
	w.history = append([]entity.StudyHistoryItem{}, history...)
}

func (w *Workspace) RestoreLibrary(library []entity.LibraryItem) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if library == nil {
		library = []entity.LibraryItem{}
	}
	w.library = append([]entity.LibraryItem{}, library...)
}

func (w *Workspace) RestoreView(view entity.ViewState) {
	if !view.ActiveTab.IsValid() {
		view.ActiveTab = entity.TabGeneral
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = view
}

// Close stops any pending extraction.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopExtraction()
}
