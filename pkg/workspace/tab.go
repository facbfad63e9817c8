// Package workspace holds the per-tab generation cache and the orchestrator
// that gates, generates, caches and records study content.
package workspace

import (
	"strings"

	"studyspace-be/internal/entity"
)

type Status string

const (
	StatusEmpty      Status = "empty"
	StatusEditing    Status = "editing"
	StatusLocked     Status = "locked"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
)

// TabSession is all state of one workspace tab. Every mutation goes through
// its methods so that editing the input always invalidates the whole cache.
type TabSession struct {
	Tab           entity.TabID                   `json:"tab"`
	RawInput      string                         `json:"raw_input"`
	ResultsByMode map[entity.Mode]entity.Content `json:"results_by_mode"`
	SelectedMode  entity.Mode                    `json:"selected_mode,omitempty"`
	IsLocked      bool                           `json:"is_locked"`
	Status        Status                         `json:"status"`
	SourceInput   string                         `json:"source_input,omitempty"` // input the cached results were produced from
	Candidates    []string                       `json:"candidates,omitempty"`
	LastError     string                         `json:"last_error,omitempty"`
}

func NewTabSession(tab entity.TabID) *TabSession {
	return &TabSession{
		Tab:           tab,
		ResultsByMode: make(map[entity.Mode]entity.Content),
		Status:        StatusEmpty,
	}
}

// HasContent reports whether a generation could be submitted at all.
func (t *TabSession) HasContent() bool {
	return strings.TrimSpace(t.EffectiveInput()) != ""
}

// EffectiveInput is the text a new generation would use: the pending input,
// or the already consumed input the cached results belong to.
func (t *TabSession) EffectiveInput() string {
	if strings.TrimSpace(t.RawInput) != "" {
		return t.RawInput
	}
	return t.SourceInput
}

func (t *TabSession) SetInput(input string) error {
	switch {
	case t.Status == StatusGenerating:
		return ErrGenerationInProgress
	case t.IsLocked:
		return ErrTabLocked
	}

	t.RawInput = input
	t.ResultsByMode = make(map[entity.Mode]entity.Content)
	t.SelectedMode = ""
	t.SourceInput = ""
	t.IsLocked = false
	t.LastError = ""
	if strings.TrimSpace(input) == "" {
		t.Status = StatusEmpty
	} else {
		t.Status = StatusEditing
	}
	return nil
}

// Lock freezes the input. Only the general tab has an explicit confirm step.
func (t *TabSession) Lock() error {
	if t.Tab != entity.TabGeneral {
		return ErrLockNotSupported
	}
	if t.Status == StatusGenerating {
		return ErrGenerationInProgress
	}
	if strings.TrimSpace(t.RawInput) == "" {
		return ErrEmptyInput
	}
	t.IsLocked = true
	t.Status = StatusLocked
	return nil
}

func (t *TabSession) Unlock() error {
	if t.Status == StatusGenerating {
		return ErrGenerationInProgress
	}
	if !t.IsLocked {
		return nil
	}
	t.IsLocked = false
	t.Status = StatusEditing
	return nil
}

func (t *TabSession) Reset() error {
	if t.Status == StatusGenerating {
		return ErrGenerationInProgress
	}
	*t = *NewTabSession(t.Tab)
	return nil
}

func (t *TabSession) cached(mode entity.Mode) (entity.Content, bool) {
	c, ok := t.ResultsByMode[mode]
	return c, ok
}

func (t *TabSession) showCached(mode entity.Mode) {
	t.SelectedMode = mode
	t.LastError = ""
	if strings.TrimSpace(t.RawInput) == "" && !t.IsLocked {
		t.Status = StatusReady
	}
}

// begin moves the tab into generating and returns the status to restore if
// the request is refused before the generator runs.
func (t *TabSession) begin() (input string, previous Status) {
	previous = t.Status
	t.Status = StatusGenerating
	t.LastError = ""
	return t.EffectiveInput(), previous
}

func (t *TabSession) abort(previous Status) {
	t.Status = previous
}

// complete applies a successful generation: cache, select, then consume the
// input while keeping the results visible.
func (t *TabSession) complete(input string, content entity.Content) {
	t.ResultsByMode[content.Mode] = content
	t.SelectedMode = content.Mode
	t.SourceInput = input
	t.RawInput = ""
	t.IsLocked = false
	t.Status = StatusReady
}

// fail returns the tab to editing with the input untouched.
func (t *TabSession) fail(err error) {
	t.IsLocked = false
	t.Status = StatusEditing
	if err != nil {
		t.LastError = err.Error()
	}
}

// normalize repairs a tab restored from storage, e.g. one persisted mid-generation.
func (t *TabSession) normalize(tab entity.TabID) {
	t.Tab = tab
	if t.ResultsByMode == nil {
		t.ResultsByMode = make(map[entity.Mode]entity.Content)
	}
	if t.Status != StatusGenerating {
		return
	}
	switch {
	case t.IsLocked:
		t.Status = StatusLocked
	case strings.TrimSpace(t.RawInput) != "":
		t.Status = StatusEditing
	case len(t.ResultsByMode) > 0:
		t.Status = StatusReady
	default:
		t.Status = StatusEmpty
	}
}

func (t *TabSession) clone() TabSession {
	out := *t
	out.ResultsByMode = make(map[entity.Mode]entity.Content, len(t.ResultsByMode))
	for k, v := range t.ResultsByMode {
		out.ResultsByMode[k] = v
	}
	if t.Candidates != nil {
		out.Candidates = append([]string(nil), t.Candidates...)
	}
	return out
}
