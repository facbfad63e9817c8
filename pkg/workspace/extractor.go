package workspace

import (
	"context"
	"strings"
	"time"

	"studyspace-be/internal/entity"
)

const (
	DefaultExtractDelay = 1200 * time.Millisecond
	extractTimeout      = 30 * time.Second
)

// CandidateExtractor finds equation candidates in free text.
type CandidateExtractor interface {
	ExtractCandidates(ctx context.Context, input string) ([]string, error)
}

// ExtractionListener is told about every accepted extraction result.
type ExtractionListener func(ws *Workspace, candidates []string)

// stopExtraction cancels the pending timer and any in-flight call and
// issues a new token, which makes every earlier completion stale.
// Caller holds w.mu.
func (w *Workspace) stopExtraction() uint64 {
	if w.extraction.timer != nil {
		w.extraction.timer.Stop()
		w.extraction.timer = nil
	}
	if w.extraction.cancel != nil {
		w.extraction.cancel()
		w.extraction.cancel = nil
	}
	w.extraction.token++
	return w.extraction.token
}

// scheduleExtraction debounces extraction of the equations tab input.
// Caller holds ws.mu.
func (o *Orchestrator) scheduleExtraction(ws *Workspace, input string) {
	token := ws.stopExtraction()
	if o.extractor == nil {
		return
	}
	if strings.TrimSpace(input) == "" {
		ws.tabs[entity.TabEquations].Candidates = nil
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ws.extraction.cancel = cancel
	ws.extraction.timer = time.AfterFunc(o.extractDelay, func() {
		o.runExtraction(ctx, ws, token, input)
	})
}

func (o *Orchestrator) runExtraction(ctx context.Context, ws *Workspace, token uint64, input string) {
	callCtx, cancel := context.WithTimeout(ctx, extractTimeout)
	candidates, err := o.extractor.ExtractCandidates(callCtx, input)
	cancel()

	ws.mu.Lock()
	if token != ws.extraction.token {
		ws.mu.Unlock()
		o.logger.Debug("WORKSPACE", "Discarded stale extraction", map[string]interface{}{
			"user_id": ws.UserId.String(),
			"token":   token,
		})
		return
	}
	ws.extraction.timer = nil
	if ws.extraction.cancel != nil {
		ws.extraction.cancel()
		ws.extraction.cancel = nil
	}

	tab := ws.tabs[entity.TabEquations]
	if err != nil {
		tab.Candidates = nil
		ws.mu.Unlock()
		o.logger.Warn("WORKSPACE", "Equation extraction failed", map[string]interface{}{
			"user_id": ws.UserId.String(),
			"error":   err.Error(),
		})
		return
	}
	tab.Candidates = append([]string{}, candidates...)
	accepted := append([]string{}, candidates...)
	ws.mu.Unlock()

	if o.onExtracted != nil {
		o.onExtracted(ws, accepted)
	}
}
