package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/pkg/entitlement"
	"studyspace-be/pkg/events"
	"studyspace-be/pkg/quota"
)

// GenerationRequest is what the generator gets for one tab and mode.
type GenerationRequest struct {
	Tab   entity.TabID
	Mode  entity.Mode
	Input string
}

type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ProfileStore reads the plan and usage counters. Update is a plain set,
// IncrementUsage adds to the stored counters in one statement.
type ProfileStore interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error)
	Update(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) error
	IncrementUsage(ctx context.Context, id uuid.UUID, delta entity.UsageDelta) (*entity.UsageStats, error)
}

type Options struct {
	HistoryCap   int
	ExtractDelay time.Duration
	Clock        quota.Clock
	OnExtracted  ExtractionListener
}

// Orchestrator runs the generate flow: cache lookup, entitlement guards, the
// generator call and the usage and history bookkeeping that follows.
type Orchestrator struct {
	generator    Generator
	extractor    CandidateExtractor
	profiles     ProfileStore
	publisher    events.Publisher
	logger       logger.ILogger
	clock        quota.Clock
	historyCap   int
	extractDelay time.Duration
	onExtracted  ExtractionListener
}

func NewOrchestrator(
	generator Generator,
	extractor CandidateExtractor,
	profiles ProfileStore,
	publisher events.Publisher,
	log logger.ILogger,
	opts Options,
) *Orchestrator {
	if opts.HistoryCap <= 0 {
		opts.HistoryCap = DefaultHistoryCap
	}
	if opts.ExtractDelay <= 0 {
		opts.ExtractDelay = DefaultExtractDelay
	}
	if opts.Clock == nil {
		opts.Clock = quota.SystemClock{}
	}
	return &Orchestrator{
		generator:    generator,
		extractor:    extractor,
		profiles:     profiles,
		publisher:    publisher,
		logger:       log,
		clock:        opts.Clock,
		historyCap:   opts.HistoryCap,
		extractDelay: opts.ExtractDelay,
		onExtracted:  opts.OnExtracted,
	}
}

type Result struct {
	Tab      entity.TabID
	Content  entity.Content
	CacheHit bool
	Usage    *entity.UsageStats // nil on cache hits
}

// SetInput replaces a tab's input and drops every cached result for it.
func (o *Orchestrator) SetInput(ws *Workspace, tab entity.TabID, input string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	t, err := ws.tab(tab)
	if err != nil {
		return err
	}
	if err := t.SetInput(input); err != nil {
		return err
	}
	if tab == entity.TabEquations {
		o.scheduleExtraction(ws, input)
	}
	return nil
}

func (o *Orchestrator) Reset(ws *Workspace, tab entity.TabID) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	t, err := ws.tab(tab)
	if err != nil {
		return err
	}
	if err := t.Reset(); err != nil {
		return err
	}
	if tab == entity.TabEquations {
		ws.stopExtraction()
	}
	return nil
}

// Request returns the content for mode on tab, from cache when possible.
// Forcing only bypasses the cache when a cached result exists; a forced
// regeneration is gated by the regen capability instead of the daily quota
// and does not count against it.
func (o *Orchestrator) Request(ctx context.Context, ws *Workspace, tab entity.TabID, mode entity.Mode, force bool) (*Result, error) {
	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}

	ws.mu.Lock()
	t, err := ws.tab(tab)
	if err != nil {
		ws.mu.Unlock()
		return nil, err
	}
	if t.Status == StatusGenerating {
		ws.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	cached, hit := t.cached(mode)
	if hit && !force {
		t.showCached(mode)
		ws.mu.Unlock()
		return &Result{Tab: tab, Content: cached, CacheHit: true}, nil
	}
	if !t.HasContent() {
		ws.mu.Unlock()
		return nil, ErrEmptyInput
	}
	forced := force && hit
	input, previous := t.begin()
	ws.mu.Unlock()

	profile, err := o.admit(ctx, ws.UserId, mode, forced)
	if err != nil {
		ws.mu.Lock()
		t.abort(previous)
		ws.mu.Unlock()
		return nil, err
	}

	body, err := o.generator.Generate(ctx, GenerationRequest{Tab: tab, Mode: mode, Input: input})
	if err != nil {
		ws.mu.Lock()
		t.fail(err)
		ws.mu.Unlock()
		o.logger.Warn("WORKSPACE", "Generation failed", map[string]interface{}{
			"user_id": ws.UserId.String(),
			"tab":     string(tab),
			"mode":    string(mode),
			"error":   err.Error(),
		})
		return nil, &GenerationFailedError{Tab: tab, Mode: mode, Cause: err}
	}

	now := o.clock.Now()
	content := entity.Content{Mode: mode, Body: body, GeneratedAt: now}

	ws.mu.Lock()
	t.ResultsByMode[mode] = content
	t.SelectedMode = mode
	ws.mu.Unlock()

	usage := profile.Usage
	if !forced {
		usage = o.recordUsage(ctx, ws.UserId, usage, now)
	}

	ws.mu.Lock()
	ws.history = appendHistory(ws.history, newHistoryItem(input, mode, now), o.historyCap)
	t.complete(input, content)
	ws.mu.Unlock()

	o.publish(ctx, events.New(events.TypeGenerationCompleted, map[string]interface{}{
		"user_id":           ws.UserId.String(),
		"display_name":      profile.DisplayName,
		"tab":               string(tab),
		"mode":              string(mode),
		"forced":            forced,
		"daily_generations": usage.DailyGenerations,
	}, now))

	return &Result{Tab: tab, Content: content, Usage: &usage}, nil
}

// admit applies the day rollover and every entitlement guard. Days are the
// viewer's calendar days.
func (o *Orchestrator) admit(ctx context.Context, userID uuid.UUID, mode entity.Mode, forced bool) (*entity.UserProfile, error) {
	profile, err := o.profiles.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	now := quota.ViewerNow(o.clock, profile.Timezone)
	if usage, reset := quota.Reset(profile.Usage, now); reset {
		if err := o.profiles.Update(ctx, userID, entity.UsageReset(usage)); err != nil {
			return nil, fmt.Errorf("failed to reset daily usage: %w", err)
		}
		profile.Usage = usage
	}

	if forced {
		if !entitlement.CanForceRegenerate(profile.Plan) {
			return nil, entitlement.FeatureDenied(profile.Plan, entity.FeatureRegen)
		}
	} else {
		decision := entitlement.CheckBeforeSubmit(profile.Plan, profile.Usage)
		if err := decision.Err(profile.Plan, quota.NextReset(now)); err != nil {
			return nil, err
		}
	}

	if !entitlement.CanUseMode(profile.Plan, mode) {
		feature, _ := entitlement.RequiredFeature(mode)
		return nil, entitlement.FeatureDenied(profile.Plan, feature)
	}
	return profile, nil
}

// recordUsage counts one generation. The content is already produced, so a
// failed write is logged rather than surfaced.
func (o *Orchestrator) recordUsage(ctx context.Context, userID uuid.UUID, usage entity.UsageStats, now time.Time) entity.UsageStats {
	stored, err := o.profiles.IncrementUsage(ctx, userID, entity.UsageDelta{
		TotalGenerations: 1,
		DailyGenerations: 1,
		ActiveAt:         &now,
	})
	if err != nil {
		o.logger.Error("WORKSPACE", "Failed to record usage", map[string]interface{}{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		usage.TotalGenerations++
		usage.DailyGenerations++
		usage.LastActiveDate = now
		return usage
	}
	return *stored
}

// Save copies the cached result for mode into the library.
func (o *Orchestrator) Save(ctx context.Context, ws *Workspace, tab entity.TabID, mode entity.Mode) (*entity.LibraryItem, error) {
	profile, err := o.profiles.FindById(ctx, ws.UserId)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if !entitlement.CanUse(profile.Plan, entity.FeatureSave) {
		return nil, entitlement.FeatureDenied(profile.Plan, entity.FeatureSave)
	}

	ws.mu.Lock()
	t, err := ws.tab(tab)
	if err != nil {
		ws.mu.Unlock()
		return nil, err
	}
	content, ok := t.cached(mode)
	if !ok {
		ws.mu.Unlock()
		return nil, ErrNoResult
	}
	item := entity.LibraryItem{
		Id:      uuid.New(),
		Tab:     tab,
		Content: content,
		SavedAt: o.clock.Now(),
	}
	ws.library = append([]entity.LibraryItem{item}, ws.library...)
	ws.mu.Unlock()

	if _, err := o.profiles.IncrementUsage(ctx, ws.UserId, entity.UsageDelta{MasteredConcepts: 1}); err != nil {
		o.logger.Error("WORKSPACE", "Failed to count mastered concept", map[string]interface{}{
			"user_id": ws.UserId.String(),
			"error":   err.Error(),
		})
	}
	return &item, nil
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("WORKSPACE", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
