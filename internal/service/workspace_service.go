package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"studyspace-be/internal/dto"
	"studyspace-be/internal/entity"
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/internal/repository/contract"
	"studyspace-be/internal/repository/memory"
	"studyspace-be/internal/websocket"
	"studyspace-be/pkg/events"
	"studyspace-be/pkg/quota"
	"studyspace-be/pkg/workspace"

	"github.com/google/uuid"
)

// Keys of the independently persisted workspace slices.
const (
	keyTabs    = "tabs"
	keyHistory = "history"
	keyLibrary = "library"
	keyView    = "view"
)

const persistTimeout = 5 * time.Second

type WorkspaceService interface {
	// Open also records the caller's timezone when it is a known zone.
	Open(ctx context.Context, userId uuid.UUID, displayName, timezone string) (*dto.WorkspaceResponse, error)
	SetInput(ctx context.Context, userId uuid.UUID, tab entity.TabID, req *dto.SetInputRequest) (*dto.TabResponse, error)
	Lock(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error)
	Unlock(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error)
	Reset(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error)
	Generate(ctx context.Context, userId uuid.UUID, tab entity.TabID, req *dto.GenerateRequest) (*dto.GenerateResponse, error)
	Save(ctx context.Context, userId uuid.UUID, tab entity.TabID, req *dto.SaveRequest) (*dto.LibraryItemResponse, error)
	History(ctx context.Context, userId uuid.UUID) ([]dto.HistoryItemResponse, error)
	Library(ctx context.Context, userId uuid.UUID) ([]dto.LibraryItemResponse, error)
	SetView(ctx context.Context, userId uuid.UUID, req *dto.ViewRequest) (*dto.ViewResponse, error)
}

// ProfileProvider is the part of the profile repository the workspace needs.
type ProfileProvider interface {
	workspace.ProfileStore
	FindOrCreate(ctx context.Context, id uuid.UUID, displayName string) (*entity.UserProfile, error)
}

type WorkspaceServiceOptions struct {
	HistoryCap   int
	ExtractDelay time.Duration
	Clock        quota.Clock
}

type workspaceService struct {
	workspaces   *memory.WorkspaceRepository
	store        contract.KVStore
	profiles     ProfileProvider
	orchestrator *workspace.Orchestrator
	bus          events.Publisher
	notifier     RealtimeNotifier
	clock        quota.Clock
	logger       logger.ILogger

	// one lock per user so persisted slices are written in order
	persistLocks sync.Map
}

func NewWorkspaceService(
	workspaces *memory.WorkspaceRepository,
	store contract.KVStore,
	profiles ProfileProvider,
	generator workspace.Generator,
	extractor workspace.CandidateExtractor,
	bus events.Publisher,
	notifier RealtimeNotifier,
	log logger.ILogger,
	opts WorkspaceServiceOptions,
) WorkspaceService {
	if opts.Clock == nil {
		opts.Clock = quota.SystemClock{}
	}
	s := &workspaceService{
		workspaces: workspaces,
		store:      store,
		profiles:   profiles,
		bus:        bus,
		notifier:   notifier,
		clock:      opts.Clock,
		logger:     log,
	}
	s.orchestrator = workspace.NewOrchestrator(generator, extractor, profiles, bus, log, workspace.Options{
		HistoryCap:   opts.HistoryCap,
		ExtractDelay: opts.ExtractDelay,
		Clock:        opts.Clock,
		OnExtracted:  s.onExtracted,
	})
	return s
}

func (s *workspaceService) Open(ctx context.Context, userId uuid.UUID, displayName, timezone string) (*dto.WorkspaceResponse, error) {
	if _, err := ensureProfile(ctx, s.profiles, userId, displayName, timezone); err != nil {
		return nil, err
	}
	ws, err := s.workspace(ctx, userId, displayName)
	if err != nil {
		return nil, err
	}
	return dto.NewWorkspaceResponse(ws.Snapshot()), nil
}

func (s *workspaceService) SetInput(ctx context.Context, userId uuid.UUID, tab entity.TabID, req *dto.SetInputRequest) (*dto.TabResponse, error) {
	return s.mutateTab(ctx, userId, tab, func(ws *workspace.Workspace) error {
		return s.orchestrator.SetInput(ws, tab, req.Input)
	})
}

func (s *workspaceService) Lock(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error) {
	return s.mutateTab(ctx, userId, tab, func(ws *workspace.Workspace) error {
		return ws.Lock(tab)
	})
}

func (s *workspaceService) Unlock(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error) {
	return s.mutateTab(ctx, userId, tab, func(ws *workspace.Workspace) error {
		return ws.Unlock(tab)
	})
}

func (s *workspaceService) Reset(ctx context.Context, userId uuid.UUID, tab entity.TabID) (*dto.TabResponse, error) {
	return s.mutateTab(ctx, userId, tab, func(ws *workspace.Workspace) error {
		return s.orchestrator.Reset(ws, tab)
	})
}

func (s *workspaceService) mutateTab(ctx context.Context, userId uuid.UUID, tab entity.TabID, fn func(*workspace.Workspace) error) (*dto.TabResponse, error) {
	ws, err := s.workspace(ctx, userId, "")
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	s.persist(ws, keyTabs)
	return s.tabResponse(ws, tab)
}

func (s *workspaceService) Generate(ctx context.Context, userId uuid.UUID, tab entity.TabID, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	ws, err := s.workspace(ctx, userId, "")
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Request(ctx, ws, tab, entity.Mode(req.Mode), req.Force)
	if err != nil {
		// a failed generation still changed the tab's status and error
		s.persist(ws, keyTabs)
		return nil, err
	}
	if result.CacheHit {
		s.persist(ws, keyTabs)
	} else {
		s.persist(ws, keyTabs, keyHistory)
	}

	tabRes, err := s.tabResponse(ws, tab)
	if err != nil {
		return nil, err
	}
	res := &dto.GenerateResponse{
		Tab:      *tabRes,
		Content:  dto.NewContentResponse(result.Content),
		CacheHit: result.CacheHit,
	}
	if result.Usage != nil {
		res.Usage = dto.NewUsageStatsResponse(*result.Usage)
	}
	return res, nil
}

func (s *workspaceService) Save(ctx context.Context, userId uuid.UUID, tab entity.TabID, req *dto.SaveRequest) (*dto.LibraryItemResponse, error) {
	ws, err := s.workspace(ctx, userId, "")
	if err != nil {
		return nil, err
	}
	item, err := s.orchestrator.Save(ctx, ws, tab, entity.Mode(req.Mode))
	if err != nil {
		return nil, err
	}
	s.persist(ws, keyLibrary)
	res := dto.NewLibraryItemResponse(*item)
	return &res, nil
}

func (s *workspaceService) History(ctx context.Context, userId uuid.UUID) ([]dto.HistoryItemResponse, error) {
	ws, err := s.workspace(ctx, userId, "")
	if err != nil {
		return nil, err
	}
	return dto.NewHistoryResponse(ws.History()), nil
}

func (s *workspaceService) Library(ctx context.Context, userId uuid.UUID) ([]dto.LibraryItemResponse, error) {
	ws, err := s.workspace(ctx, userId, "")
	if err != nil {
		return nil, err
	}
	return dto.NewLibraryResponse(ws.Library()), nil
}

func (s *workspaceService) SetView(ctx context.Context, userId uuid.UUID, req *dto.ViewRequest) (*dto.ViewResponse, error) {
	ws, err := s.workspace(ctx, userId, "")
	if err != nil {
		return nil, err
	}
	view := entity.ViewState{ActiveTab: entity.TabID(req.ActiveTab), ShowLeaderboard: req.ShowLeaderboard}
	if err := ws.SetView(view); err != nil {
		return nil, err
	}
	s.persist(ws, keyView)
	res := dto.NewViewResponse(ws.View())
	return &res, nil
}

func (s *workspaceService) tabResponse(ws *workspace.Workspace, tab entity.TabID) (*dto.TabResponse, error) {
	t, err := ws.Tab(tab)
	if err != nil {
		return nil, err
	}
	res := dto.NewTabResponse(t)
	return &res, nil
}

// workspace returns the live workspace, rehydrating it on first access.
func (s *workspaceService) workspace(ctx context.Context, userId uuid.UUID, displayName string) (*workspace.Workspace, error) {
	if ws, ok := s.workspaces.Get(userId); ok {
		return ws, nil
	}

	if _, err := s.profiles.FindOrCreate(ctx, userId, displayNameOrDefault(userId, displayName)); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return s.workspaces.GetOrLoad(userId, func() *workspace.Workspace {
		return s.load(ctx, userId)
	}), nil
}

// load restores every slice on its own: a slice that fails to read is
// logged and left empty, the others are still restored.
func (s *workspaceService) load(ctx context.Context, userId uuid.UUID) *workspace.Workspace {
	ws := workspace.New(userId)

	var tabs map[entity.TabID]workspace.TabSession
	if s.read(ctx, userId, keyTabs, &tabs) {
		ws.RestoreTabs(tabs)
	}
	var history []entity.StudyHistoryItem
	if s.read(ctx, userId, keyHistory, &history) {
		ws.RestoreHistory(history)
	}
	var library []entity.LibraryItem
	if s.read(ctx, userId, keyLibrary, &library) {
		ws.RestoreLibrary(library)
	}
	var view entity.ViewState
	if s.read(ctx, userId, keyView, &view) {
		ws.RestoreView(view)
	}
	return ws
}

func (s *workspaceService) read(ctx context.Context, userId uuid.UUID, key string, dst interface{}) bool {
	found, err := s.store.Get(ctx, userId, key, dst)
	if err != nil {
		s.logger.Warn("WORKSPACE", "Failed to restore workspace slice", map[string]interface{}{
			"user_id": userId.String(),
			"slice":   key,
			"error":   err.Error(),
		})
		return false
	}
	return found
}

// persist writes the given slices in the background. The snapshot is taken
// under the user's persist lock, so the last write always carries the
// latest state.
func (s *workspaceService) persist(ws *workspace.Workspace, keys ...string) {
	lock, _ := s.persistLocks.LoadOrStore(ws.UserId, &sync.Mutex{})
	mu := lock.(*sync.Mutex)

	go func() {
		mu.Lock()
		defer mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		snap := ws.Snapshot()
		for _, key := range keys {
			var value interface{}
			switch key {
			case keyTabs:
				value = snap.Tabs
			case keyHistory:
				value = snap.History
			case keyLibrary:
				value = snap.Library
			case keyView:
				value = snap.View
			}
			if err := s.store.Set(ctx, ws.UserId, key, value); err != nil {
				s.logger.Error("WORKSPACE", "Failed to persist workspace slice", map[string]interface{}{
					"user_id": ws.UserId.String(),
					"slice":   key,
					"error":   err.Error(),
				})
			}
		}
	}()
}

func (s *workspaceService) onExtracted(ws *workspace.Workspace, candidates []string) {
	s.persist(ws, keyTabs)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg := dto.EquationsExtractedMessage{Tab: entity.TabEquations, Candidates: candidates}
	if s.notifier != nil {
		if err := s.notifier.Send(ctx, ws.UserId, websocket.TypeEquationsExtracted, msg); err != nil {
			s.logger.Warn("WORKSPACE", "Failed to push extracted equations", map[string]interface{}{
				"user_id": ws.UserId.String(),
				"error":   err.Error(),
			})
		}
	}

	if s.bus == nil {
		return
	}
	event := events.New(events.TypeEquationsExtracted, map[string]interface{}{
		"user_id": ws.UserId.String(),
		"count":   len(candidates),
	}, s.clock.Now())
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("WORKSPACE", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

type profileSyncer interface {
	FindOrCreate(ctx context.Context, id uuid.UUID, displayName string) (*entity.UserProfile, error)
	Update(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) error
}

// ensureProfile loads or creates the profile and stores timezone on it when
// it names a known zone other than the stored one.
func ensureProfile(ctx context.Context, profiles profileSyncer, userId uuid.UUID, displayName, timezone string) (*entity.UserProfile, error) {
	profile, err := profiles.FindOrCreate(ctx, userId, displayNameOrDefault(userId, displayName))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	timezone = strings.TrimSpace(timezone)
	if timezone == "" || timezone == profile.Timezone || !quota.ValidTimezone(timezone) {
		return profile, nil
	}
	if err := profiles.Update(ctx, userId, entity.ProfileUpdate{Timezone: &timezone}); err != nil {
		return nil, fmt.Errorf("failed to store timezone: %w", err)
	}
	profile.Timezone = timezone
	return profile, nil
}

func displayNameOrDefault(userId uuid.UUID, name string) string {
	if name != "" {
		return name
	}
	return "Student " + userId.String()[:8]
}
