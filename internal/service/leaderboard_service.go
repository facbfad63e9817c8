package service

import (
	"context"
	"sync"

	"studyspace-be/internal/dto"
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/internal/websocket"
	"studyspace-be/pkg/achievement"
	"studyspace-be/pkg/events"
	pktNats "studyspace-be/pkg/nats"
	"studyspace-be/pkg/ranking"

	"github.com/google/uuid"
)

// ActivityFeed streams whole-state emissions of the active user set.
type ActivityFeed interface {
	SubscribeActivity(ctx context.Context) (<-chan pktNats.ActivityEmission, error)
}

// LeaderboardService ranks each feed emission and pushes it to connected
// viewers, each with their own achievement tracker for the session.
type LeaderboardService struct {
	feed     ActivityFeed
	notifier RealtimeNotifier
	bus      events.Publisher
	logger   logger.ILogger

	// mu serializes delivery so a viewer never sees snapshots out of order.
	mu        sync.Mutex
	latest    ranking.Snapshot
	hasLatest bool
	trackers  map[uuid.UUID]*achievement.Tracker
}

func NewLeaderboardService(feed ActivityFeed, notifier RealtimeNotifier, bus events.Publisher, log logger.ILogger) *LeaderboardService {
	return &LeaderboardService{
		feed:     feed,
		notifier: notifier,
		bus:      bus,
		logger:   log,
		trackers: make(map[uuid.UUID]*achievement.Tracker),
	}
}

// Start consumes the feed until ctx is done.
func (s *LeaderboardService) Start(ctx context.Context) error {
	emissions, err := s.feed.SubscribeActivity(ctx)
	if err != nil {
		return err
	}
	go func() {
		for emission := range emissions {
			s.Apply(ctx, emission)
		}
	}()
	s.logger.Info("LEADERBOARD", "Leaderboard service started", nil)
	return nil
}

// Apply rebuilds the ranking from one emission and delivers it to every
// connected viewer.
func (s *LeaderboardService) Apply(ctx context.Context, emission pktNats.ActivityEmission) {
	base := ranking.BuildSnapshot(emission.Records, uuid.Nil, emission.EmittedAt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = base
	s.hasLatest = true

	for _, viewer := range s.notifier.ConnectedUsers() {
		s.deliverLocked(ctx, viewer, base)
	}
}

func (s *LeaderboardService) deliverLocked(ctx context.Context, viewer uuid.UUID, base ranking.Snapshot) {
	tracker, ok := s.trackers[viewer]
	if !ok {
		tracker = achievement.NewTracker()
		s.trackers[viewer] = tracker
	}

	snap := base.ForViewer(viewer)
	unlocked := tracker.Observe(snap)

	if err := s.notifier.SendLocal(viewer, websocket.TypeLeaderboardSnapshot, dto.NewLeaderboardResponse(snap, tracker.Current())); err != nil {
		s.logger.Warn("LEADERBOARD", "Failed to push snapshot", map[string]interface{}{"user_id": viewer.String(), "error": err.Error()})
	}
	if unlocked == nil {
		return
	}

	if err := s.notifier.SendLocal(viewer, websocket.TypeAchievementUnlocked, dto.NewAchievementResponse(unlocked)); err != nil {
		s.logger.Warn("LEADERBOARD", "Failed to push achievement", map[string]interface{}{"user_id": viewer.String(), "error": err.Error()})
	}
	s.logger.Info("LEADERBOARD", "Achievement unlocked", map[string]interface{}{
		"user_id": viewer.String(),
		"type":    string(unlocked.Type),
		"rank":    unlocked.Rank,
	})

	if s.bus == nil {
		return
	}
	data := map[string]interface{}{
		"user_id": viewer.String(),
		"type":    string(unlocked.Type),
		"rank":    unlocked.Rank,
		"count":   unlocked.Count,
	}
	if unlocked.FromRank != nil {
		data["from_rank"] = *unlocked.FromRank
	}
	if err := s.bus.Publish(ctx, events.New(events.TypeAchievementUnlocked, data, unlocked.Date)); err != nil {
		s.logger.Warn("LEADERBOARD", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}

// ViewerJoined starts a session for a newly connected user and sends the
// current standings right away.
func (s *LeaderboardService) ViewerJoined(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLatest {
		return
	}
	s.deliverLocked(context.Background(), userID, s.latest)
}

// ViewerLeft ends the session; a later connection starts from a fresh tracker.
func (s *LeaderboardService) ViewerLeft(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trackers, userID)
}

// GetLeaderboard returns the latest standings for userId without feeding
// the achievement tracker.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, userId uuid.UUID) *dto.LeaderboardResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.latest.ForViewer(userId)
	if tracker, ok := s.trackers[userId]; ok {
		return dto.NewLeaderboardResponse(snap, tracker.Current())
	}
	return dto.NewLeaderboardResponse(snap, nil)
}

func (s *LeaderboardService) DismissAchievement(ctx context.Context, userId uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tracker, ok := s.trackers[userId]; ok {
		tracker.Dismiss()
	}
}

// HandleInbound reacts to frames sent by clients over the websocket.
func (s *LeaderboardService) HandleInbound(userID uuid.UUID, env websocket.Envelope) {
	switch env.Type {
	case websocket.TypeAchievementDismiss:
		s.DismissAchievement(context.Background(), userID)
	default:
		s.logger.Debug("LEADERBOARD", "Ignoring frame", map[string]interface{}{"user_id": userID.String(), "type": env.Type})
	}
}
