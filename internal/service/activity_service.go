package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyspace-be/internal/entity"
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/internal/repository/unitofwork"
	"studyspace-be/pkg/events"
	"studyspace-be/pkg/quota"
)

// ActivityPublisher emits the full active set as one feed emission.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, records []entity.ActivityRecord, at time.Time) error
}

// EventSubscriber is the consuming side of the in-process bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler events.Handler) error
}

type ActivityServiceOptions struct {
	Window          time.Duration
	MaxRecords      int
	RefreshInterval time.Duration
	Clock           quota.Clock
}

// ActivityService republishes the active user set whenever someone
// generates, and periodically so that idle users age out of the window.
type ActivityService struct {
	uowFactory unitofwork.RepositoryFactory
	bus        EventSubscriber
	feed       ActivityPublisher
	audit      events.Publisher // durable event log, optional
	logger     logger.ILogger
	opts       ActivityServiceOptions

	// serializes snapshots from the bus handler and the refresh ticker so
	// an older query never overwrites a newer emission
	publishMu sync.Mutex
}

func NewActivityService(
	uowFactory unitofwork.RepositoryFactory,
	bus EventSubscriber,
	feed ActivityPublisher,
	audit events.Publisher,
	log logger.ILogger,
	opts ActivityServiceOptions,
) *ActivityService {
	if opts.Window <= 0 {
		opts.Window = 24 * time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = quota.SystemClock{}
	}
	return &ActivityService{
		uowFactory: uowFactory,
		bus:        bus,
		feed:       feed,
		audit:      audit,
		logger:     log,
		opts:       opts,
	}
}

// Start publishes the current state and then follows generation events
// until ctx is done.
func (s *ActivityService) Start(ctx context.Context) error {
	if err := s.bus.Subscribe(ctx, events.TypeGenerationCompleted, s.handleGeneration); err != nil {
		return err
	}
	if err := s.bus.Subscribe(ctx, events.TypeAchievementUnlocked, s.forward); err != nil {
		return err
	}

	if err := s.PublishSnapshot(ctx); err != nil {
		s.logger.Warn("ACTIVITY", "Initial activity publish failed", map[string]interface{}{"error": err.Error()})
	}

	if s.opts.RefreshInterval > 0 {
		go s.refreshLoop(ctx)
	}
	s.logger.Info("ACTIVITY", "Activity service started", nil)
	return nil
}

func (s *ActivityService) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PublishSnapshot(ctx); err != nil {
				s.logger.Warn("ACTIVITY", "Periodic activity publish failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

func (s *ActivityService) handleGeneration(ctx context.Context, event events.Event) error {
	s.forward(ctx, event)
	return s.PublishSnapshot(ctx)
}

// forward copies a bus event to the durable log. Failures only log.
func (s *ActivityService) forward(ctx context.Context, event events.Event) error {
	if s.audit == nil {
		return nil
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.Warn("ACTIVITY", "Failed to forward event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
	return nil
}

// PublishSnapshot queries users active within the window and emits them,
// most recent first, as the new whole state of the feed.
func (s *ActivityService) PublishSnapshot(ctx context.Context) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	now := s.opts.Clock.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	records, err := uow.ActivityRepository().FindActive(ctx, now.Add(-s.opts.Window), s.opts.MaxRecords)
	if err != nil {
		return fmt.Errorf("failed to query active users: %w", err)
	}
	if err := s.feed.PublishActivity(ctx, records, now); err != nil {
		return fmt.Errorf("failed to publish activity: %w", err)
	}

	s.logger.Debug("ACTIVITY", "Published activity", map[string]interface{}{"count": len(records)})
	return nil
}
