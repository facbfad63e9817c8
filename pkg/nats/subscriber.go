package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"studyspace-be/internal/pkg/logger"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Subscriber listens to the activity feed.
type Subscriber struct {
	nc              *nats.Conn
	js              jetstream.JetStream
	activitySubject string
	logger          logger.ILogger
}

func NewSubscriber(url, activitySubject string, log logger.ILogger) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	if err := ensureStreams(context.Background(), js, activitySubject); err != nil {
		log.Warn("NATS", "Failed to ensure streams", map[string]interface{}{"error": err.Error()})
	}
	return &Subscriber{nc: nc, js: js, activitySubject: activitySubject, logger: log}, nil
}

// SubscribeActivity streams emissions until ctx is done. It starts with the
// latest stored emission. A slow reader only ever sees the newest state:
// an undelivered emission is replaced, never queued.
func (s *Subscriber) SubscribeActivity(ctx context.Context) (<-chan ActivityEmission, error) {
	consumer, err := s.js.OrderedConsumer(ctx, activityStream, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{s.activitySubject},
		DeliverPolicy:  jetstream.DeliverLastPerSubjectPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create activity consumer: %w", err)
	}

	out := newLatestSink[ActivityEmission]()
	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		var emission ActivityEmission
		if err := json.Unmarshal(msg.Data(), &emission); err != nil {
			s.logger.Error("NATS", "Failed to unmarshal activity", map[string]interface{}{"error": err.Error()})
			return
		}
		out.send(emission)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		<-ctx.Done()
		consumeCtx.Stop()
		<-consumeCtx.Closed()
		out.close()
	}()

	s.logger.Info("NATS", "Subscribed to activity feed", map[string]interface{}{"subject": s.activitySubject})
	return out.ch, nil
}

// latestSink is a size-1 channel whose sends and close share one lock, so a
// handler still running after Stop never sends on a closed channel.
type latestSink[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
}

func newLatestSink[T any]() *latestSink[T] {
	return &latestSink[T]{ch: make(chan T, 1)}
}

// send reports false once the sink is closed.
func (s *latestSink[T]) send(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	replaceLatest(s.ch, v)
	return true
}

func (s *latestSink[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// replaceLatest keeps at most one pending value in a buffered channel of size 1.
// Callers serialize writes, so the drain-then-send cannot race another send.
func replaceLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
