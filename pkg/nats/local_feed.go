package nats

import (
	"context"
	"sync"
	"time"

	"studyspace-be/internal/entity"
)

// LocalFeed is an in-process activity feed with the same latest-state
// semantics as the JetStream one. Used when no NATS server is reachable,
// so it only serves a single instance.
type LocalFeed struct {
	mu      sync.Mutex
	latest  *ActivityEmission
	readers []chan ActivityEmission
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{}
}

func (f *LocalFeed) PublishActivity(_ context.Context, records []entity.ActivityRecord, at time.Time) error {
	if records == nil {
		records = []entity.ActivityRecord{}
	}
	emission := ActivityEmission{Records: records, EmittedAt: at}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &emission
	for _, ch := range f.readers {
		replaceLatest(ch, emission)
	}
	return nil
}

// SubscribeActivity starts with the latest emission, if any.
func (f *LocalFeed) SubscribeActivity(ctx context.Context) (<-chan ActivityEmission, error) {
	ch := make(chan ActivityEmission, 1)

	f.mu.Lock()
	if f.latest != nil {
		ch <- *f.latest
	}
	f.readers = append(f.readers, ch)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, r := range f.readers {
			if r == ch {
				f.readers = append(f.readers[:i], f.readers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
