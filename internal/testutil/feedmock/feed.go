package feedmock

import (
	"context"
	"sync"

	"kyc-portal-backend/internal/realtime"
)

// Feed is an in-process change feed for tests: published events fan out to
// the single active subscription, and it counts subscribe/teardown calls so
// tests can assert the single-subscription discipline.
type Feed struct {
	mu         sync.Mutex
	ch         chan realtime.Event
	Subscribes int
	Cancels    int

	PublishFn func(ctx context.Context, ownerID string, evt realtime.Event) error
}

var _ realtime.Publisher = (*Feed)(nil)
var _ realtime.Subscriber = (*Feed)(nil)

func New() *Feed { return &Feed{} }

func (f *Feed) Publish(ctx context.Context, ownerID string, evt realtime.Event) error {
	if f.PublishFn != nil {
		return f.PublishFn(ctx, ownerID, evt)
	}
	f.mu.Lock()
	ch := f.ch
	f.mu.Unlock()
	if ch != nil {
		ch <- evt
	}
	return nil
}

func (f *Feed) Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Subscribes++
	ch := make(chan realtime.Event, 16)
	f.ch = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if f.ch == ch {
				f.ch = nil
			}
			f.Cancels++
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Event aliases realtime.Event so the Subscribe signature reads naturally.
type Event = realtime.Event
