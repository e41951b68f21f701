package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	Publish(ctx context.Context, ownerID string, evt Event) error
}

// Subscriber opens a change-feed subscription on one channel. The returned
// cancel func is idempotent; after it is called the event channel closes.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error)
}

// RedisFeed carries the change feed over redis pub/sub.
type RedisFeed struct{ rdb *redis.Client }

func NewRedisFeed(rdb *redis.Client) *RedisFeed { return &RedisFeed{rdb: rdb} }

var _ Publisher = (*RedisFeed)(nil)
var _ Subscriber = (*RedisFeed)(nil)

func (f *RedisFeed) Publish(ctx context.Context, ownerID string, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := f.rdb.Publish(ctx, OwnerChannel(ownerID), payload).Err(); err != nil {
		return err
	}
	return f.rdb.Publish(ctx, ChannelAll, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error) {
	ps := f.rdb.Subscribe(ctx, channel)
	// Force the SUBSCRIBE round-trip so a dead redis fails here, not later.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("realtime: drop undecodable event on %s: %v", channel, err)
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = ps.Close() }
	return out, cancel, nil
}
