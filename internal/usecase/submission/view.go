package submission

import (
	"context"
	"sort"
	"sync"

	domain "kyc-portal-backend/internal/domain/submission"
	"kyc-portal-backend/internal/realtime"
)

// View is the client-side mirror of a submission set: an ordered cache kept
// consistent with the change feed. Merge rules are last-write-wins so a local
// optimistic write and an inbound event for the same record may arrive in
// either order.
//
// At most one feed subscription is active per View. Subscribe while one is
// open is a no-op; Unsubscribe is idempotent and tears the reader goroutine
// down deterministically.
type View struct {
	feed realtime.Subscriber

	mu   sync.Mutex
	recs []domain.Submission

	owner  string
	cancel func()
	done   chan struct{}
}

func NewView(feed realtime.Subscriber) *View { return &View{feed: feed} }

// Load seeds the cache, replacing any previous contents.
func (v *View) Load(recs []domain.Submission) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recs = append([]domain.Submission(nil), recs...)
	v.sortLocked()
}

// List returns a copy of the cache, created_at strictly descending.
func (v *View) List() []domain.Submission {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Submission(nil), v.recs...)
}

// Subscribe opens the single realtime subscription for ownerID. Calling it
// again while a subscription is open is a no-op, including for a different
// owner: callers must Unsubscribe on owner change first.
func (v *View) Subscribe(ctx context.Context, ownerID string) error {
	return v.subscribe(ctx, ownerID, realtime.OwnerChannel(ownerID))
}

// SubscribeAll follows the reviewer firehose instead of one owner's channel.
func (v *View) SubscribeAll(ctx context.Context) error {
	return v.subscribe(ctx, "*", realtime.ChannelAll)
}

func (v *View) subscribe(ctx context.Context, owner, channel string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		return nil
	}

	events, cancel, err := v.feed.Subscribe(ctx, channel)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	v.owner = owner
	v.cancel = cancel
	v.done = done

	go func() {
		defer close(done)
		for evt := range events {
			v.Apply(evt)
		}
	}()
	return nil
}

// Unsubscribe tears down the active subscription and waits for the reader to
// exit. Safe to call when none is active, and safe to call twice.
func (v *View) Unsubscribe() {
	v.mu.Lock()
	cancel, done := v.cancel, v.done
	v.cancel, v.done, v.owner = nil, nil, ""
	v.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Apply merges one feed event into the cache.
//
//   - insert: add if absent; a duplicate-insert race merges like an update
//   - update: the event's record wins wholesale; upsert if never seen
//   - delete: remove by id, unknown id is a no-op
//
// The cache is re-sorted so ordering always reflects the merged record's
// created_at.
func (v *View) Apply(evt realtime.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch evt.Type {
	case realtime.EventInsert, realtime.EventUpdate:
		if evt.New == nil {
			return
		}
		v.upsertLocked(*evt.New)
	case realtime.EventDelete:
		if evt.Old == nil {
			return
		}
		v.removeLocked(evt.Old.SubmissionID)
	}
}

func (v *View) upsertLocked(rec domain.Submission) {
	for i := range v.recs {
		if v.recs[i].SubmissionID == rec.SubmissionID {
			v.recs[i] = rec
			v.sortLocked()
			return
		}
	}
	v.recs = append(v.recs, rec)
	v.sortLocked()
}

func (v *View) removeLocked(submissionID string) {
	for i := range v.recs {
		if v.recs[i].SubmissionID == submissionID {
			v.recs = append(v.recs[:i], v.recs[i+1:]...)
			return
		}
	}
}

func (v *View) sortLocked() {
	sort.SliceStable(v.recs, func(i, j int) bool {
		return v.recs[i].CreatedAt.After(v.recs[j].CreatedAt)
	})
}
