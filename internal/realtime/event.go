package realtime

import (
	"time"

	"github.com/google/uuid"

	"kyc-portal-backend/internal/domain/submission"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event mirrors the change-feed contract: insert/update carry New, delete
// carries Old. No ordering guarantee beyond what the transport delivers.
type Event struct {
	ID   string                 `json:"id"`
	Type EventType              `json:"event_type"`
	New  *submission.Submission `json:"new,omitempty"`
	Old  *submission.Submission `json:"old,omitempty"`
	At   time.Time              `json:"at"`
}

func NewEvent(t EventType, newRec, oldRec *submission.Submission) Event {
	return Event{
		ID:   uuid.NewString(),
		Type: t,
		New:  newRec,
		Old:  oldRec,
		At:   time.Now().UTC(),
	}
}

// ChannelAll is the reviewer firehose; every published event lands here in
// addition to the owner's channel.
const ChannelAll = "submissions.all"

func OwnerChannel(ownerID string) string { return "submissions." + ownerID }
