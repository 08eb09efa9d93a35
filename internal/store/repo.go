package store

import (
	"context"
	"time"
)

// EventRecord is one row of the append-only event table. Payload is the
// kind-specific JSON body; the store does not interpret it.
type EventRecord struct {
	ID        int64
	LearnerID string
	CourseID  string
	TargetID  string
	SessionID string
	Kind      string
	Timestamp time.Time
	Payload   []byte
}

// EventQuery selects a learner's stream. TargetID narrows a course stream
// to a single item or set.
type EventQuery struct {
	LearnerID string
	CourseID  string
	TargetID  string
}

// EventRepo provides append and ordered read access to events.
type EventRepo interface {
	// Append assigns the next global sequence number to rec and stores it.
	Append(ctx context.Context, rec *EventRecord) (int64, error)

	// Query returns matching events ordered by timestamp, then id.
	Query(ctx context.Context, q EventQuery) ([]EventRecord, error)

	// LatestID returns the highest event id of a (learner, course) stream,
	// or 0 when the stream is empty.
	LatestID(ctx context.Context, learnerID, courseID string) (int64, error)
}

// Snapshot is a cached derived state, valid for the stream up to and
// including LastEventID.
type Snapshot struct {
	Key         string
	LastEventID int64
	Data        []byte
	UpdatedAt   time.Time
}

// SnapshotRepo caches derived state keyed by stream.
type SnapshotRepo interface {
	// Get returns the cached snapshot for key, or nil if none exists.
	Get(ctx context.Context, key string) (*Snapshot, error)

	// Save writes snap only if the stored snapshot still has expectedPrev
	// as its last event id (0 meaning no snapshot). Otherwise it returns a
	// *apperr.ConcurrentModificationError.
	Save(ctx context.Context, snap *Snapshot, expectedPrev int64) error

	// Delete drops the cached snapshot for key.
	Delete(ctx context.Context, key string) error
}

// ProfileRecord is a stored player-type profile.
type ProfileRecord struct {
	LearnerID  string
	Achiever   int
	Explorer   int
	Socializer int
	Killer     int
	Dominant   string
	Source     string
	CreatedAt  time.Time
}

// ProfileRepo stores one player-type profile per learner.
type ProfileRepo interface {
	// Save replaces the learner's profile wholesale.
	Save(ctx context.Context, rec *ProfileRecord) error

	// Get returns the learner's profile, or nil if none exists.
	Get(ctx context.Context, learnerID string) (*ProfileRecord, error)
}
