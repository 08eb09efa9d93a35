package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/logging"
	"github.com/abhisek/learnloop/internal/store"
)

// DefaultClockSkew is how far in the future an event timestamp may be.
const DefaultClockSkew = 2 * time.Minute

// Log validates and persists events and serves ordered streams.
type Log struct {
	dir       catalog.Directory
	repo      store.EventRepo
	clockSkew time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a Log. A nil logger discards output.
func New(dir catalog.Directory, repo store.EventRepo, clockSkew time.Duration, logger *zap.Logger) *Log {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Log{
		dir:       dir,
		repo:      repo,
		clockSkew: clockSkew,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock replaces the wall clock used to reject future timestamps.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Validate checks ev without persisting it and returns it with its course
// resolved.
func (l *Log) Validate(ev Event) (Event, error) {
	return validate(l.dir, ev, l.now(), l.clockSkew)
}

// Append validates ev and stores it, returning the assigned id. An empty
// SessionID gets a fresh one.
func (l *Log) Append(ctx context.Context, ev Event) (Event, error) {
	ev, err := l.Validate(ev)
	if err != nil {
		return Event{}, err
	}
	if ev.SessionID == "" {
		ev.SessionID = uuid.NewString()
	}

	rec, err := toRecord(ev)
	if err != nil {
		return Event{}, err
	}
	id, err := l.repo.Append(ctx, rec)
	if err != nil {
		return Event{}, fmt.Errorf("append event: %w", err)
	}
	ev.ID = id

	l.logger.Debug("event appended",
		zap.Int64("id", id),
		zap.String("kind", string(ev.Kind)),
		zap.String("learner", ev.LearnerID),
		zap.String("course", ev.CourseID),
		zap.String("item", ev.ItemID),
	)
	return ev, nil
}

// StreamForItem returns the learner's events for one item or set, ordered
// by timestamp with ties broken by id.
func (l *Log) StreamForItem(ctx context.Context, learnerID, itemID string) ([]Event, error) {
	recs, err := l.repo.Query(ctx, store.EventQuery{LearnerID: learnerID, TargetID: itemID})
	if err != nil {
		return nil, fmt.Errorf("stream for item %s: %w", itemID, err)
	}
	return decode(itemKey(learnerID, itemID), recs)
}

// StreamForCourse returns the learner's events in a course, ordered by
// timestamp with ties broken by id.
func (l *Log) StreamForCourse(ctx context.Context, learnerID, courseID string) ([]Event, error) {
	recs, err := l.repo.Query(ctx, store.EventQuery{LearnerID: learnerID, CourseID: courseID})
	if err != nil {
		return nil, fmt.Errorf("stream for course %s: %w", courseID, err)
	}
	return decode(courseKey(learnerID, courseID), recs)
}

// LatestID returns the highest event id of a (learner, course) stream, or 0.
func (l *Log) LatestID(ctx context.Context, learnerID, courseID string) (int64, error) {
	return l.repo.LatestID(ctx, learnerID, courseID)
}

func decode(key string, recs []store.EventRecord) ([]Event, error) {
	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		ev, err := fromRecord(rec)
		if err != nil {
			return nil, &apperr.CorruptStreamError{Key: key, EventID: rec.ID, Reason: err.Error()}
		}
		events = append(events, ev)
	}
	return events, nil
}

func itemKey(learnerID, itemID string) string {
	return "item/" + learnerID + "/" + itemID
}

func courseKey(learnerID, courseID string) string {
	return "course/" + learnerID + "/" + courseID
}
