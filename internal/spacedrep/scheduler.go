package spacedrep

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
)

// Streams is the part of the event log the scheduler reads.
type Streams interface {
	StreamForItem(ctx context.Context, learnerID, itemID string) ([]eventlog.Event, error)
	StreamForCourse(ctx context.Context, learnerID, courseID string) ([]eventlog.Event, error)
}

// Scheduler answers schedule queries by folding event streams.
type Scheduler struct {
	dir     catalog.Directory
	streams Streams
	params  Params
}

// NewScheduler creates a scheduler over the given catalog and event streams.
func NewScheduler(dir catalog.Directory, streams Streams, params Params) *Scheduler {
	return &Scheduler{dir: dir, streams: streams, params: params}
}

// Params returns the interval model in use.
func (s *Scheduler) Params() Params {
	return s.params
}

// Schedule returns the current schedule of one item for a learner.
func (s *Scheduler) Schedule(ctx context.Context, learnerID, itemID string) (ScheduleState, error) {
	item, err := s.dir.Item(itemID)
	if err != nil {
		return ScheduleState{}, err
	}
	if !s.dir.IsMember(learnerID, item.CourseID) {
		return ScheduleState{}, unknownMembership(learnerID, item.CourseID)
	}
	events, err := s.streams.StreamForItem(ctx, learnerID, itemID)
	if err != nil {
		return ScheduleState{}, err
	}
	return Fold(learnerID, item, events, s.params)
}

// ItemFailure is an item whose schedule could not be recomputed.
type ItemFailure struct {
	ItemID string
	Err    error
}

// PartialError lists the items a course-wide query left out. The states
// returned alongside it are valid for every other item.
type PartialError struct {
	LearnerID string
	CourseID  string
	Failures  []ItemFailure
}

func (e *PartialError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ItemID
	}
	return fmt.Sprintf("schedules of %s in %s skipped for items %s: %v",
		e.LearnerID, e.CourseID, strings.Join(ids, ", "), e.Failures[0].Err)
}

func (e *PartialError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// States returns the schedule of every item in the course, ordered by item
// id. The course stream is read once so all states reflect the same events.
// Items whose fold fails are left out and reported in a *PartialError.
func (s *Scheduler) States(ctx context.Context, learnerID, courseID string) ([]ScheduleState, error) {
	items, err := s.dir.Items(courseID)
	if err != nil {
		return nil, err
	}
	if !s.dir.IsMember(learnerID, courseID) {
		return nil, unknownMembership(learnerID, courseID)
	}

	events, err := s.streams.StreamForCourse(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string][]eventlog.Event)
	for _, ev := range events {
		if ev.ItemID == "" {
			continue
		}
		byItem[ev.ItemID] = append(byItem[ev.ItemID], ev)
	}

	states := make([]ScheduleState, 0, len(items))
	var failures []ItemFailure
	for _, item := range items {
		st, err := Fold(learnerID, item, byItem[item.ID], s.params)
		if err != nil {
			failures = append(failures, ItemFailure{ItemID: item.ID, Err: err})
			continue
		}
		states = append(states, st)
	}
	if len(failures) > 0 {
		return states, &PartialError{LearnerID: learnerID, CourseID: courseID, Failures: failures}
	}
	return states, nil
}

// partial splits a States error into a *PartialError, which callers pass
// on with their result, and any other error.
func partial(err error) (*PartialError, error) {
	var pe *PartialError
	if err == nil || errors.As(err, &pe) {
		return pe, nil
	}
	return nil, err
}

// DueItems returns the course's items due at asOf, oldest due first with
// ties broken by item id. When types is non-empty only those content types
// are returned. Failing items are reported as in States.
func (s *Scheduler) DueItems(ctx context.Context, learnerID, courseID string, asOf time.Time, types ...catalog.ItemType) ([]ScheduleState, error) {
	states, err := s.States(ctx, learnerID, courseID)
	skipped, err := partial(err)
	if err != nil {
		return nil, err
	}

	var due []ScheduleState
	for _, st := range states {
		if len(types) > 0 && !containsType(types, st.ItemType) {
			continue
		}
		if st.IsDue(asOf) {
			due = append(due, st)
		}
	}
	SortByDue(due)
	if skipped != nil {
		return due, skipped
	}
	return due, nil
}

// NextByType returns, for each content type present in the course, the
// item with the earliest due date. Failing items are reported as in States.
func (s *Scheduler) NextByType(ctx context.Context, learnerID, courseID string) (map[catalog.ItemType]ScheduleState, error) {
	states, err := s.States(ctx, learnerID, courseID)
	skipped, err := partial(err)
	if err != nil {
		return nil, err
	}
	SortByDue(states)

	next := make(map[catalog.ItemType]ScheduleState)
	for _, st := range states {
		if _, seen := next[st.ItemType]; !seen {
			next[st.ItemType] = st
		}
	}
	if skipped != nil {
		return next, skipped
	}
	return next, nil
}

// SortByDue orders states by due date ascending, ties broken by item id.
func SortByDue(states []ScheduleState) {
	sort.Slice(states, func(i, j int) bool {
		if !states[i].NextDue.Equal(states[j].NextDue) {
			return states[i].NextDue.Before(states[j].NextDue)
		}
		return states[i].ItemID < states[j].ItemID
	})
}

func containsType(types []catalog.ItemType, t catalog.ItemType) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

func unknownMembership(learnerID, courseID string) error {
	return apperr.Unknown("membership", learnerID+"@"+courseID)
}
