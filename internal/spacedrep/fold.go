package spacedrep

import (
	"fmt"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
)

// reviewKinds maps each reviewing event kind to the content type it reviews.
var reviewKinds = map[eventlog.Kind]catalog.ItemType{
	eventlog.KindFlashcardReview: catalog.TypeFlashcard,
	eventlog.KindQuizCompleted:   catalog.TypeQuiz,
	eventlog.KindMediaWatched:    catalog.TypeMedia,
}

// Outcome classifies ev as a review of item. reviewing is false for kinds
// that do not affect the schedule. knew is the "knew it" answer:
// a flashcard's answer, a quiz at or above its passing threshold, or media
// watched at or above the completion threshold.
func Outcome(ev eventlog.Event, item catalog.Item, th Thresholds) (reviewing, knew bool, err error) {
	want, ok := reviewKinds[ev.Kind]
	if !ok {
		return false, false, nil
	}
	if item.Type != want {
		return false, false, fmt.Errorf("%s event for %s item %q", ev.Kind, item.Type, item.ID)
	}

	switch ev.Kind {
	case eventlog.KindFlashcardReview:
		return true, ev.Knew, nil
	case eventlog.KindQuizCompleted:
		return true, ev.Correctness >= QuizThreshold(item, th), nil
	default:
		return true, ev.WatchedFraction >= th.MediaCompletion, nil
	}
}

// QuizThreshold returns the item's own passing threshold, or the default.
func QuizThreshold(item catalog.Item, th Thresholds) float64 {
	if item.PassingThreshold > 0 {
		return item.PassingThreshold
	}
	return th.QuizPassing
}

// Fold replays an item's event stream into its schedule. It is a pure
// function of its arguments.
//
// The first reviewing event establishes the schedule: "knew it" starts at
// the item's initial interval, anything else at the minimum interval. Each
// later "knew it" multiplies the interval by the growth factor up to the
// maximum; a miss resets it to the minimum and clears the streak.
func Fold(learnerID string, item catalog.Item, events []eventlog.Event, params Params) (ScheduleState, error) {
	state := ScheduleState{
		LearnerID: learnerID,
		ItemID:    item.ID,
		ItemType:  item.Type,
		NextDue:   Epoch,
	}
	key := "schedule/" + learnerID + "/" + item.ID

	for _, ev := range events {
		if ev.LearnerID != learnerID || ev.ItemID != item.ID {
			return ScheduleState{}, &apperr.CorruptStreamError{
				Key:     key,
				EventID: ev.ID,
				Reason:  fmt.Sprintf("event belongs to %s/%s", ev.LearnerID, ev.ItemID),
			}
		}

		reviewing, knew, err := Outcome(ev, item, params.Thresholds)
		if err != nil {
			return ScheduleState{}, &apperr.CorruptStreamError{Key: key, EventID: ev.ID, Reason: err.Error()}
		}
		if !reviewing {
			continue
		}

		switch {
		case state.Reviews == 0 && knew:
			if item.InitialInterval <= 0 {
				return ScheduleState{}, &apperr.ConfigurationError{
					Entity: "item " + item.ID,
					Param:  "initial learning interval",
				}
			}
			state.Interval = min(item.InitialInterval, params.MaxInterval)
			state.Streak = 1
		case knew:
			state.Interval = params.grow(state.Interval)
			state.Streak++
		default:
			state.Interval = params.MinInterval
			state.Streak = 0
		}

		state.Reviews++
		state.LastReviewed = ev.Timestamp
		state.NextDue = ev.Timestamp.Add(state.Interval)
		state.LastEventID = ev.ID
	}
	return state, nil
}
