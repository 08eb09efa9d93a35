package eventlog

import (
	"errors"
	"math"
	"time"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
)

// expectedType maps item-targeted kinds to the content type they name.
var expectedType = map[Kind]catalog.ItemType{
	KindFlashcardReview: catalog.TypeFlashcard,
	KindQuizCompleted:   catalog.TypeQuiz,
	KindMediaWatched:    catalog.TypeMedia,
}

// minTimestamp is the earliest accepted event time. Timestamps are stored
// as Unix nanoseconds.
var minTimestamp = time.Unix(0, 0).UTC()

// validate checks ev against the catalog and returns it with CourseID
// resolved. now is the wall clock used for the future-timestamp check.
func validate(dir catalog.Directory, ev Event, now time.Time, clockSkew time.Duration) (Event, error) {
	if !ev.Kind.Valid() {
		return ev, apperr.Invalid("kind", "unknown event kind %q", ev.Kind)
	}
	if ev.LearnerID == "" {
		return ev, apperr.Invalid("learner_id", "required")
	}
	if ev.Timestamp.IsZero() {
		return ev, apperr.Invalid("timestamp", "required")
	}
	if ev.Timestamp.Before(minTimestamp) {
		return ev, apperr.Invalid("timestamp", "before %s", minTimestamp.Format(time.RFC3339))
	}
	if ahead := ev.Timestamp.Sub(now); ahead > clockSkew {
		return ev, apperr.Invalid("timestamp", "in the future by %s", ahead.Round(time.Second))
	}
	if err := validatePayload(ev); err != nil {
		return ev, err
	}

	if !dir.HasLearner(ev.LearnerID) {
		return ev, apperr.Unknown("learner", ev.LearnerID)
	}

	courseID, err := resolveCourse(dir, ev)
	if err != nil {
		return ev, err
	}
	if ev.CourseID != "" && ev.CourseID != courseID {
		return ev, apperr.Invalid("course_id", "%q belongs to course %q, not %q", ev.ItemID, courseID, ev.CourseID)
	}
	ev.CourseID = courseID

	if !dir.IsMember(ev.LearnerID, courseID) {
		return ev, apperr.Unknown("membership", ev.LearnerID+"@"+courseID)
	}
	if err := checkConfigured(dir, ev); err != nil {
		return ev, err
	}
	return ev, nil
}

// checkConfigured rejects events the derived-state folds could not apply:
// reviews of items without an initial interval and completions of targets
// without reward points.
func checkConfigured(dir catalog.Directory, ev Event) error {
	if _, reviewing := expectedType[ev.Kind]; reviewing {
		it, err := dir.Item(ev.ItemID)
		if err != nil {
			return err
		}
		if it.InitialInterval <= 0 {
			return &apperr.ConfigurationError{Entity: "item " + it.ID, Param: "initial learning interval"}
		}
	}
	if ev.Kind.Completes() {
		tgt, err := dir.Target(ev.ItemID)
		if err != nil {
			return err
		}
		if tgt.RewardPoints == nil {
			return &apperr.ConfigurationError{Entity: "target " + tgt.ID, Param: "reward points"}
		}
	}
	return nil
}

func validatePayload(ev Event) error {
	switch ev.Kind {
	case KindFlashcardSetFinished:
		if ev.TotalAnswers < 1 {
			return apperr.Invalid("total_answers", "must be at least 1, got %d", ev.TotalAnswers)
		}
		if ev.CorrectAnswers < 0 || ev.CorrectAnswers > ev.TotalAnswers {
			return apperr.Invalid("correct_answers", "must be within [0,%d], got %d", ev.TotalAnswers, ev.CorrectAnswers)
		}
	case KindQuizCompleted:
		if !unitInterval(ev.Correctness) {
			return apperr.Invalid("correctness", "must be within [0,1], got %v", ev.Correctness)
		}
		if ev.HintsUsed < 0 {
			return apperr.Invalid("hints_used", "must not be negative, got %d", ev.HintsUsed)
		}
	case KindMediaWatched:
		if !unitInterval(ev.WatchedFraction) {
			return apperr.Invalid("watched_fraction", "must be within [0,1], got %v", ev.WatchedFraction)
		}
	}
	return nil
}

// resolveCourse looks up the event's target and returns the course it
// belongs to, checking the target is of the kind's content type.
func resolveCourse(dir catalog.Directory, ev Event) (string, error) {
	if ev.Kind.CourseOnly() {
		if ev.ItemID != "" {
			return "", apperr.Invalid("item_id", "%s events name a course only", ev.Kind)
		}
		if ev.CourseID == "" {
			return "", apperr.Invalid("course_id", "required")
		}
		course, err := dir.Course(ev.CourseID)
		if err != nil {
			return "", err
		}
		return course.ID, nil
	}

	if ev.ItemID == "" {
		return "", apperr.Invalid("item_id", "required")
	}

	if ev.Kind == KindFlashcardSetFinished {
		set, err := dir.Set(ev.ItemID)
		if err == nil {
			return set.CourseID, nil
		}
		if !errors.Is(err, apperr.ErrUnknownEntity) {
			return "", err
		}
		if it, itemErr := dir.Item(ev.ItemID); itemErr == nil {
			return "", apperr.Invalid("item_id", "%q is a %s, not a flashcard set", it.ID, it.Type.DisplayName())
		}
		return "", err
	}

	it, err := dir.Item(ev.ItemID)
	if err != nil {
		if _, setErr := dir.Set(ev.ItemID); setErr == nil {
			return "", apperr.Invalid("item_id", "%q is a flashcard set, %s events need a %s",
				ev.ItemID, ev.Kind, expectedType[ev.Kind].DisplayName())
		}
		return "", err
	}
	if want := expectedType[ev.Kind]; it.Type != want {
		return "", apperr.Invalid("item_id", "%q is a %s, %s events need a %s",
			it.ID, it.Type.DisplayName(), ev.Kind, want.DisplayName())
	}
	return it.CourseID, nil
}

func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
