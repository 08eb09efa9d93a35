// Package eventlog is the append-only record of learner interactions. Every
// derived state (schedules, progress, player types) is a fold over it.
package eventlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/learnloop/internal/store"
)

// Kind identifies what a learner did.
type Kind string

const (
	KindFlashcardReview      Kind = "FLASHCARD_REVIEW"
	KindFlashcardSetFinished Kind = "FLASHCARD_SET_FINISHED"
	KindQuizCompleted        Kind = "QUIZ_COMPLETED"
	KindMediaWatched         Kind = "MEDIA_WATCHED"
	KindSocialInteraction    Kind = "SOCIAL_INTERACTION"
	KindScoreboardViewed     Kind = "SCOREBOARD_VIEWED"
)

// AllKinds returns every event kind.
func AllKinds() []Kind {
	return []Kind{
		KindFlashcardReview,
		KindFlashcardSetFinished,
		KindQuizCompleted,
		KindMediaWatched,
		KindSocialInteraction,
		KindScoreboardViewed,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Completes reports whether events of this kind complete a target and may
// grant its reward points.
func (k Kind) Completes() bool {
	return k == KindFlashcardSetFinished || k == KindQuizCompleted || k == KindMediaWatched
}

// CourseOnly reports whether events of this kind name a course but no item.
func (k Kind) CourseOnly() bool {
	return k == KindSocialInteraction || k == KindScoreboardViewed
}

// Event is one immutable learner interaction. Only the payload fields of
// its Kind are meaningful.
type Event struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	LearnerID string    `json:"learner_id"`
	ItemID    string    `json:"item_id,omitempty"`
	CourseID  string    `json:"course_id"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// FLASHCARD_REVIEW
	Knew bool `json:"knew,omitempty"`

	// FLASHCARD_SET_FINISHED
	CorrectAnswers int `json:"correct_answers,omitempty"`
	TotalAnswers   int `json:"total_answers,omitempty"`

	// QUIZ_COMPLETED
	Correctness float64 `json:"correctness,omitempty"`
	HintsUsed   int     `json:"hints_used,omitempty"`

	// MEDIA_WATCHED
	WatchedFraction float64 `json:"watched_fraction,omitempty"`
}

// payload is the stored kind-specific body of an event.
type payload struct {
	Knew            bool    `json:"knew,omitempty"`
	CorrectAnswers  int     `json:"correct_answers,omitempty"`
	TotalAnswers    int     `json:"total_answers,omitempty"`
	Correctness     float64 `json:"correctness,omitempty"`
	HintsUsed       int     `json:"hints_used,omitempty"`
	WatchedFraction float64 `json:"watched_fraction,omitempty"`
}

func toRecord(ev Event) (*store.EventRecord, error) {
	var p payload
	switch ev.Kind {
	case KindFlashcardReview:
		p.Knew = ev.Knew
	case KindFlashcardSetFinished:
		p.CorrectAnswers = ev.CorrectAnswers
		p.TotalAnswers = ev.TotalAnswers
	case KindQuizCompleted:
		p.Correctness = ev.Correctness
		p.HintsUsed = ev.HintsUsed
	case KindMediaWatched:
		p.WatchedFraction = ev.WatchedFraction
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &store.EventRecord{
		LearnerID: ev.LearnerID,
		CourseID:  ev.CourseID,
		TargetID:  ev.ItemID,
		SessionID: ev.SessionID,
		Kind:      string(ev.Kind),
		Timestamp: ev.Timestamp,
		Payload:   body,
	}, nil
}

func fromRecord(rec store.EventRecord) (Event, error) {
	var p payload
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return Event{}, fmt.Errorf("decode payload of event %d: %w", rec.ID, err)
	}
	return Event{
		ID:              rec.ID,
		Kind:            Kind(rec.Kind),
		LearnerID:       rec.LearnerID,
		ItemID:          rec.TargetID,
		CourseID:        rec.CourseID,
		SessionID:       rec.SessionID,
		Timestamp:       rec.Timestamp,
		Knew:            p.Knew,
		CorrectAnswers:  p.CorrectAnswers,
		TotalAnswers:    p.TotalAnswers,
		Correctness:     p.Correctness,
		HintsUsed:       p.HintsUsed,
		WatchedFraction: p.WatchedFraction,
	}, nil
}
