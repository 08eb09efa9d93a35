package spacedrep

import (
	"time"

	"github.com/abhisek/learnloop/internal/catalog"
)

// ScheduleState holds the spaced repetition state of one item for one
// learner. It is always reproducible from the item's event stream.
type ScheduleState struct {
	LearnerID    string           `json:"learner_id"`
	ItemID       string           `json:"item_id"`
	ItemType     catalog.ItemType `json:"item_type"`
	Interval     time.Duration    `json:"interval"`
	LastReviewed time.Time        `json:"last_reviewed"`
	NextDue      time.Time        `json:"next_due"`
	Streak       int              `json:"streak"`
	Reviews      int              `json:"reviews"`
	LastEventID  int64            `json:"last_event_id"`
}

// IsDue returns true if the item is due for review (at or past the due date).
func (s *ScheduleState) IsDue(now time.Time) bool {
	return !now.Before(s.NextDue)
}

// Overdue returns how far past due the item is. Returns 0 if not yet due.
func (s *ScheduleState) Overdue(now time.Time) time.Duration {
	if now.Before(s.NextDue) {
		return 0
	}
	return now.Sub(s.NextDue)
}

// OverdueDays returns Overdue in days.
func (s *ScheduleState) OverdueDays(now time.Time) float64 {
	return s.Overdue(now).Hours() / 24.0
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
)

// Status returns the review status for display. An item is overdue once
// it is past due by more than half its current interval. Items never
// reviewed are due, not overdue.
func (s *ScheduleState) Status(now time.Time) ReviewStatus {
	if !s.IsDue(now) {
		return ReviewNotDue
	}
	if s.Reviews > 0 && s.Overdue(now) > s.Interval/2 {
		return ReviewOverdue
	}
	return ReviewDue
}

// DaysUntilDue returns the number of days until the next review.
// Returns 0 if already due.
func (s *ScheduleState) DaysUntilDue(now time.Time) int {
	if s.IsDue(now) {
		return 0
	}
	return int(s.NextDue.Sub(now).Hours()/24.0) + 1
}
