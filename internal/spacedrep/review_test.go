package spacedrep

import (
	"testing"
	"time"
)

func TestIsDue(t *testing.T) {
	due := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before date", due.Add(-time.Hour), false},
		{"on date", due, true},
		{"after date", due.Add(48 * time.Hour), true},
	}
	for _, tt := range tests {
		s := &ScheduleState{NextDue: due}
		if got := s.IsDue(tt.now); got != tt.want {
			t.Errorf("%s: IsDue() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOverdueDays_ThreeDaysOverdue(t *testing.T) {
	due := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &ScheduleState{NextDue: due}
	got := s.OverdueDays(due.Add(3 * 24 * time.Hour))
	if got < 2.99 || got > 3.01 {
		t.Errorf("OverdueDays() = %f, want ~3.0", got)
	}
	if got := s.OverdueDays(due.Add(-time.Hour)); got != 0 {
		t.Errorf("OverdueDays() before due = %f, want 0", got)
	}
}

func TestStatus(t *testing.T) {
	due := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	tests := []struct {
		name  string
		state ScheduleState
		now   time.Time
		want  ReviewStatus
	}{
		{"not due", ScheduleState{Interval: week, NextDue: due, Reviews: 1}, due.Add(-time.Hour), ReviewNotDue},
		// 7-day interval: grace is 3.5 days.
		{"due within grace", ScheduleState{Interval: week, NextDue: due, Reviews: 1}, due.Add(2 * 24 * time.Hour), ReviewDue},
		{"overdue past grace", ScheduleState{Interval: week, NextDue: due, Reviews: 1}, due.Add(4 * 24 * time.Hour), ReviewOverdue},
		{"never reviewed is due", ScheduleState{NextDue: Epoch}, due, ReviewDue},
	}
	for _, tt := range tests {
		if got := tt.state.Status(tt.now); got != tt.want {
			t.Errorf("%s: Status() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDaysUntilDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	// 4.5 days in the future -> int(4.5) + 1 = 5
	s := &ScheduleState{NextDue: now.Add(108 * time.Hour)}
	if got := s.DaysUntilDue(now); got != 5 {
		t.Errorf("DaysUntilDue() = %d, want 5", got)
	}

	s = &ScheduleState{NextDue: now.Add(-time.Hour)}
	if got := s.DaysUntilDue(now); got != 0 {
		t.Errorf("DaysUntilDue() already due = %d, want 0", got)
	}
}
