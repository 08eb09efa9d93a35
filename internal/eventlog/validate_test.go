package eventlog

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	mock_catalog "github.com/abhisek/learnloop/internal/mocks/catalog"
)

// fixtureDirectory wires a mock directory with one course "go" holding a
// flashcard, its set, a quiz and a media item, plus a quiz without an
// initial interval and a media item without reward points. alice is a
// member; bob only belongs to "rust".
func fixtureDirectory(ctrl *gomock.Controller) *mock_catalog.MockDirectory {
	dir := mock_catalog.NewMockDirectory(ctrl)

	points := func(n int) *int { return &n }
	day := 24 * time.Hour
	items := map[string]catalog.Item{
		"fc-1":       {ID: "fc-1", Type: catalog.TypeFlashcard, CourseID: "go", SetID: "set-1", InitialInterval: day},
		"quiz-1":     {ID: "quiz-1", Type: catalog.TypeQuiz, CourseID: "go", InitialInterval: day, RewardPoints: points(20)},
		"media-1":    {ID: "media-1", Type: catalog.TypeMedia, CourseID: "go", InitialInterval: day, RewardPoints: points(15)},
		"quiz-bare":  {ID: "quiz-bare", Type: catalog.TypeQuiz, CourseID: "go", RewardPoints: points(5)},
		"media-free": {ID: "media-free", Type: catalog.TypeMedia, CourseID: "go", InitialInterval: day},
	}
	sets := map[string]catalog.FlashcardSet{
		"set-1": {ID: "set-1", CourseID: "go", Cards: []string{"fc-1"}, RewardPoints: points(10)},
	}
	courses := map[string]catalog.Course{
		"go":   {ID: "go"},
		"rust": {ID: "rust"},
	}
	members := map[string]map[string]bool{
		"go":   {"alice": true},
		"rust": {"bob": true},
	}

	dir.EXPECT().HasLearner(gomock.Any()).DoAndReturn(func(id string) bool {
		return id == "alice" || id == "bob"
	}).AnyTimes()
	dir.EXPECT().IsMember(gomock.Any(), gomock.Any()).DoAndReturn(func(learner, course string) bool {
		return members[course][learner]
	}).AnyTimes()
	dir.EXPECT().Item(gomock.Any()).DoAndReturn(func(id string) (catalog.Item, error) {
		if it, ok := items[id]; ok {
			return it, nil
		}
		return catalog.Item{}, apperr.Unknown("item", id)
	}).AnyTimes()
	dir.EXPECT().Set(gomock.Any()).DoAndReturn(func(id string) (catalog.FlashcardSet, error) {
		if s, ok := sets[id]; ok {
			return s, nil
		}
		return catalog.FlashcardSet{}, apperr.Unknown("set", id)
	}).AnyTimes()
	dir.EXPECT().Target(gomock.Any()).DoAndReturn(func(id string) (catalog.Target, error) {
		if s, ok := sets[id]; ok {
			return catalog.Target{ID: s.ID, CourseID: s.CourseID, Type: catalog.TypeFlashcard, IsSet: true, RewardPoints: s.RewardPoints}, nil
		}
		if it, ok := items[id]; ok {
			return catalog.Target{ID: it.ID, CourseID: it.CourseID, Type: it.Type, RewardPoints: it.RewardPoints}, nil
		}
		return catalog.Target{}, apperr.Unknown("item", id)
	}).AnyTimes()
	dir.EXPECT().Course(gomock.Any()).DoAndReturn(func(id string) (catalog.Course, error) {
		if c, ok := courses[id]; ok {
			return c, nil
		}
		return catalog.Course{}, apperr.Unknown("course", id)
	}).AnyTimes()

	return dir
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		ev         Event
		wantErr    error
		wantField  string
		wantCourse string
	}{
		{
			name:       "flashcard review resolves course",
			ev:         Event{Kind: KindFlashcardReview, LearnerID: "alice", ItemID: "fc-1", Timestamp: now, Knew: true},
			wantCourse: "go",
		},
		{
			name:       "set finished",
			ev:         Event{Kind: KindFlashcardSetFinished, LearnerID: "alice", ItemID: "set-1", Timestamp: now, CorrectAnswers: 3, TotalAnswers: 4},
			wantCourse: "go",
		},
		{
			name:       "timestamp within clock skew",
			ev:         Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-1", Timestamp: now.Add(time.Minute), Correctness: 1},
			wantCourse: "go",
		},
		{
			name:       "social interaction names course only",
			ev:         Event{Kind: KindSocialInteraction, LearnerID: "alice", CourseID: "go", Timestamp: now},
			wantCourse: "go",
		},
		{
			name:      "unknown kind",
			ev:        Event{Kind: "ESSAY_SUBMITTED", LearnerID: "alice", ItemID: "quiz-1", Timestamp: now},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "kind",
		},
		{
			name:      "zero timestamp",
			ev:        Event{Kind: KindFlashcardReview, LearnerID: "alice", ItemID: "fc-1"},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "timestamp",
		},
		{
			name:      "timestamp before the Unix epoch",
			ev:        Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-1", Timestamp: time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC), Correctness: 1},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "timestamp",
		},
		{
			name:       "timestamp at the Unix epoch",
			ev:         Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-1", Timestamp: time.Unix(0, 0), Correctness: 1},
			wantCourse: "go",
		},
		{
			name:    "review of item without initial interval",
			ev:      Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-bare", Timestamp: now, Correctness: 0.2},
			wantErr: apperr.ErrConfiguration,
		},
		{
			name:    "completion of target without reward points",
			ev:      Event{Kind: KindMediaWatched, LearnerID: "alice", ItemID: "media-free", Timestamp: now, WatchedFraction: 1},
			wantErr: apperr.ErrConfiguration,
		},
		{
			name:      "timestamp beyond clock skew",
			ev:        Event{Kind: KindFlashcardReview, LearnerID: "alice", ItemID: "fc-1", Timestamp: now.Add(5 * time.Minute)},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "timestamp",
		},
		{
			name:      "correctness out of range",
			ev:        Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-1", Timestamp: now, Correctness: 1.2},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "correctness",
		},
		{
			name:      "negative hints",
			ev:        Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-1", Timestamp: now, HintsUsed: -1},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "hints_used",
		},
		{
			name:      "watched fraction out of range",
			ev:        Event{Kind: KindMediaWatched, LearnerID: "alice", ItemID: "media-1", Timestamp: now, WatchedFraction: -0.1},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "watched_fraction",
		},
		{
			name:      "more correct than total",
			ev:        Event{Kind: KindFlashcardSetFinished, LearnerID: "alice", ItemID: "set-1", Timestamp: now, CorrectAnswers: 5, TotalAnswers: 4},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "correct_answers",
		},
		{
			name:      "quiz event naming a flashcard",
			ev:        Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "fc-1", Timestamp: now, Correctness: 1},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "item_id",
		},
		{
			name:      "set event naming a quiz",
			ev:        Event{Kind: KindFlashcardSetFinished, LearnerID: "alice", ItemID: "quiz-1", Timestamp: now, TotalAnswers: 1},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "item_id",
		},
		{
			name:      "course mismatch",
			ev:        Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-1", CourseID: "rust", Timestamp: now},
			wantErr:   apperr.ErrInvalidEvent,
			wantField: "course_id",
		},
		{
			name:    "unknown learner",
			ev:      Event{Kind: KindFlashcardReview, LearnerID: "mallory", ItemID: "fc-1", Timestamp: now},
			wantErr: apperr.ErrUnknownEntity,
		},
		{
			name:    "unknown item",
			ev:      Event{Kind: KindQuizCompleted, LearnerID: "alice", ItemID: "quiz-404", Timestamp: now},
			wantErr: apperr.ErrUnknownEntity,
		},
		{
			name:    "unknown course",
			ev:      Event{Kind: KindScoreboardViewed, LearnerID: "alice", CourseID: "haskell", Timestamp: now},
			wantErr: apperr.ErrUnknownEntity,
		},
		{
			name:    "learner not a member of the course",
			ev:      Event{Kind: KindQuizCompleted, LearnerID: "bob", ItemID: "quiz-1", Timestamp: now},
			wantErr: apperr.ErrUnknownEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dir := fixtureDirectory(ctrl)

			got, err := validate(dir, tt.ev, now, DefaultClockSkew)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validate: %v", err)
				}
				if got.CourseID != tt.wantCourse {
					t.Errorf("CourseID = %q, want %q", got.CourseID, tt.wantCourse)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantField != "" {
				var iee *apperr.InvalidEventError
				if !errors.As(err, &iee) || iee.Field != tt.wantField {
					t.Errorf("field = %+v, want %q", iee, tt.wantField)
				}
			}
		})
	}
}
