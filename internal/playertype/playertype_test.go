package playertype

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/spacedrep"
)

func sum(r Result) int {
	return r.Achiever + r.Explorer + r.Socializer + r.Killer
}

func TestEvaluate_ScenarioE_AllAchiever(t *testing.T) {
	q := Questionnaire{Questions: []Question{
		{ID: 1, Options: [2]Option{pick("a", Achiever), pick("b", Explorer)}},
		{ID: 2, Options: [2]Option{pick("a", Achiever), pick("b", Killer)}},
	}}

	r, err := Evaluate(q, Answers{1: 0, 2: 0})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := Result{Achiever: 100, Dominant: Achiever}
	if r != want {
		t.Errorf("result = %+v, want %+v", r, want)
	}
}

func TestEvaluate_RequiresEveryAnswer(t *testing.T) {
	q := DefaultQuestionnaire()

	tests := []struct {
		name    string
		answers Answers
	}{
		{"missing", Answers{1: 0}},
		{"bad option", Answers{1: 2, 2: 0, 3: 0, 4: 0, 5: 0, 6: 0, 7: 0, 8: 0}},
		{"unknown question", Answers{1: 0, 2: 0, 3: 0, 4: 0, 5: 0, 6: 0, 7: 0, 8: 0, 99: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(q, tt.answers)
			if !errors.Is(err, apperr.ErrInvalidEvent) {
				t.Errorf("err = %v, want invalid event", err)
			}
		})
	}
}

func TestEvaluate_DefaultQuestionnaireSumsTo100(t *testing.T) {
	q := DefaultQuestionnaire()
	n := len(q.Questions)

	// Every combination of answers.
	for mask := 0; mask < 1<<n; mask++ {
		answers := Answers{}
		for i, question := range q.Questions {
			answers[question.ID] = (mask >> i) & 1
		}
		r, err := Evaluate(q, answers)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if sum(r) != 100 {
			t.Fatalf("answers %v sum to %d", answers, sum(r))
		}
		if r.Percentage(r.Dominant) < r.Achiever || r.Percentage(r.Dominant) < r.Killer {
			t.Fatalf("dominant %s is not the largest share in %+v", r.Dominant, r)
		}
	}
}

func TestTally_Result(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  Result
	}{
		{"empty", Tally{}, Result{25, 25, 25, 25, Achiever}},
		{"thirds go to leader", Tally{Explorer: 1, Socializer: 1, Killer: 1}, Result{0, 34, 33, 33, Explorer}},
		{"tie prefers achiever", Tally{Achiever: 1, Killer: 1}, Result{50, 0, 0, 50, Achiever}},
		{"tie prefers socializer over killer", Tally{Socializer: 2, Killer: 2, Achiever: 1}, Result{20, 0, 40, 40, Socializer}},
		{"negative ignored", Tally{Killer: 3, Achiever: -2}, Result{0, 0, 0, 100, Killer}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tally.Result()
			if got != tt.want {
				t.Errorf("Result = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	r := Classify(Signals{Velocity: 3, Breadth: 0.25, Social: 1, ScoreboardViews: 0}, DefaultWeights())
	if r.Dominant != Achiever || sum(r) != 100 {
		t.Errorf("result = %+v", r)
	}

	r = Classify(Signals{Velocity: 3, ScoreboardViews: 9}, Weights{Achiever: 1, Killer: 2})
	if r.Dominant != Killer {
		t.Errorf("dominant = %s, want killer", r.Dominant)
	}

	if r := Classify(Signals{}, DefaultWeights()); r != (Result{25, 25, 25, 25, Achiever}) {
		t.Errorf("no signals = %+v", r)
	}
}

func TestTypeView(t *testing.T) {
	want := map[Type]View{
		Achiever:   ViewBadges,
		Socializer: ViewBadges,
		Explorer:   ViewQuests,
		Killer:     ViewScoreboard,
	}
	for typ, v := range want {
		if got := typ.View(); got != v {
			t.Errorf("%s.View() = %s, want %s", typ, got, v)
		}
	}
}

func TestProfileRecordRoundTrip(t *testing.T) {
	p := Profile{
		LearnerID: "alice",
		Result:    Result{Achiever: 40, Explorer: 30, Socializer: 20, Killer: 10, Dominant: Achiever},
		Source:    SourceQuestionnaire,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if got := FromRecord(p.ToRecord()); got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestMeasure(t *testing.T) {
	cat, err := catalog.Load("../catalog/testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	ev := func(kind eventlog.Kind, item string, at time.Time) eventlog.Event {
		return eventlog.Event{Kind: kind, LearnerID: "alice", CourseID: "go-basics", ItemID: item, Timestamp: at}
	}
	quiz := ev(eventlog.KindQuizCompleted, "quiz-syntax", day1)
	quiz.Correctness = 0.9
	failed := ev(eventlog.KindQuizCompleted, "quiz-runtime", day2)
	failed.Correctness = 0.1
	set := ev(eventlog.KindFlashcardSetFinished, "set-keywords", day2)
	set.TotalAnswers = 2

	events := []eventlog.Event{
		quiz,
		ev(eventlog.KindFlashcardReview, "fc-func", day1),
		failed,
		set,
		ev(eventlog.KindSocialInteraction, "", day2),
		ev(eventlog.KindScoreboardViewed, "", day2),
		ev(eventlog.KindScoreboardViewed, "", day2),
	}

	s := Measure(events, cat, 5, spacedrep.DefaultThresholds())
	want := Signals{Velocity: 1, Breadth: 0.6, Social: 1, ScoreboardViews: 2}
	if s != want {
		t.Errorf("signals = %+v, want %+v", s, want)
	}
}
