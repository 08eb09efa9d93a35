// Package progress derives experience, levels, badges and quest-chain
// position from a learner's course event stream.
package progress

import (
	"fmt"
	"time"

	"github.com/abhisek/learnloop/internal/apperr"
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/spacedrep"
)

// Rules parameterizes the fold.
type Rules struct {
	Curve      LevelCurve
	Thresholds spacedrep.Thresholds
}

// DefaultRules returns the default level curve and completion thresholds.
func DefaultRules() Rules {
	return Rules{Curve: DefaultLevelCurve(), Thresholds: spacedrep.DefaultThresholds()}
}

// Completion is the first successful completion of a target. It is the
// marker that reward points were granted.
type Completion struct {
	TargetID string           `json:"target_id"`
	Type     catalog.ItemType `json:"type"`
	EventID  int64            `json:"event_id"`
	At       time.Time        `json:"at"`
	Points   int              `json:"points"`
}

// Aggregate is the derived progress of one learner in one course.
type Aggregate struct {
	LearnerID              string       `json:"learner_id"`
	CourseID               string       `json:"course_id"`
	Experience             int64        `json:"experience"`
	Level                  int          `json:"level"`
	ExperienceInLevel      int64        `json:"experience_in_level"`
	ExperienceForNextLevel int64        `json:"experience_for_next_level"`
	Completed              []Completion `json:"completed"`
	Badges                 []BadgeState `json:"badges"`
	Quests                 []QuestView  `json:"quests"`
	QuestPosition          int          `json:"quest_position"`
	LastEventID            int64        `json:"last_event_id"`
}

// AchievedBadges returns the ids of achieved badges.
func (a *Aggregate) AchievedBadges() []string {
	var ids []string
	for _, b := range a.Badges {
		if b.Achieved {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// CurrentQuest returns the quest the learner is working on, or nil when the
// chain is finished or the next quest is above the learner's level.
func (a *Aggregate) CurrentQuest() *QuestView {
	for i := range a.Quests {
		if a.Quests[i].Current {
			return &a.Quests[i]
		}
	}
	return nil
}

// foldState is the running state of Fold.
type foldState struct {
	xp        int64
	level     int
	completed map[string]Completion
	order     []string
	bestScore map[string]float64
	targets   map[string]catalog.Target
	badges    map[string]BadgeState
	questPos  int
	questDone map[string]questFinish
	lastEvent int64
}

type questFinish struct {
	EventID int64
	At      time.Time
}

// Fold replays a learner's course stream into an Aggregate. It is a pure
// left fold: the same events always yield the same aggregate, and every
// prefix of the stream yields a level and badge set no greater than the
// full stream's.
func Fold(learnerID string, course catalog.Course, dir catalog.Directory, events []eventlog.Event, rules Rules) (Aggregate, error) {
	st := &foldState{
		completed: make(map[string]Completion),
		bestScore: make(map[string]float64),
		targets:   make(map[string]catalog.Target),
		badges:    make(map[string]BadgeState),
		questDone: make(map[string]questFinish),
	}
	key := "progress/" + learnerID + "/" + course.ID

	for _, ev := range events {
		if ev.LearnerID != learnerID || ev.CourseID != course.ID {
			return Aggregate{}, &apperr.CorruptStreamError{
				Key:     key,
				EventID: ev.ID,
				Reason:  fmt.Sprintf("event belongs to %s/%s", ev.LearnerID, ev.CourseID),
			}
		}
		if ev.ID > st.lastEvent {
			st.lastEvent = ev.ID
		}

		if err := st.applyCompletion(key, ev, dir, rules.Thresholds); err != nil {
			return Aggregate{}, err
		}
		st.level = rules.Curve.LevelFor(st.xp)
		st.evaluateBadges(course, ev)
		st.advanceQuests(course, ev)
	}

	return st.aggregate(learnerID, course, rules.Curve), nil
}

// applyCompletion records the score of a completion event and grants the
// target's reward on its first success.
func (st *foldState) applyCompletion(key string, ev eventlog.Event, dir catalog.Directory, th spacedrep.Thresholds) error {
	if !IsCompletion(ev.Kind) {
		return nil
	}

	tgt, err := dir.Target(ev.ItemID)
	if err != nil {
		return &apperr.CorruptStreamError{Key: key, EventID: ev.ID, Reason: err.Error()}
	}
	if (ev.Kind == eventlog.KindFlashcardSetFinished) != tgt.IsSet {
		return &apperr.CorruptStreamError{Key: key, EventID: ev.ID,
			Reason: fmt.Sprintf("%s event for target %q", ev.Kind, tgt.ID)}
	}
	st.targets[tgt.ID] = tgt

	score, success := Score(ev, tgt, th)
	if prev, seen := st.bestScore[tgt.ID]; !seen || score > prev {
		st.bestScore[tgt.ID] = score
	}

	if !success {
		return nil
	}
	if _, done := st.completed[tgt.ID]; done {
		return nil
	}
	if tgt.RewardPoints == nil {
		return &apperr.ConfigurationError{Entity: "target " + tgt.ID, Param: "reward points"}
	}

	points := *tgt.RewardPoints
	st.xp += int64(points)
	st.completed[tgt.ID] = Completion{
		TargetID: tgt.ID,
		Type:     tgt.Type,
		EventID:  ev.ID,
		At:       ev.Timestamp,
		Points:   points,
	}
	st.order = append(st.order, tgt.ID)
	return nil
}

// IsCompletion reports whether events of kind complete a target.
func IsCompletion(kind eventlog.Kind) bool {
	return kind.Completes()
}

// Score returns a completion's score in [0,1] and whether it counts as a
// successful completion. A finished set always succeeds.
func Score(ev eventlog.Event, tgt catalog.Target, th spacedrep.Thresholds) (float64, bool) {
	switch ev.Kind {
	case eventlog.KindFlashcardSetFinished:
		if ev.TotalAnswers <= 0 {
			return 0, true
		}
		return float64(ev.CorrectAnswers) / float64(ev.TotalAnswers), true
	case eventlog.KindQuizCompleted:
		passing := th.QuizPassing
		if tgt.PassingThreshold > 0 {
			passing = tgt.PassingThreshold
		}
		return ev.Correctness, ev.Correctness >= passing
	case eventlog.KindMediaWatched:
		return ev.WatchedFraction, ev.WatchedFraction >= th.MediaCompletion
	}
	return 0, false
}

func (st *foldState) aggregate(learnerID string, course catalog.Course, curve LevelCurve) Aggregate {
	earned, needed := curve.InLevel(st.xp)
	agg := Aggregate{
		LearnerID:              learnerID,
		CourseID:               course.ID,
		Experience:             st.xp,
		Level:                  st.level,
		ExperienceInLevel:      earned,
		ExperienceForNextLevel: needed,
		QuestPosition:          st.questPos,
		LastEventID:            st.lastEvent,
		Completed:              make([]Completion, 0, len(st.order)),
	}

	for _, id := range st.order {
		agg.Completed = append(agg.Completed, st.completed[id])
	}

	agg.Badges = st.badgeStates(course)
	agg.Quests = st.questViews(course)
	return agg
}
