package progress

import (
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
)

// QuestView is one quest of the chain as shown to a learner. Quests above
// the learner's level only reveal their id and level.
type QuestView struct {
	ID          string `json:"id"`
	Level       int    `json:"level"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Locked      bool   `json:"locked"`
	Finished    bool   `json:"finished"`
	Current     bool   `json:"current"`
	EventID     int64  `json:"event_id,omitempty"`
}

// advanceQuests finishes the current quest while it is reachable and its
// goal holds, so one event can finish several quests.
func (st *foldState) advanceQuests(course catalog.Course, ev eventlog.Event) {
	for st.questPos < len(course.Quests) {
		q := course.Quests[st.questPos]
		if q.Level > st.level || !st.goalMet(q.Goal) {
			return
		}
		st.questDone[q.ID] = questFinish{EventID: ev.ID, At: ev.Timestamp}
		st.questPos++
	}
}

func (st *foldState) goalMet(g catalog.QuestGoal) bool {
	switch g.Kind {
	case catalog.GoalComplete:
		return st.countCompleted(g.Type, g.Tag) >= g.Count
	case catalog.GoalBadge:
		return st.hasBadge(g.Badge)
	case catalog.GoalLevel:
		return st.level >= g.Level
	}
	return false
}

// countCompleted counts first completions, optionally filtered by content
// type and tag. Finished flashcard sets count as flashcards.
func (st *foldState) countCompleted(typ catalog.ItemType, tag string) int {
	n := 0
	for id, c := range st.completed {
		if typ != "" && c.Type != typ {
			continue
		}
		if tag != "" && !st.targets[id].HasTag(tag) {
			continue
		}
		n++
	}
	return n
}

func (st *foldState) questViews(course catalog.Course) []QuestView {
	out := make([]QuestView, 0, len(course.Quests))
	for i, q := range course.Quests {
		v := QuestView{ID: q.ID, Level: q.Level}
		if done, ok := st.questDone[q.ID]; ok {
			v.Finished = true
			v.EventID = done.EventID
		}
		if q.Level > st.level && !v.Finished {
			v.Locked = true
		} else {
			v.Title = q.Title
			v.Description = q.Description
		}
		v.Current = i == st.questPos && !v.Locked
		out = append(out, v)
	}
	return out
}
