package progress

import (
	"time"

	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/eventlog"
)

// BadgeState is a course badge as seen by one learner.
type BadgeState struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Kind              catalog.BadgeKind `json:"kind"`
	PassingPercentage int               `json:"passing_percentage,omitempty"`
	RequiredCount     int               `json:"required_count,omitempty"`
	MinLevel          int               `json:"min_level,omitempty"`
	Rarity            Rarity            `json:"rarity"`
	Achieved          bool              `json:"achieved"`
	EventID           int64             `json:"event_id,omitempty"`
	AchievedAt        time.Time         `json:"achieved_at,omitempty"`
}

// evaluateBadges marks every badge whose condition now holds as achieved by
// ev. Achieved badges are never re-evaluated.
func (st *foldState) evaluateBadges(course catalog.Course, ev eventlog.Event) {
	for _, b := range course.Badges {
		if st.badges[b.ID].Achieved {
			continue
		}
		if !st.badgeMet(b) {
			continue
		}
		st.badges[b.ID] = BadgeState{Achieved: true, EventID: ev.ID, AchievedAt: ev.Timestamp}
	}
}

func (st *foldState) badgeMet(b catalog.Badge) bool {
	switch b.Kind {
	case catalog.BadgeLevel:
		return st.level >= b.MinLevel
	case catalog.BadgeScore:
		return st.scoredTargets(b.PassingPercentage, b.Tag) >= b.RequiredCount
	}
	return false
}

// scoredTargets counts distinct targets whose best score reaches pct
// percent, restricted to tag when set.
func (st *foldState) scoredTargets(pct int, tag string) int {
	n := 0
	for id, best := range st.bestScore {
		if tag != "" && !st.targets[id].HasTag(tag) {
			continue
		}
		// Compare in percent space so 0.8 reaches 80.
		if best*100+1e-9 >= float64(pct) {
			n++
		}
	}
	return n
}

func (st *foldState) hasBadge(id string) bool {
	return st.badges[id].Achieved
}

func (st *foldState) badgeStates(course catalog.Course) []BadgeState {
	out := make([]BadgeState, 0, len(course.Badges))
	for _, b := range course.Badges {
		got := st.badges[b.ID]
		out = append(out, BadgeState{
			ID:                b.ID,
			Name:              b.Name,
			Description:       b.Description,
			Kind:              b.Kind,
			PassingPercentage: b.PassingPercentage,
			RequiredCount:     b.RequiredCount,
			MinLevel:          b.MinLevel,
			Rarity:            BadgeRarity(b),
			Achieved:          got.Achieved,
			EventID:           got.EventID,
			AchievedAt:        got.AchievedAt,
		})
	}
	return out
}
