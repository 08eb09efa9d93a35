// Package playertype classifies learners into Bartle player types, either
// from a short questionnaire or from their observed behavior.
package playertype

import (
	"time"

	"github.com/abhisek/learnloop/internal/store"
)

// Type is a Bartle player type.
type Type string

const (
	Achiever   Type = "ACHIEVER"
	Explorer   Type = "EXPLORER"
	Socializer Type = "SOCIALIZER"
	Killer     Type = "KILLER"
)

// AllTypes returns the player types in tie-break order: an earlier type
// wins a tie against a later one.
func AllTypes() []Type {
	return []Type{Achiever, Explorer, Socializer, Killer}
}

// DisplayName returns a human-readable label for the type.
func (t Type) DisplayName() string {
	switch t {
	case Achiever:
		return "Achiever"
	case Explorer:
		return "Explorer"
	case Socializer:
		return "Socializer"
	case Killer:
		return "Killer"
	default:
		return string(t)
	}
}

// View is the part of the course page a player type is steered to.
type View string

const (
	ViewBadges     View = "badges"
	ViewQuests     View = "quests"
	ViewScoreboard View = "scoreboard"
)

// View returns the view surfaced for the type.
func (t Type) View() View {
	switch t {
	case Explorer:
		return ViewQuests
	case Killer:
		return ViewScoreboard
	default:
		return ViewBadges
	}
}

// Source records how a profile was produced.
type Source string

const (
	SourceQuestionnaire Source = "questionnaire"
	SourceBehavior      Source = "behavior"
)

// Result is a classification: one percentage per type summing to 100 and
// the dominant type.
type Result struct {
	Achiever   int  `json:"achiever"`
	Explorer   int  `json:"explorer"`
	Socializer int  `json:"socializer"`
	Killer     int  `json:"killer"`
	Dominant   Type `json:"dominant"`
}

// Percentage returns the result's percentage for t.
func (r Result) Percentage(t Type) int {
	switch t {
	case Achiever:
		return r.Achiever
	case Explorer:
		return r.Explorer
	case Socializer:
		return r.Socializer
	case Killer:
		return r.Killer
	}
	return 0
}

func (r *Result) set(t Type, pct int) {
	switch t {
	case Achiever:
		r.Achiever = pct
	case Explorer:
		r.Explorer = pct
	case Socializer:
		r.Socializer = pct
	case Killer:
		r.Killer = pct
	}
}

// Profile is a learner's stored classification. A new profile replaces the
// previous one wholesale.
type Profile struct {
	LearnerID string `json:"learner_id"`
	Result
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// View returns the view surfaced for the profile's dominant type.
func (p Profile) View() View {
	return p.Dominant.View()
}

// ToRecord converts the profile to its stored form.
func (p Profile) ToRecord() *store.ProfileRecord {
	return &store.ProfileRecord{
		LearnerID:  p.LearnerID,
		Achiever:   p.Achiever,
		Explorer:   p.Explorer,
		Socializer: p.Socializer,
		Killer:     p.Killer,
		Dominant:   string(p.Dominant),
		Source:     string(p.Source),
		CreatedAt:  p.CreatedAt,
	}
}

// FromRecord converts a stored profile back.
func FromRecord(rec *store.ProfileRecord) Profile {
	return Profile{
		LearnerID: rec.LearnerID,
		Result: Result{
			Achiever:   rec.Achiever,
			Explorer:   rec.Explorer,
			Socializer: rec.Socializer,
			Killer:     rec.Killer,
			Dominant:   Type(rec.Dominant),
		},
		Source:    Source(rec.Source),
		CreatedAt: rec.CreatedAt,
	}
}
