package playertype

import (
	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/config"
	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/progress"
	"github.com/abhisek/learnloop/internal/spacedrep"
)

// Signals are the behavioral measurements classification is based on.
type Signals struct {
	// Velocity is successful completions per active day.
	Velocity float64 `json:"velocity"`
	// Breadth is the share of schedulable items the learner has touched.
	Breadth         float64 `json:"breadth"`
	Social          int     `json:"social"`
	ScoreboardViews int     `json:"scoreboard_views"`
}

// Weights scale each signal's contribution.
type Weights struct {
	Achiever   float64
	Explorer   float64
	Socializer float64
	Killer     float64
}

// DefaultWeights weighs every signal equally.
func DefaultWeights() Weights {
	return Weights{Achiever: 1, Explorer: 1, Socializer: 1, Killer: 1}
}

// WeightsFromConfig reads the weights from the playertype config section.
func WeightsFromConfig(cfg config.WeightsConfig) Weights {
	return Weights{
		Achiever:   cfg.Achiever,
		Explorer:   cfg.Explorer,
		Socializer: cfg.Socializer,
		Killer:     cfg.Killer,
	}
}

// Measure computes signals from a learner's events across their courses.
// schedulable is the number of items in those courses.
func Measure(events []eventlog.Event, dir catalog.Directory, schedulable int, th spacedrep.Thresholds) Signals {
	var (
		s           Signals
		completions int
		days        = make(map[string]bool)
		touched     = make(map[string]bool)
	)

	for _, ev := range events {
		days[ev.Timestamp.UTC().Format("2006-01-02")] = true

		switch ev.Kind {
		case eventlog.KindSocialInteraction:
			s.Social++
			continue
		case eventlog.KindScoreboardViewed:
			s.ScoreboardViews++
			continue
		}

		if _, err := dir.Item(ev.ItemID); err == nil {
			touched[ev.ItemID] = true
		}
		if !progress.IsCompletion(ev.Kind) {
			continue
		}
		tgt, err := dir.Target(ev.ItemID)
		if err != nil {
			continue
		}
		if _, ok := progress.Score(ev, tgt, th); ok {
			completions++
		}
	}

	if len(days) > 0 {
		s.Velocity = float64(completions) / float64(len(days))
	}
	if schedulable > 0 {
		s.Breadth = float64(len(touched)) / float64(schedulable)
		if s.Breadth > 1 {
			s.Breadth = 1
		}
	}
	return s
}

// Classify turns signals into a classification. Unbounded signals are
// squashed into [0,1) with x/(1+x) before weighting.
func Classify(s Signals, w Weights) Result {
	tally := Tally{
		Achiever:   w.Achiever * squash(s.Velocity),
		Explorer:   w.Explorer * s.Breadth,
		Socializer: w.Socializer * squash(float64(s.Social)),
		Killer:     w.Killer * squash(float64(s.ScoreboardViews)),
	}
	return tally.Result()
}

func squash(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return x / (1 + x)
}
