package spacedrep

import (
	"fmt"
	"time"

	"github.com/abhisek/learnloop/internal/config"
)

// Default interval model.
const (
	DefaultGrowthFactor = 2.0
	DefaultMinInterval  = 24 * time.Hour
	DefaultMaxInterval  = 180 * 24 * time.Hour
)

// Thresholds decide when a quiz or media completion counts as "knew it".
type Thresholds struct {
	// QuizPassing applies to quizzes without their own passing threshold.
	QuizPassing     float64
	MediaCompletion float64
}

// DefaultThresholds returns the default completion thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{QuizPassing: 0.5, MediaCompletion: 0.8}
}

// Params parameterizes the interval model.
type Params struct {
	GrowthFactor float64
	MinInterval  time.Duration
	MaxInterval  time.Duration
	Thresholds
}

// DefaultParams returns the default interval model.
func DefaultParams() Params {
	return Params{
		GrowthFactor: DefaultGrowthFactor,
		MinInterval:  DefaultMinInterval,
		MaxInterval:  DefaultMaxInterval,
		Thresholds:   DefaultThresholds(),
	}
}

// ParamsFromConfig builds Params from the scheduler and progress sections.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		GrowthFactor: cfg.Scheduler.GrowthFactor,
		MinInterval:  cfg.Scheduler.MinInterval,
		MaxInterval:  cfg.Scheduler.MaxInterval,
		Thresholds: Thresholds{
			QuizPassing:     cfg.Progress.QuizPassingThreshold,
			MediaCompletion: cfg.Progress.MediaCompletionThreshold,
		},
	}
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if p.GrowthFactor < 1 {
		return fmt.Errorf("growth factor must be >= 1, got %v", p.GrowthFactor)
	}
	if p.MinInterval <= 0 {
		return fmt.Errorf("min interval must be positive, got %s", p.MinInterval)
	}
	if p.MaxInterval < p.MinInterval {
		return fmt.Errorf("max interval %s is below min interval %s", p.MaxInterval, p.MinInterval)
	}
	return nil
}

// grow multiplies prev by the growth factor, capped at the max interval.
func (p Params) grow(prev time.Duration) time.Duration {
	next := float64(prev) * p.GrowthFactor
	if next >= float64(p.MaxInterval) {
		return p.MaxInterval
	}
	return time.Duration(next)
}

// Epoch is the due date of an item that has never been reviewed.
var Epoch = time.Unix(0, 0).UTC()
