package progress

import (
	"math"

	"github.com/abhisek/learnloop/internal/config"
)

// LevelCurve maps experience to levels. Reaching level L from L-1 takes
// round(Base × Factor^(L-1)) experience; level 0 needs nothing.
type LevelCurve struct {
	Base     int
	Factor   float64
	MaxLevel int
}

// DefaultLevelCurve returns the default curve: 100, 150, 225, ... up to 100 levels.
func DefaultLevelCurve() LevelCurve {
	return LevelCurve{Base: 100, Factor: 1.5, MaxLevel: 100}
}

// LevelCurveFromConfig builds the curve from the progress config section.
func LevelCurveFromConfig(cfg config.ProgressConfig) LevelCurve {
	return LevelCurve{Base: cfg.LevelBase, Factor: cfg.LevelFactor, MaxLevel: cfg.MaxLevel}
}

// Step returns the experience needed to go from level-1 to level.
// Saturates at math.MaxInt64 for very high levels.
func (c LevelCurve) Step(level int) int64 {
	if level <= 0 {
		return 0
	}
	return saturate(math.Round(float64(c.Base) * math.Pow(c.Factor, float64(level-1))))
}

// Threshold returns the total experience needed to reach level.
func (c LevelCurve) Threshold(level int) int64 {
	if level > c.MaxLevel {
		level = c.MaxLevel
	}
	var total float64
	for l := 1; l <= level; l++ {
		total += float64(c.Step(l))
	}
	return saturate(total)
}

// LevelFor returns the highest level whose threshold xp reaches.
func (c LevelCurve) LevelFor(xp int64) int {
	level := 0
	var total int64
	for l := 1; l <= c.MaxLevel; l++ {
		step := c.Step(l)
		if step > math.MaxInt64-total {
			break
		}
		total += step
		if xp < total {
			break
		}
		level = l
	}
	return level
}

// InLevel returns the "x / y" pair shown next to a level: experience earned
// since reaching the current level and experience the next level takes.
// At the maximum level the second value is 0.
func (c LevelCurve) InLevel(xp int64) (earned, needed int64) {
	level := c.LevelFor(xp)
	earned = xp - c.Threshold(level)
	if level >= c.MaxLevel {
		return earned, 0
	}
	return earned, c.Step(level + 1)
}

func saturate(f float64) int64 {
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
