package progress

import (
	"math"
	"testing"
)

func TestLevelCurve_Defaults(t *testing.T) {
	c := DefaultLevelCurve()

	tests := []struct {
		xp    int64
		level int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{249, 1},
		{250, 2},
		{474, 2},
		{475, 3},
	}
	for _, tt := range tests {
		if got := c.LevelFor(tt.xp); got != tt.level {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.level)
		}
	}

	if got := c.Threshold(3); got != 475 {
		t.Errorf("Threshold(3) = %d, want 475", got)
	}
	if got := c.Step(4); got != 338 {
		t.Errorf("Step(4) = %d, want 338", got)
	}
}

func TestLevelCurve_LevelIsMonotonic(t *testing.T) {
	c := DefaultLevelCurve()
	prev := 0
	for xp := int64(0); xp < 20000; xp += 7 {
		l := c.LevelFor(xp)
		if l < prev {
			t.Fatalf("LevelFor(%d) = %d < %d", xp, l, prev)
		}
		if xp < c.Threshold(l) {
			t.Fatalf("LevelFor(%d) = %d but threshold is %d", xp, l, c.Threshold(l))
		}
		prev = l
	}
}

func TestLevelCurve_InLevel(t *testing.T) {
	c := DefaultLevelCurve()

	earned, needed := c.InLevel(300)
	if earned != 50 || needed != 225 {
		t.Errorf("InLevel(300) = %d/%d, want 50/225", earned, needed)
	}

	capped := LevelCurve{Base: 10, Factor: 1, MaxLevel: 2}
	if got := capped.LevelFor(1000); got != 2 {
		t.Errorf("capped LevelFor = %d, want 2", got)
	}
	earned, needed = capped.InLevel(1000)
	if earned != 980 || needed != 0 {
		t.Errorf("capped InLevel = %d/%d, want 980/0", earned, needed)
	}
}

func TestLevelCurve_Saturates(t *testing.T) {
	c := LevelCurve{Base: 100, Factor: 10, MaxLevel: 100}
	if got := c.Step(60); got != math.MaxInt64 {
		t.Errorf("Step(60) = %d, want saturation", got)
	}
	if got := c.LevelFor(math.MaxInt64); got >= 100 {
		t.Errorf("LevelFor(max) = %d, want below the cap", got)
	}
}
