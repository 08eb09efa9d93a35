package cmd

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/playertype"
	"github.com/abhisek/learnloop/internal/spacedrep"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers("1=0, 2=1,3=0,")
	require.NoError(t, err)
	assert.Equal(t, playertype.Answers{1: 0, 2: 1, 3: 0}, got)

	for _, raw := range []string{"1", "x=0", "1=y", "1=0,1=1"} {
		_, err := parseAnswers(raw)
		assert.Error(t, err, raw)
	}
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "-", humanDuration(0))
	assert.Equal(t, "2d", humanDuration(48*time.Hour))
	assert.Equal(t, "1.5d", humanDuration(36*time.Hour))
	assert.Equal(t, "2h0m0s", humanDuration(2*time.Hour))
}

func TestEventFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "review"}
	cmd.Flags().AddFlagSet(reviewCmd.Flags())

	require.NoError(t, cmd.Flags().Parse([]string{
		"--learner", "alice", "--kind", "quiz_completed", "--item", "q1",
		"--correctness", "0.75", "--hints", "2", "--at", "2024-03-01T10:00:00+01:00",
	}))

	ev, err := eventFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, eventlog.KindQuizCompleted, ev.Kind)
	assert.Equal(t, "alice", ev.LearnerID)
	assert.Equal(t, "q1", ev.ItemID)
	assert.Equal(t, 0.75, ev.Correctness)
	assert.Equal(t, 2, ev.HintsUsed)
	assert.True(t, ev.Timestamp.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, cmd.Flags().Set("at", "yesterday"))
	_, err = eventFromFlags(cmd)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "über", truncate("über", 4))
	assert.Equal(t, "日本語…", truncate("日本語の単語", 4))
}

func TestDueLabel(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	reviewed := func(due time.Time) spacedrep.ScheduleState {
		return spacedrep.ScheduleState{Reviews: 1, Interval: 24 * time.Hour, NextDue: due}
	}

	assert.Equal(t, "new", dueLabel(spacedrep.ScheduleState{NextDue: spacedrep.Epoch}, now))
	assert.Equal(t, "in 1 day", dueLabel(reviewed(now.Add(time.Hour)), now))
	assert.Equal(t, "in 3 days", dueLabel(reviewed(now.Add(50*time.Hour)), now))
	assert.Equal(t, "today", dueLabel(reviewed(now.Add(-time.Hour)), now))
	assert.Equal(t, "2 days overdue", dueLabel(reviewed(now.Add(-50*time.Hour)), now))
}
