package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnloop/internal/eventlog"
	"github.com/abhisek/learnloop/internal/ui/theme"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Record a learner interaction",
	Long: "Record one learner interaction. --kind selects the event kind:\n  " +
		strings.Join(kindNames(), "\n  "),
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := eventFromFlags(cmd)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		saved, err := rt.engine.Submit(cmd.Context(), ev)
		if err != nil {
			return fmt.Errorf("submit event: %w", err)
		}

		fmt.Println(theme.Good.Render("Recorded"), fmt.Sprintf("event #%d", saved.ID), string(saved.Kind))
		if saved.ItemID != "" && saved.Kind == eventlog.KindFlashcardReview {
			state, err := rt.engine.Schedule(cmd.Context(), saved.LearnerID, saved.ItemID)
			if err != nil {
				return fmt.Errorf("load schedule: %w", err)
			}
			fmt.Printf("Next review of %s: %s (interval %s)\n",
				state.ItemID, state.NextDue.Local().Format(time.RFC1123), humanDuration(state.Interval))
		}
		return nil
	},
}

func init() {
	f := reviewCmd.Flags()
	f.String("learner", "", "Learner id (required)")
	f.String("kind", string(eventlog.KindFlashcardReview), "Event kind")
	f.String("item", "", "Item or flashcard set id")
	f.String("course", "", "Course id (required for social and scoreboard events)")
	f.String("session", "", "Session id")
	f.String("at", "", "Event time in RFC3339 (default now)")
	f.Bool("knew", false, "Flashcard review: learner knew the answer")
	f.Int("correct", 0, "Flashcard set: correct answers")
	f.Int("total", 0, "Flashcard set: total answers")
	f.Float64("correctness", 0, "Quiz: correctness in [0,1]")
	f.Int("hints", 0, "Quiz: hints used")
	f.Float64("watched", 0, "Media: watched fraction in [0,1]")
	_ = reviewCmd.MarkFlagRequired("learner")
}

func kindNames() []string {
	var names []string
	for _, k := range eventlog.AllKinds() {
		names = append(names, string(k))
	}
	return names
}

func eventFromFlags(cmd *cobra.Command) (eventlog.Event, error) {
	f := cmd.Flags()
	learner, _ := f.GetString("learner")
	kind, _ := f.GetString("kind")
	item, _ := f.GetString("item")
	course, _ := f.GetString("course")
	session, _ := f.GetString("session")
	at, _ := f.GetString("at")

	ev := eventlog.Event{
		Kind:      eventlog.Kind(strings.ToUpper(kind)),
		LearnerID: learner,
		ItemID:    item,
		CourseID:  course,
		SessionID: session,
		Timestamp: time.Now().UTC(),
	}
	if at != "" {
		ts, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return eventlog.Event{}, fmt.Errorf("invalid --at: %w", err)
		}
		ev.Timestamp = ts.UTC()
	}

	ev.Knew, _ = f.GetBool("knew")
	ev.CorrectAnswers, _ = f.GetInt("correct")
	ev.TotalAnswers, _ = f.GetInt("total")
	ev.Correctness, _ = f.GetFloat64("correctness")
	ev.HintsUsed, _ = f.GetInt("hints")
	ev.WatchedFraction, _ = f.GetFloat64("watched")
	return ev, nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d >= 24*time.Hour:
		days := d.Hours() / 24
		if days == float64(int(days)) {
			return fmt.Sprintf("%dd", int(days))
		}
		return fmt.Sprintf("%.1fd", days)
	default:
		return d.Round(time.Minute).String()
	}
}
