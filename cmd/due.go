package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/spacedrep"
	"github.com/abhisek/learnloop/internal/ui/theme"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List items due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		course, _ := cmd.Flags().GetString("course")
		typeNames, _ := cmd.Flags().GetStringSlice("type")
		all, _ := cmd.Flags().GetBool("all")

		var types []catalog.ItemType
		for _, name := range typeNames {
			t := catalog.ItemType(strings.ToUpper(name))
			if !t.Valid() {
				return fmt.Errorf("unknown item type %q", name)
			}
			types = append(types, t)
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		now := time.Now().UTC()

		var states []spacedrep.ScheduleState
		if all {
			states, err = rt.engine.Schedules(ctx, learner, course)
			spacedrep.SortByDue(states)
		} else {
			states, err = rt.engine.Due(ctx, learner, course, now, types...)
		}
		if err != nil {
			return fmt.Errorf("load schedules: %w", err)
		}

		if len(states) == 0 {
			fmt.Println(theme.Hint.Render("Nothing due. Come back later."))
			return nil
		}

		printSchedules(states, now)
		return nil
	},
}

func init() {
	dueCmd.Flags().String("learner", "", "Learner id (required)")
	dueCmd.Flags().String("course", "", "Course id (required)")
	dueCmd.Flags().StringSlice("type", nil, "Restrict to item types (FLASHCARD, QUIZ, MEDIA)")
	dueCmd.Flags().Bool("all", false, "List every schedule, due or not")
	_ = dueCmd.MarkFlagRequired("learner")
	_ = dueCmd.MarkFlagRequired("course")
}

func printSchedules(states []spacedrep.ScheduleState, now time.Time) {
	fmt.Printf("%-20s %-10s %-9s %-8s %-7s %-16s %s\n", "Item", "Type", "Status", "Interval", "Streak", "Next due", "When")
	fmt.Println(strings.Repeat("─", 92))
	for _, s := range states {
		status := s.Status(now)
		due := "now"
		if s.NextDue.After(spacedrep.Epoch) {
			due = s.NextDue.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %-10s %s %-8s %-7d %-16s %s\n",
			truncate(s.ItemID, 20),
			s.ItemType.DisplayName(),
			theme.Status(string(status)).Render(fmt.Sprintf("%-9s", status)),
			humanDuration(s.Interval),
			s.Streak,
			due,
			dueLabel(s, now),
		)
	}
}

// dueLabel describes when an item is due relative to now.
func dueLabel(s spacedrep.ScheduleState, now time.Time) string {
	switch {
	case s.Reviews == 0:
		return "new"
	case !s.IsDue(now):
		if d := s.DaysUntilDue(now); d > 1 {
			return fmt.Sprintf("in %d days", d)
		}
		return "in 1 day"
	case s.OverdueDays(now) >= 1:
		return fmt.Sprintf("%d days overdue", int(s.OverdueDays(now)))
	default:
		return "today"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
