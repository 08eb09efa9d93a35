package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/progress"
	"github.com/abhisek/learnloop/internal/ui/components"
	"github.com/abhisek/learnloop/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a learner's level, badges and quests in a course",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		course, _ := cmd.Flags().GetString("course")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		agg, err := rt.engine.Progress(ctx, learner, course)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		next, err := rt.engine.NextByType(ctx, learner, course)
		if err != nil {
			return fmt.Errorf("load schedules: %w", err)
		}

		printProgress(agg)

		fmt.Println()
		fmt.Println(theme.Heading.Render("Up next"))
		fmt.Println(strings.Repeat("─", 40))
		for _, t := range catalog.AllItemTypes() {
			s, ok := next[t]
			if !ok {
				fmt.Printf("%-10s %s\n", t.DisplayName(), theme.Hint.Render("none"))
				continue
			}
			fmt.Printf("%-10s %s\n", t.DisplayName(), s.ItemID)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().String("learner", "", "Learner id (required)")
	progressCmd.Flags().String("course", "", "Course id (required)")
	_ = progressCmd.MarkFlagRequired("learner")
	_ = progressCmd.MarkFlagRequired("course")
}

func printProgress(agg progress.Aggregate) {
	bar := components.NewProgressBar(fmt.Sprintf("Level %d", agg.Level),
		agg.ExperienceInLevel, agg.ExperienceForNextLevel, 50)
	fmt.Println(theme.Card.Render(strings.Join([]string{
		theme.Title.Render(fmt.Sprintf("%s in %s", agg.LearnerID, agg.CourseID)),
		fmt.Sprintf("Experience: %d", agg.Experience),
		bar.View(),
	}, "\n")))

	fmt.Println()
	fmt.Println(theme.Heading.Render("Badges"))
	fmt.Println(strings.Repeat("─", 60))
	if len(agg.Badges) == 0 {
		fmt.Println(theme.Hint.Render("No badges in this course."))
	}
	for _, b := range agg.Badges {
		label := fmt.Sprintf("%-30s", b.Name)
		mark, name := theme.Locked.Render("○"), theme.Locked.Render(label)
		if b.Achieved {
			mark, name = theme.Good.Render("●"), theme.Body.Render(label)
		}
		fmt.Printf("%s %s %s\n", mark, name, theme.Rarity(string(b.Rarity)).Render(b.Rarity.DisplayName()))
	}

	fmt.Println()
	fmt.Println(theme.Heading.Render("Quests"))
	fmt.Println(strings.Repeat("─", 60))
	if len(agg.Quests) == 0 {
		fmt.Println(theme.Hint.Render("No quests in this course."))
	}
	for _, q := range agg.Quests {
		switch {
		case q.Finished:
			fmt.Printf("%s %s\n", theme.Good.Render("✓"), q.Title)
		case q.Current:
			fmt.Printf("%s %s  %s\n", theme.Warn.Render("▶"), q.Title, theme.Hint.Render(q.Description))
		case q.Locked:
			fmt.Printf("%s %s\n", theme.Locked.Render("🔒"), theme.Locked.Render(fmt.Sprintf("unlocks at level %d", q.Level)))
		default:
			fmt.Printf("  %s\n", q.Title)
		}
	}
}
