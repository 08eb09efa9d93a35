package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnloop/internal/ui/theme"
)

var scoreboardCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Rank a course's learners by experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		course, _ := cmd.Flags().GetString("course")
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, err := rt.engine.Scoreboard(cmd.Context(), course, limit)
		if err != nil {
			return fmt.Errorf("load scoreboard: %w", err)
		}

		fmt.Println(theme.Title.Render("Scoreboard " + course))
		fmt.Printf("%-5s %-24s %-8s %s\n", "Rank", "Learner", "Level", "Power")
		fmt.Println(strings.Repeat("─", 50))
		for _, e := range entries {
			fmt.Printf("%-5d %-24s %-8d %d\n", e.Rank, truncate(e.LearnerID, 24), e.Level, e.PowerScore)
		}
		return nil
	},
}

func init() {
	scoreboardCmd.Flags().String("course", "", "Course id (required)")
	scoreboardCmd.Flags().Int("limit", 10, "Number of entries")
	_ = scoreboardCmd.MarkFlagRequired("course")
}
