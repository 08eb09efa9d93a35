package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnloop/internal/playertype"
	"github.com/abhisek/learnloop/internal/ui/components"
	"github.com/abhisek/learnloop/internal/ui/theme"
)

var playertypeCmd = &cobra.Command{
	Use:   "playertype",
	Short: "Determine and show learner player types",
}

var playertypeQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the player type questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := playertype.DefaultQuestionnaire()
		for _, question := range q.Questions {
			fmt.Println(theme.Heading.Render(fmt.Sprintf("%d. %s", question.ID, question.Text)))
			for i, opt := range question.Options {
				fmt.Printf("   [%d] %s\n", i, opt.Text)
			}
		}
		fmt.Println()
		fmt.Println(theme.Hint.Render(`Submit with: learnloop playertype submit --learner ID --answers "1=0,2=1,..."`))
		return nil
	},
}

var playertypeSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Evaluate questionnaire answers for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		raw, _ := cmd.Flags().GetString("answers")

		answers, err := parseAnswers(raw)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		profile, err := rt.engine.SubmitQuestionnaire(cmd.Context(), learner, answers)
		if err != nil {
			return fmt.Errorf("evaluate questionnaire: %w", err)
		}
		printProfile(profile)
		return nil
	},
}

var playertypeClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a learner from recorded behavior",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		profile, signals, err := rt.engine.Classify(cmd.Context(), learner)
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
		printProfile(profile)

		fmt.Println()
		fmt.Println(theme.Heading.Render("Signals"))
		fmt.Printf("Velocity:          %.2f completions/day\n", signals.Velocity)
		fmt.Printf("Breadth:           %.0f%%\n", signals.Breadth*100)
		fmt.Printf("Social:            %d\n", signals.Social)
		fmt.Printf("Scoreboard views:  %d\n", signals.ScoreboardViews)
		return nil
	},
}

var playertypeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a learner's stored player type",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		profile, err := rt.engine.Profile(cmd.Context(), learner)
		if err != nil {
			return fmt.Errorf("load player type: %w", err)
		}
		printProfile(profile)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{playertypeSubmitCmd, playertypeClassifyCmd, playertypeShowCmd} {
		c.Flags().String("learner", "", "Learner id (required)")
		_ = c.MarkFlagRequired("learner")
	}
	playertypeSubmitCmd.Flags().String("answers", "", `Answers as "question=option" pairs, e.g. "1=0,2=1" (required)`)
	_ = playertypeSubmitCmd.MarkFlagRequired("answers")

	playertypeCmd.AddCommand(playertypeQuestionsCmd)
	playertypeCmd.AddCommand(playertypeSubmitCmd)
	playertypeCmd.AddCommand(playertypeClassifyCmd)
	playertypeCmd.AddCommand(playertypeShowCmd)
}

// parseAnswers parses "1=0,2=1" into question id to option index.
func parseAnswers(raw string) (playertype.Answers, error) {
	answers := playertype.Answers{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		q, opt, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid answer %q: want question=option", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil {
			return nil, fmt.Errorf("invalid question id %q: %w", q, err)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(opt))
		if err != nil {
			return nil, fmt.Errorf("invalid option %q: %w", opt, err)
		}
		if _, dup := answers[id]; dup {
			return nil, fmt.Errorf("question %d answered twice", id)
		}
		answers[id] = idx
	}
	return answers, nil
}

func printProfile(p playertype.Profile) {
	fmt.Println(theme.Title.Render(fmt.Sprintf("%s: %s", p.LearnerID, p.Dominant.DisplayName())))
	fmt.Println(theme.Hint.Render(fmt.Sprintf("source: %s, recommended view: %s", p.Source, p.View())))
	for _, t := range playertype.AllTypes() {
		bar := components.NewProgressBar(fmt.Sprintf("%-10s", t.DisplayName()), int64(p.Percentage(t)), 100, 50)
		fmt.Println(bar.View())
	}
}
