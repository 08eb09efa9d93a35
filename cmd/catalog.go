package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/ui/theme"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the course catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a catalog file and summarize its courses",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.Catalog.Path
		}

		cat, err := catalog.Load(path)
		if err != nil {
			fmt.Println(theme.Bad.Render("invalid"), path)
			return err
		}

		fmt.Println(theme.Good.Render("valid"), path)
		fmt.Printf("%-16s %-28s %-7s %-7s %-7s %s\n", "Course", "Title", "Items", "Badges", "Quests", "Members")
		for _, c := range cat.Courses() {
			items, err := cat.Items(c.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%-16s %-28s %-7d %-7d %-7d %d\n",
				truncate(c.ID, 16), truncate(c.Title, 28), len(items), len(c.Badges), len(c.Quests), len(c.Members))
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
}
