package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/internal/review"
	"github.com/example/mistakebook/internal/tui"
)

var (
	listSearch   string
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		problems := a.svc.Search(cmd.Context(), practice.Filter{Query: listSearch, Category: listCategory})
		out := cmd.OutOrStdout()
		if len(problems) == 0 {
			fmt.Fprintln(out, "No problems found.")
			return nil
		}

		fmt.Fprintf(out, "📚 %d problems:\n\n", len(problems))
		for _, p := range problems {
			mark := "  "
			if review.Needs(p) {
				mark = "🔁"
			}
			accuracy := "  -"
			if p.Stats.Attempts > 0 {
				accuracy = tui.Accuracy(p.Stats.Accuracy)
			}
			fmt.Fprintf(out, "%s %s  %s  [%s]  %s (%d/%d)\n",
				mark, shortID(p.ID), p.Title, p.Category, accuracy, p.Stats.Correct, p.Stats.Attempts)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only titles containing this text")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only this category")
}
