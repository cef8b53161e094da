package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/mistakebook/internal/tui"
)

var statsVerbose bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report := a.svc.Report(cmd.Context())
		out := cmd.OutOrStdout()
		s := report.Summary

		fmt.Fprintln(out, "📊 Statistics")
		fmt.Fprintln(out, "----------------")
		fmt.Fprintf(out, "Problems:     %d\n", s.TotalProblems)
		fmt.Fprintf(out, "Attempts:     %d\n", s.TotalAttempts)
		fmt.Fprintf(out, "Correct:      %d\n", s.TotalCorrect)
		fmt.Fprintf(out, "Accuracy:     %s\n", tui.Accuracy(s.Accuracy))
		fmt.Fprintf(out, "Needs review: %d\n", report.Review)

		if len(report.Categories) > 0 {
			fmt.Fprintln(out, "\nBy category:")
			for _, c := range report.Categories {
				fmt.Fprintf(out, "  %-12s %s (%d/%d) %d problems\n", c.Category, tui.Accuracy(c.Accuracy), c.Correct, c.Attempts, c.Problems)
			}
		}

		if statsVerbose && len(report.Problems) > 0 {
			fmt.Fprintln(out, "\nBy problem:")
			for _, p := range report.Problems {
				fmt.Fprintf(out, "  %s %-24s %s (%d/%d)\n", shortID(p.ID), p.Title, tui.Accuracy(p.Stats.Accuracy), p.Stats.Correct, p.Stats.Attempts)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVarP(&statsVerbose, "verbose", "v", false, "Also list every problem")
}
