package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/mistakebook/internal/config"
	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/internal/tui"
)

var (
	practiceCategory string
	practiceSearch   string
	practiceIDs      []string
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice problems in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		filter := practice.Filter{Query: practiceSearch, Category: practiceCategory}
		for _, prefix := range practiceIDs {
			p, err := resolveProblem(a.svc.Problems(cmd.Context()), prefix)
			if err != nil {
				return err
			}
			filter.IDs = append(filter.IDs, p.ID)
		}

		s := a.svc.NewPracticeSession(cmd.Context(), filter)
		if s.Snapshot().Total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No problems to practice.")
			return nil
		}
		return runSession(cmd, a, s)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review problems below 80% accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.svc.NewReviewSession(cmd.Context())
		if s.Snapshot().Total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Nothing to review. Every practiced problem is at 80% or better.")
			return nil
		}
		return runSession(cmd, a, s)
	},
}

func runSession(cmd *cobra.Command, a *app, s *practice.Session) error {
	if err := a.start(); err != nil {
		return err
	}
	return tui.Run(cmd.Context(), s, filepath.Join(config.DataDir(), "images"))
}

func init() {
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(reviewCmd)

	practiceCmd.Flags().StringVarP(&practiceCategory, "category", "c", "", "Only this category")
	practiceCmd.Flags().StringVarP(&practiceSearch, "search", "s", "", "Only titles containing this text")
	practiceCmd.Flags().StringSliceVar(&practiceIDs, "id", nil, "Only these problems (repeatable, id prefixes accepted)")
}
