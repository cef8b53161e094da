package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/mistakebook/internal/images"
	"github.com/example/mistakebook/internal/practice"
)

var addCmd = &cobra.Command{
	Use:   "add [title] [category] [question image] [answer image]",
	Short: "Add a new problem",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		question, err := images.EncodeFile(args[2])
		if err != nil {
			return fmt.Errorf("question image: %w", err)
		}
		answer, err := images.EncodeFile(args[3])
		if err != nil {
			return fmt.Errorf("answer image: %w", err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.svc.AddProblem(cmd.Context(), practice.NewProblem{
			Title:         args[0],
			Category:      args[1],
			QuestionImage: question,
			AnswerImage:   answer,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added '%s' (%s) [%s]\n", p.Title, p.Category, shortID(p.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
