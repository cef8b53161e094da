package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/mistakebook/pkg/models"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a problem",
	Long:  "Delete a problem. Any unique prefix of the id is accepted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := resolveProblem(a.svc.Problems(cmd.Context()), args[0])
		if err != nil {
			return err
		}
		if err := a.svc.DeleteProblem(cmd.Context(), p.ID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "🗑️ Deleted '%s'\n", p.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

// resolveProblem finds the problem whose id is, or starts with, prefix.
func resolveProblem(problems []models.Problem, prefix string) (models.Problem, error) {
	var matches []models.Problem
	for _, p := range problems {
		if p.ID == prefix {
			return p, nil
		}
		if strings.HasPrefix(p.ID, prefix) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Problem{}, fmt.Errorf("no problem with id %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return models.Problem{}, fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
