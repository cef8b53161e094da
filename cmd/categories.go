package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, c := range a.svc.Categories(cmd.Context()) {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a custom category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.svc.AddCategory(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Category '%s' available\n", args[0])
		return nil
	},
}

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List recently used titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, t := range a.svc.Titles(cmd.Context()) {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(titlesCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
}
