package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/mistakebook/internal/excel"
)

var (
	importSheet          string
	importStartRow       int
	importKeepDuplicates bool
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import problems from an .xlsx or .csv file",
	Long: `Import problems from an .xlsx or .csv file with the columns
title, category, question image path, answer image path.
Image paths are relative to the file.

Titles are not unique, but by default a row is skipped when its title
(ignoring case) and category match an existing problem or an earlier
row; skipped rows are counted in the summary. Pass --keep-duplicates
to import every row.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		cfg := excel.DefaultImportConfig()
		cfg.FilePath = args[0]
		cfg.SheetName = importSheet
		cfg.StartRow = importStartRow
		cfg.KeepDuplicates = importKeepDuplicates

		result, err := excel.ImportProblems(cmd.Context(), cfg, a.svc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📥 Processed %d rows: %d created, %d skipped, %d new categories\n",
			result.TotalProcessed, result.Created, result.Skipped, result.CategoriesCreated)
		for _, e := range result.Errors {
			fmt.Fprintln(out, "⚠️", e)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Export statistics to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := excel.Export(args[0], a.svc.Report(cmd.Context())); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "📤 Exported to", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet to import (default: first sheet)")
	importCmd.Flags().IntVar(&importStartRow, "start-row", 2, "First row to import (1-based)")
	importCmd.Flags().BoolVar(&importKeepDuplicates, "keep-duplicates", false, "Import rows whose title and category already exist")
}
