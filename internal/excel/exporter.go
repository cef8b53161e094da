package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/internal/stats"
)

const (
	SummarySheet    = "Summary"
	CategoriesSheet = "Categories"
	ProblemsSheet   = "Problems"
)

// band fill colours, same palette as the terminal report
var bandFills = map[stats.Band]string{
	stats.Good: "C6EFCE",
	stats.Fair: "FFEB9C",
	stats.Poor: "FFC7CE",
}

// Export writes the statistics report to an .xlsx workbook.
func Export(path string, report practice.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f, bandStyles: make(map[stats.Band]int)}
	if err := w.init(); err != nil {
		return err
	}

	s := report.Summary
	summary := [][]interface{}{
		{"Problems", s.TotalProblems},
		{"Attempts", s.TotalAttempts},
		{"Correct", s.TotalCorrect},
		{"Accuracy", s.Accuracy},
		{"Needs review", report.Review},
	}
	for i, row := range summary {
		if err := w.row(SummarySheet, i+1, row, -1); err != nil {
			return err
		}
	}

	if err := w.header(CategoriesSheet, "Category", "Problems", "Attempts", "Correct", "Accuracy"); err != nil {
		return err
	}
	for i, c := range report.Categories {
		row := []interface{}{c.Category, c.Problems, c.Attempts, c.Correct, c.Accuracy}
		if err := w.row(CategoriesSheet, i+2, row, c.Accuracy); err != nil {
			return err
		}
	}

	if err := w.header(ProblemsSheet, "ID", "Title", "Category", "Attempts", "Correct", "Accuracy", "Created"); err != nil {
		return err
	}
	for i, p := range report.Problems {
		accuracy := -1
		if p.Stats.Attempts > 0 {
			accuracy = p.Stats.Accuracy
		}
		row := []interface{}{p.ID, p.Title, p.Category, p.Stats.Attempts, p.Stats.Correct, p.Stats.Accuracy, p.CreatedAt.Format("2006-01-02")}
		if err := w.row(ProblemsSheet, i+2, row, accuracy); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

type workbook struct {
	f           *excelize.File
	headerStyle int
	bandStyles  map[stats.Band]int
}

func (w *workbook) init() error {
	if err := w.f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{CategoriesSheet, ProblemsSheet} {
		if _, err := w.f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	var err error
	w.headerStyle, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	for band, color := range bandFills {
		id, err := w.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create style: %w", err)
		}
		w.bandStyles[band] = id
	}
	return nil
}

func (w *workbook) header(sheet string, titles ...string) error {
	values := make([]interface{}, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	if err := w.f.SetSheetRow(sheet, "A1", &values); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(titles), 1)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, "A1", last, w.headerStyle)
}

// row writes values starting in column A. A non-negative accuracy colours
// the row by its band.
func (w *workbook) row(sheet string, rowNum int, values []interface{}, accuracy int) error {
	first, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, first, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	if accuracy < 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(values), rowNum)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, first, last, w.bandStyles[stats.BandOf(accuracy)])
}
