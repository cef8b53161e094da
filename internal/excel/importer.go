package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/mistakebook/internal/images"
	"github.com/example/mistakebook/internal/practice"
	"github.com/example/mistakebook/pkg/models"
)

// ProblemAdder is the part of the practice service the importer needs.
type ProblemAdder interface {
	Problems(ctx context.Context) []models.Problem
	Categories(ctx context.Context) []string
	AddProblem(ctx context.Context, in practice.NewProblem) (models.Problem, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	TitleColumn    string // Column with the title
	CategoryColumn string // Column with the category
	QuestionColumn string // Column with the question image path
	AnswerColumn   string // Column with the answer image path
	SheetName      string // Name of the sheet to import, empty for the first sheet
	StartRow       int    // The row to start importing from (1-based index)
	KeepDuplicates bool   // Import rows even when title and category already exist
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TitleColumn:    "A",
		CategoryColumn: "B",
		QuestionColumn: "C",
		AnswerColumn:   "D",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed    int
	CategoriesCreated int
	Created           int
	Skipped           int
	Errors            []string
}

var errEmptyRow = errors.New("empty row")

// importer carries the state shared by all rows of one import.
type importer struct {
	ctx        context.Context
	cfg        ImportConfig
	adder      ProblemAdder
	baseDir    string
	existing   map[string]bool
	categories map[string]bool
	result     *ImportResult
}

// ImportProblems imports problems from an Excel or CSV file. Image paths
// in the file are resolved relative to the file's directory. Rows whose
// title and category match an existing problem, or an earlier row, are
// skipped unless KeepDuplicates is set.
func ImportProblems(ctx context.Context, config ImportConfig, adder ProblemAdder) (*ImportResult, error) {
	rows, err := readRows(config)
	if err != nil {
		return nil, err
	}

	imp := &importer{
		ctx:        ctx,
		cfg:        config,
		adder:      adder,
		baseDir:    filepath.Dir(config.FilePath),
		existing:   make(map[string]bool),
		categories: make(map[string]bool),
		result:     &ImportResult{Errors: make([]string, 0)},
	}
	for _, p := range adder.Problems(ctx) {
		imp.existing[problemKey(p.Title, p.Category)] = true
	}
	for _, c := range adder.Categories(ctx) {
		imp.categories[c] = true
	}

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		if err := imp.processRow(row); err != nil {
			if errors.Is(err, errEmptyRow) {
				continue
			}
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return imp.result, nil
}

// readRows returns every row of the configured sheet or CSV file.
func readRows(config ImportConfig) ([][]string, error) {
	// Check the file extension
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return readCSV(config.FilePath)
	}
	return readExcel(config)
}

func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow validates one row and adds it as a problem.
func (imp *importer) processRow(row []string) error {
	title := cell(row, imp.cfg.TitleColumn)
	category := cell(row, imp.cfg.CategoryColumn)
	questionPath := cell(row, imp.cfg.QuestionColumn)
	answerPath := cell(row, imp.cfg.AnswerColumn)

	if title == "" && category == "" && questionPath == "" && answerPath == "" {
		return errEmptyRow
	}
	imp.result.TotalProcessed++

	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if category == "" {
		return fmt.Errorf("category cannot be empty")
	}

	key := problemKey(title, category)
	if imp.existing[key] && !imp.cfg.KeepDuplicates {
		imp.result.Skipped++
		return nil
	}

	question, err := images.EncodeFile(imp.resolve(questionPath))
	if err != nil {
		return fmt.Errorf("question image: %w", err)
	}
	answer, err := images.EncodeFile(imp.resolve(answerPath))
	if err != nil {
		return fmt.Errorf("answer image: %w", err)
	}

	if _, err := imp.adder.AddProblem(imp.ctx, practice.NewProblem{
		Title:         title,
		Category:      category,
		QuestionImage: question,
		AnswerImage:   answer,
	}); err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}

	imp.existing[key] = true
	if !imp.categories[category] {
		imp.categories[category] = true
		imp.result.CategoriesCreated++
	}
	imp.result.Created++
	return nil
}

func (imp *importer) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(imp.baseDir, path)
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func problemKey(title, category string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.TrimSpace(category)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
