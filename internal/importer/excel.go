// Package importer reads and writes todo lists as Excel workbooks.
//
// The first sheet holds a header row followed by one todo per row:
//
//	Title | Link | Completed | Position
//
// Position is written on export and ignored on import; imported rows are
// appended in sheet order.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/north-cloud/todo-manager/internal/models"
)

// Column indices (0-based).
const (
	colTitle     = 0
	colLink      = 1
	colCompleted = 2

	headerRowIndex = 1 // Excel rows are 1-based, header is row 1
)

// Header is the header row written by WriteWorkbook.
var Header = []string{"Title", "Link", "Completed", "Position"}

const defaultSheet = "Todos"

// TodoRow is one parsed data row.
type TodoRow struct {
	Row       int // Excel row number (for error reporting)
	Title     string
	Link      string
	Completed bool
}

// ImportError is a validation error for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ValidateRow returns an error message, or "" when row is importable.
// Only presence is checked; links are stored as given.
func ValidateRow(row TodoRow) string {
	if row.Title == "" {
		return "title is required"
	}
	if row.Link == "" {
		return "link is required"
	}
	return ""
}

// ParseWorkbook reads the first sheet of r. Rows that fail validation are
// reported in the returned ImportErrors and left out of the rows; blank
// rows are skipped silently.
func ParseWorkbook(r io.Reader) ([]TodoRow, []ImportError, error) {
	rows, err := openRows(r)
	if err != nil {
		return nil, nil, err
	}

	var (
		parsed []TodoRow
		errs   []ImportError
	)
	for i, cells := range rows {
		excelRow := i + 1
		if excelRow == headerRowIndex || blank(cells) {
			continue
		}

		row := TodoRow{
			Row:       excelRow,
			Title:     cell(cells, colTitle),
			Link:      cell(cells, colLink),
			Completed: parseCompleted(cell(cells, colCompleted)),
		}
		if msg := ValidateRow(row); msg != "" {
			errs = append(errs, ImportError{Row: excelRow, Error: msg})
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, errs, nil
}

func openRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]string{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}

// WriteWorkbook writes todos, in the order given, to w as an .xlsx file.
func WriteWorkbook(w io.Writer, todos []models.Todo) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", defaultSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, todo := range todos {
		cellName, err := excelize.CoordinatesToCellName(1, i+headerRowIndex+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []any{todo.Title, todo.Link, todo.Completed, todo.Position}
		if err = f.SetSheetRow(defaultSheet, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+headerRowIndex+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseCompleted(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "x", "done":
		return true
	}
	return false
}
