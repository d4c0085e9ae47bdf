// Package export renders a user's ledger as downloadable XLSX and PDF files.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"fintrack/internal/core"

	"github.com/xuri/excelize/v2"
)

const (
	DateLayout = "02/01/2006"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Row is one exported ledger line.
type Row struct {
	Label  string
	Amount core.Money
	Date   time.Time
}

// Sheet is a titled table of rows. LabelHeader names the first column.
type Sheet struct {
	Name        string
	LabelHeader string
	Rows        []Row
}

func IncomeSheet(items []core.Income) Sheet {
	s := Sheet{Name: "Incomes", LabelHeader: "Source", Rows: make([]Row, 0, len(items))}
	for _, in := range items {
		s.Rows = append(s.Rows, Row{Label: in.Source, Amount: in.Amount, Date: in.Date})
	}
	return s
}

func ExpenseSheet(items []core.Expense) Sheet {
	s := Sheet{Name: "Expenses", LabelHeader: "Category", Rows: make([]Row, 0, len(items))}
	for _, e := range items {
		s.Rows = append(s.Rows, Row{Label: e.Category, Amount: e.Amount, Date: e.Date})
	}
	return s
}

var columnWidths = []struct {
	col   string
	width float64
}{
	{"A", 20},
	{"B", 15},
	{"C", 15},
}

// WriteXLSX writes s as a single-sheet workbook: label, amount, DD/MM/YYYY date.
func WriteXLSX(w io.Writer, s Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.Name); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []interface{}{s.LabelHeader, "Amount", "Date"}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.Label, r.Amount.Float(), r.Date.Format(DateLayout)}
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for _, cw := range columnWidths {
		if err := f.SetColWidth(s.Name, cw.col, cw.col, cw.width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadXLSX parses a workbook produced by WriteXLSX back into rows.
func ReadXLSX(r io.Reader, sheet string) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheet)
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, c := range cells[1:] {
		if len(c) < 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns, got %d", i+2, len(c))
		}
		amount, err := strconv.ParseFloat(c[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse amount: %w", i+2, err)
		}
		date, err := time.Parse(DateLayout, c[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse date: %w", i+2, err)
		}
		rows = append(rows, Row{
			Label:  c[0],
			Amount: core.Money{Cents: int64(math.Round(amount * 100))},
			Date:   date,
		})
	}
	return rows, nil
}
