package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/f3rmion/harakat/internal/markov"
)

// Sheet titles for the two matrices.
const (
	TransitionSheet = "Transition Matrix"
	StationarySheet = "Stationary Matrix"
)

// defaultSheet is the sheet excelize creates with a new file.
const defaultSheet = "Sheet1"

// SaveWorkbook writes a labelled matrix to an .xlsx file: a header row of
// state labels, then one row per state starting with its label.
func SaveWorkbook(path, sheet string, l *markov.Labeled) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, 0, l.Size()+1)
	header = append(header, "")
	for _, s := range l.States {
		header = append(header, s)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, src := range l.States {
		row := make([]interface{}, 0, l.Size()+1)
		row = append(row, src)
		for j := range l.States {
			row = append(row, l.At(i, j))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %q: %w", src, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// ReadWorkbook loads a matrix written by SaveWorkbook.
func ReadWorkbook(path, sheet string) (*markov.Labeled, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return markov.NewLabeled(nil, nil), nil
	}

	states := rows[0][1:]
	n := len(states)
	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		if i+1 >= len(rows) {
			return nil, fmt.Errorf("sheet %q: missing row for %q", sheet, states[i])
		}
		cells := rows[i+1]
		for j := 0; j < n && j+1 < len(cells); j++ {
			var v float64
			if _, err := fmt.Sscan(cells[j+1], &v); err != nil {
				return nil, fmt.Errorf("sheet %q: cell (%d,%d): %w", sheet, i, j, err)
			}
			values[i*n+j] = v
		}
	}
	return markov.NewLabeled(states, values), nil
}
