package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Sheet names the tables of the XLSX report.
const (
	SheetSignals        = "Signals"
	SheetNumericProfile = "NumericProfile"
	SheetComparisons    = "Comparisons"
	SheetOutliers       = "Outliers"
)

// Sheet is one worksheet: a header row followed by the table rows.
type Sheet struct {
	Name  string
	Table *table.Table
}

// WriteXLSX saves sheets to path in the given order; the first sheet is active.
// Numeric cells are stored as numbers, everything else (NA included) as text.
func WriteXLSX(path string, sheets []Sheet) (err error) {
	if len(sheets) == 0 {
		return errors.New("no sheets to write")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("sheet %s: %w", s.Name, err)
		}
		if err := writeSheet(f, s, header); err != nil {
			return fmt.Errorf("sheet %s: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	if s.Table == nil {
		return nil
	}
	cols := s.Table.Schema.Columns
	head := make([]any, len(cols))
	for i, c := range cols {
		head[i] = c
	}
	if err := f.SetSheetRow(s.Name, "A1", &head); err != nil {
		return err
	}
	if len(cols) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return err
		}
	}
	for r, rec := range s.Table.Rows {
		row := make([]any, len(rec))
		for i, v := range rec {
			if n := table.ParseNum(v); n.OK {
				row[i] = n.V
			} else {
				row[i] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
