package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxSource reads one worksheet of an .xlsx workbook.
type xlsxSource struct{}

func (xlsxSource) CanRead(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

func (xlsxSource) Read(path string, opt Options) (*rawData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("open xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	out := &rawData{}
	for _, row := range rows {
		blank := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				blank = false
				break
			}
		}
		if blank {
			out.BlankLines++
			continue
		}
		if len(out.Sample) < opt.SampleRows+1 {
			out.Sample = append(out.Sample, strings.Join(row, ","))
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = asciiText(c)
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}
