package analysis

import (
	"math"
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Outlier directions.
const (
	DirHigh = "HIGH"
	DirLow  = "LOW"
)

// Outlier is one value whose |z| exceeds the threshold.
type Outlier struct {
	Row       int // 1-based data row in the analyzed table
	Key       string
	Column    string
	Value     float64
	Z         float64
	Direction string
}

// DetectOutliers scores every present value of each profiled column. Columns with
// zero spread produce no outliers. Results are ordered by profile order, then row.
func DetectOutliers(t *table.Table, dists []NumSummary, opt Options) []Outlier {
	keyIdx := 0
	if opt.KeyColumn != "" {
		keyIdx = t.Schema.Index(opt.KeyColumn)
	}
	var out []Outlier
	for _, d := range dists {
		ci := t.Schema.Index(d.Column)
		if ci < 0 {
			continue
		}
		for r, row := range t.Rows {
			x := table.ParseNum(row.Get(ci))
			if !x.OK {
				continue
			}
			z := d.ZScore(x.V)
			if !z.OK || math.Abs(z.V) <= opt.OutlierThreshold {
				continue
			}
			dir := DirHigh
			if z.V < 0 {
				dir = DirLow
			}
			out = append(out, Outlier{
				Row:       r + 1,
				Key:       row.Get(keyIdx),
				Column:    d.Column,
				Value:     x.V,
				Z:         z.V,
				Direction: dir,
			})
		}
	}
	return out
}

// OutlierTable renders (row, key, column, value, z, direction).
func OutlierTable(outliers []Outlier) *table.Table {
	t := table.New("row", "key", "column", "value", "z", "direction")
	for _, o := range outliers {
		t.Append(table.Record{
			strconv.Itoa(o.Row),
			o.Key,
			o.Column,
			table.Some(o.Value).Format(-1),
			table.Some(o.Z).Format(4),
			o.Direction,
		})
	}
	return t
}
