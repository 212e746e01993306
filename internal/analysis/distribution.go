package analysis

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// NumSummary is the distribution profile of one numeric column.
type NumSummary struct {
	Column string
	Count  int
	Mean   float64
	Var    float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
}

// Distributions profiles each listed column from a single pass of sums and sums of
// squares. Variance is sumsq/n - mean² clamped at zero to absorb cancellation error,
// and exactly zero for a constant column.
// Columns with fewer than minSample present values, or absent from t, are omitted.
func Distributions(t *table.Table, columns []string, minSample int) []NumSummary {
	if minSample < 1 {
		minSample = 1
	}
	type colAcc struct {
		idx   int
		n     int
		sum   float64
		sumsq float64
		min   float64
		max   float64
		vals  []float64
	}
	accs := make([]*colAcc, 0, len(columns))
	for _, c := range columns {
		if i := t.Schema.Index(c); i >= 0 {
			accs = append(accs, &colAcc{idx: i, min: math.Inf(1), max: math.Inf(-1)})
		}
	}
	for _, row := range t.Rows {
		for _, a := range accs {
			x := table.ParseNum(row.Get(a.idx))
			if !x.OK {
				continue
			}
			a.n++
			a.sum += x.V
			a.sumsq += x.V * x.V
			a.min = math.Min(a.min, x.V)
			a.max = math.Max(a.max, x.V)
			a.vals = append(a.vals, x.V)
		}
	}

	out := make([]NumSummary, 0, len(accs))
	for _, a := range accs {
		if a.n < minSample {
			continue
		}
		n := float64(a.n)
		mean := a.sum / n
		variance := a.sumsq/n - mean*mean
		if variance < 0 || a.min == a.max {
			variance = 0
		}
		median, err := stats.Median(a.vals)
		if err != nil {
			median = math.NaN()
		}
		out = append(out, NumSummary{
			Column: t.Schema.Columns[a.idx],
			Count:  a.n,
			Mean:   mean,
			Var:    variance,
			Std:    math.Sqrt(variance),
			Min:    a.min,
			Max:    a.max,
			Median: median,
		})
	}
	return out
}

// ZScore standardizes v against s. A zero spread yields a missing score.
func (s NumSummary) ZScore(v float64) table.Num {
	if s.Std == 0 {
		return table.Missing
	}
	return table.Some((v - s.Mean) / s.Std)
}

// DistributionTable renders (column, count, mean, std, min, max, median).
func DistributionTable(ds []NumSummary) *table.Table {
	t := table.New("column", "count", "mean", "std", "min", "max", "median")
	for _, d := range ds {
		t.Append(table.Record{
			d.Column,
			strconv.Itoa(d.Count),
			table.Some(d.Mean).Format(4),
			table.Some(d.Std).Format(4),
			table.Some(d.Min).Format(-1),
			table.Some(d.Max).Format(-1),
			table.Some(d.Median).Format(4),
		})
	}
	return t
}
