package features

import (
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Ordinal bucket labels.
const (
	BucketZero = "ZERO"
	BucketLo   = "LO"
	BucketMid  = "MID"
	BucketHi   = "HI"
)

// BucketOrder is the reporting order of bucket labels, NA last.
var BucketOrder = []string{BucketZero, BucketLo, BucketMid, BucketHi, table.NA}

// BucketSuffix names the column AddBuckets derives from a source column.
const BucketSuffix = "_Bucket"

// Bucket maps a value onto ≤0 ZERO, <50 LO, <75 MID, else HI. Missing stays NA.
func Bucket(n table.Num) string {
	switch {
	case !n.OK:
		return table.NA
	case n.V <= 0:
		return BucketZero
	case n.V < 50:
		return BucketLo
	case n.V < 75:
		return BucketMid
	default:
		return BucketHi
	}
}

// AddBuckets appends <col>_Bucket for each listed column present in t.
func AddBuckets(t *table.Table, cols []string) *table.Table {
	var src []int
	var names []string
	for _, c := range cols {
		if i := t.Schema.Index(c); i >= 0 {
			src = append(src, i)
			names = append(names, c+BucketSuffix)
		}
	}
	return t.Extend(names, func(r table.Record) []string {
		out := make([]string, len(src))
		for j, i := range src {
			out[j] = Bucket(table.ParseNum(r.Get(i)))
		}
		return out
	})
}

// BucketCounts tallies the bucket columns of a bucketed table as (column, bucket, count),
// in column order then BucketOrder. Zero counts are included so the shape is fixed.
func BucketCounts(bucketed *table.Table, cols []string) *table.Table {
	out := table.New("column", "bucket", "count")
	for _, c := range cols {
		i := bucketed.Schema.Index(c + BucketSuffix)
		if i < 0 {
			continue
		}
		counts := map[string]int{}
		for _, row := range bucketed.Rows {
			counts[row.Get(i)]++
		}
		for _, b := range BucketOrder {
			out.Append(table.Record{c, b, strconv.Itoa(counts[b])})
		}
	}
	return out
}
