package profile

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// CategoryCount is one ranked entry of a frequency table.
type CategoryCount struct {
	Value string
	Count int
	Rank  int
}

// FrequencyTable is the ranked value counts of one column.
type FrequencyTable struct {
	Column string
	Total  int
	Counts []CategoryCount
}

// Top returns the first entry and its share of Total.
func (f FrequencyTable) Top() (CategoryCount, float64, bool) {
	if len(f.Counts) == 0 || f.Total == 0 {
		return CategoryCount{}, 0, false
	}
	return f.Counts[0], float64(f.Counts[0].Count) / float64(f.Total), true
}

// Frequency counts the values of column, optionally mapped through label first.
// Entries are ordered by count descending, ties by value ascending.
func Frequency(t *table.Table, column string, label func(string) string) FrequencyTable {
	ft := FrequencyTable{Column: column}
	idx := t.Schema.Index(column)
	if idx < 0 {
		return ft
	}
	counts := map[string]int{}
	for _, row := range t.Rows {
		v := row.Get(idx)
		if label != nil {
			v = label(v)
		}
		counts[v]++
		ft.Total++
	}
	ft.Counts = make([]CategoryCount, 0, len(counts))
	for v, c := range counts {
		ft.Counts = append(ft.Counts, CategoryCount{Value: v, Count: c})
	}
	sort.Slice(ft.Counts, func(i, j int) bool {
		if ft.Counts[i].Count == ft.Counts[j].Count {
			return ft.Counts[i].Value < ft.Counts[j].Value
		}
		return ft.Counts[i].Count > ft.Counts[j].Count
	})
	for i := range ft.Counts {
		ft.Counts[i].Rank = i + 1
	}
	return ft
}

// Table renders the frequency table as (value, count, rank).
func (f FrequencyTable) Table() *table.Table {
	t := table.New(f.Column, "count", "rank")
	for _, c := range f.Counts {
		t.Append(table.Record{c.Value, itoa(c.Count), itoa(c.Rank)})
	}
	return t
}

// Skinny projects the table onto a few columns for inspection.
func Skinny(t *table.Table, columns []string) *table.Table {
	return t.Project(columns)
}

func itoa(n int) string { return strconv.Itoa(n) }
