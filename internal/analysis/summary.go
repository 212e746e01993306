package analysis

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// GroupRow is one group of a per-category summary.
type GroupRow struct {
	Group string
	Size  int
	// Means holds one NA-skipping mean per metric, aligned with GroupSummary.Metrics.
	Means []table.Num
	// Present counts the non-missing values behind each mean.
	Present []int
}

// GroupSummary holds per-group counts and metric means for one grouping column.
type GroupSummary struct {
	Column  string
	Metrics []string
	Groups  []GroupRow
}

// SummarizeGroups groups t by column and averages each metric over the rows where
// it is present. Metrics absent from the schema are skipped. Groups are ordered by
// value ascending.
func SummarizeGroups(t *table.Table, column string, metrics []string, opt Options) GroupSummary {
	gs := GroupSummary{Column: column}
	gi := t.Schema.Index(column)
	if gi < 0 {
		return gs
	}
	var mi []int
	for _, m := range metrics {
		if i := t.Schema.Index(m); i >= 0 && m != column {
			mi = append(mi, i)
			gs.Metrics = append(gs.Metrics, m)
		}
	}

	type gAcc struct {
		size int
		sum  []float64
		cnt  []int
	}
	groups := map[string]*gAcc{}
	for _, row := range t.Rows {
		key := opt.label(column, row.Get(gi))
		ga := groups[key]
		if ga == nil {
			ga = &gAcc{sum: make([]float64, len(mi)), cnt: make([]int, len(mi))}
			groups[key] = ga
		}
		ga.size++
		for j, i := range mi {
			if x := table.ParseNum(row.Get(i)); x.OK {
				ga.sum[j] += x.V
				ga.cnt[j]++
			}
		}
	}

	gs.Groups = make([]GroupRow, 0, len(groups))
	for k, ga := range groups {
		gr := GroupRow{Group: k, Size: ga.size, Means: make([]table.Num, len(mi)), Present: ga.cnt}
		for j := range mi {
			if ga.cnt[j] > 0 {
				gr.Means[j] = table.Some(ga.sum[j] / float64(ga.cnt[j]))
			}
		}
		gs.Groups = append(gs.Groups, gr)
	}
	sort.Slice(gs.Groups, func(i, j int) bool { return gs.Groups[i].Group < gs.Groups[j].Group })
	return gs
}

// Table renders (group, count, mean_<metric>...).
func (g GroupSummary) Table() *table.Table {
	cols := []string{g.Column, "count"}
	for _, m := range g.Metrics {
		cols = append(cols, "mean_"+m)
	}
	t := table.New(cols...)
	for _, gr := range g.Groups {
		rec := table.Record{gr.Group, strconv.Itoa(gr.Size)}
		for _, m := range gr.Means {
			rec = append(rec, m.Format(4))
		}
		t.Append(rec)
	}
	return t
}
