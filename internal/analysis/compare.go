package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Comparison contrasts one category's mean of a numeric column with the overall mean.
type Comparison struct {
	Column      string // categorical column
	Category    string
	Metric      string // numeric column
	Count       int    // group rows with the metric present
	GroupMean   float64
	OverallMean float64
	Diff        float64 // GroupMean - OverallMean
	PctDiff     float64 // Diff relative to |OverallMean|, 0 when OverallMean is 0
}

// AbsDiff is |GroupMean - OverallMean|.
func (c Comparison) AbsDiff() float64 { return math.Abs(c.Diff) }

// Compare computes every (categorical × numeric) comparison. Pairs of a column
// with itself and NA categories are skipped. Output order: categorical column order,
// numeric column order, category ascending.
func Compare(t *table.Table, categorical, numeric []string, opt Options) []Comparison {
	type acc struct {
		n   int
		sum float64
	}
	var out []Comparison
	for _, cc := range categorical {
		ci := t.Schema.Index(cc)
		if ci < 0 {
			continue
		}
		for _, nc := range numeric {
			ni := t.Schema.Index(nc)
			if ni < 0 || nc == cc {
				continue
			}
			var overall acc
			groups := map[string]*acc{}
			for _, row := range t.Rows {
				x := table.ParseNum(row.Get(ni))
				if !x.OK {
					continue
				}
				overall.n++
				overall.sum += x.V
				cat := row.Get(ci)
				if table.IsNA(cat) {
					continue
				}
				cat = opt.label(cc, cat)
				g := groups[cat]
				if g == nil {
					g = &acc{}
					groups[cat] = g
				}
				g.n++
				g.sum += x.V
			}
			if overall.n == 0 {
				continue
			}
			om := overall.sum / float64(overall.n)
			cats := make([]string, 0, len(groups))
			for k := range groups {
				cats = append(cats, k)
			}
			sort.Strings(cats)
			for _, k := range cats {
				g := groups[k]
				gm := g.sum / float64(g.n)
				diff := gm - om
				pct := 0.0
				if om != 0 {
					pct = diff / math.Abs(om) * 100
				}
				out = append(out, Comparison{
					Column: cc, Category: k, Metric: nc, Count: g.n,
					GroupMean: gm, OverallMean: om, Diff: diff, PctDiff: pct,
				})
			}
		}
	}
	return out
}

// ComparisonTable renders the comparisons with 4-decimal means and 2-decimal percents.
func ComparisonTable(cs []Comparison) *table.Table {
	t := table.New("column", "category", "metric", "count", "group_mean", "overall_mean", "abs_diff", "pct_diff")
	for _, c := range cs {
		t.Append(table.Record{
			c.Column,
			c.Category,
			c.Metric,
			strconv.Itoa(c.Count),
			table.Some(c.GroupMean).Format(4),
			table.Some(c.OverallMean).Format(4),
			table.Some(c.AbsDiff()).Format(4),
			table.Some(c.PctDiff).Format(2),
		})
	}
	return t
}
