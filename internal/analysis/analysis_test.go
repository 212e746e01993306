package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eduprobe-cli/internal/profile"
	"github.com/KaramelBytes/eduprobe-cli/internal/quality"
	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func columnTable(name string, vals ...string) *table.Table {
	t := table.New("ID", name)
	for i, v := range vals {
		t.Append(table.Record{fmt.Sprintf("S%02d", i+1), v})
	}
	return t
}

func TestDistributionsBasic(t *testing.T) {
	tb := table.New("X", "C", "Sparse")
	for i := 1; i <= 5; i++ {
		sparse := "NA"
		if i <= 3 {
			sparse = fmt.Sprint(i)
		}
		tb.Append(table.Record{fmt.Sprint(i), "7", sparse})
	}

	ds := Distributions(tb, []string{"X", "C", "Sparse", "Absent"}, 5)
	require.Len(t, ds, 2, "Sparse has 3 present values and Absent is not in the schema")

	x := ds[0]
	assert.Equal(t, "X", x.Column)
	assert.Equal(t, 5, x.Count)
	if !almostEqual(x.Mean, 3) || !almostEqual(x.Var, 2) || !almostEqual(x.Std, math.Sqrt2) {
		t.Fatalf("unexpected moments: %+v", x)
	}
	assert.Equal(t, 1.0, x.Min)
	assert.Equal(t, 5.0, x.Max)
	assert.Equal(t, 3.0, x.Median)

	c := ds[1]
	assert.Equal(t, 0.0, c.Var)
	assert.Equal(t, 0.0, c.Std)
	assert.False(t, c.ZScore(7).OK, "zero spread has no z-score")
}

func TestDistributionsVarianceNeverNegative(t *testing.T) {
	tb := columnTable("V", "0.1", "0.1", "0.1", "0.1", "0.1", "0.1")
	tb.Append(table.Record{"S99", "1e8"})
	tb.Append(table.Record{"S98", "1e8"})
	for _, d := range Distributions(tb, []string{"V"}, 1) {
		assert.GreaterOrEqual(t, d.Var, 0.0)
		assert.False(t, math.IsNaN(d.Std))
	}
}

func TestDistributionTableFormatting(t *testing.T) {
	ds := Distributions(columnTable("V", "1", "2", "3", "4", "5"), []string{"V"}, 1)
	out := DistributionTable(ds)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, table.Record{"V", "5", "3.0000", "1.4142", "1", "5", "3.0000"}, out.Rows[0])
}

func TestDistributionsNearFloatLimit(t *testing.T) {
	ds := Distributions(columnTable("x", "1e305", "2e305", "3e305", "1e305", "2e305"), []string{"x"}, 1)
	require.Len(t, ds, 1)
	assert.False(t, math.IsInf(ds[0].Mean, 0))
	assert.Equal(t, 2e305, ds[0].Median)

	row := DistributionTable(ds).Rows[0]
	for _, v := range row {
		assert.NotContains(t, v, "Inf")
	}
	assert.Equal(t, "NA", row[3], "sum of squares overflows, so std is NA")
	assert.Equal(t, strconv.FormatFloat(2e305, 'f', 4, 64), row[6])
}

func TestDetectOutliersBothDirections(t *testing.T) {
	high := []string{"0", "0", "0", "0", "0", "0", "0", "0", "0", "100"}
	tb := columnTable("Score", high...)
	ds := Distributions(tb, []string{"Score"}, 5)
	require.Len(t, ds, 1)

	out := DetectOutliers(tb, ds, DefaultOptions())
	require.Len(t, out, 1)
	o := out[0]
	assert.Equal(t, 10, o.Row)
	assert.Equal(t, "S10", o.Key)
	assert.Equal(t, DirHigh, o.Direction)
	if !almostEqual(o.Z, 3) {
		t.Fatalf("z = %v, want 3", o.Z)
	}

	low := []string{"100", "100", "100", "100", "0", "100", "100", "100", "100", "100"}
	tb = columnTable("Score", low...)
	out = DetectOutliers(tb, Distributions(tb, []string{"Score"}, 5), DefaultOptions())
	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].Row)
	assert.Equal(t, DirLow, out[0].Direction)
	if !almostEqual(out[0].Z, -3) {
		t.Fatalf("z = %v, want -3", out[0].Z)
	}

	rendered := OutlierTable(out)
	assert.Equal(t, table.Record{"5", "S05", "Score", "0", "-3.0000", DirLow}, rendered.Rows[0])
}

func TestDetectOutliersUsesKeyColumnAndSkipsConstant(t *testing.T) {
	tb := table.New("Name", "StudentID", "Flat", "V")
	for i := 0; i < 10; i++ {
		v := "0"
		if i == 3 {
			v = "100"
		}
		tb.Append(table.Record{fmt.Sprintf("n%d", i), fmt.Sprintf("id%d", i), "4", v})
	}
	opt := DefaultOptions()
	opt.KeyColumn = "StudentID"
	out := DetectOutliers(tb, Distributions(tb, []string{"Flat", "V"}, 5), opt)
	require.Len(t, out, 1)
	assert.Equal(t, "id3", out[0].Key)
	assert.Equal(t, "V", out[0].Column)
}

func TestSummarizeGroupsSkipsNA(t *testing.T) {
	tb := table.New("G", "M", "Empty")
	tb.Append(table.Record{"B", "4", "NA"})
	tb.Append(table.Record{"A", "1", "NA"})
	tb.Append(table.Record{"A", "NA", "NA"})
	tb.Append(table.Record{"B", "6", "NA"})

	gs := SummarizeGroups(tb, "G", []string{"M", "Empty", "Nope", "G"}, DefaultOptions())
	assert.Equal(t, []string{"M", "Empty"}, gs.Metrics)
	require.Len(t, gs.Groups, 2)

	a, b := gs.Groups[0], gs.Groups[1]
	assert.Equal(t, "A", a.Group)
	assert.Equal(t, 2, a.Size)
	assert.Equal(t, table.Some(1), a.Means[0])
	assert.Equal(t, []int{1, 0}, a.Present)
	assert.Equal(t, table.Some(5), b.Means[0])
	assert.False(t, b.Means[1].OK)

	out := gs.Table()
	assert.Equal(t, []string{"G", "count", "mean_M", "mean_Empty"}, out.Schema.Columns)
	assert.Equal(t, table.Record{"A", "2", "1.0000", "NA"}, out.Rows[0])
}

func TestSummarizeGroupsAppliesLabels(t *testing.T) {
	tb := table.New("Gender", "ExamScore")
	tb.Append(table.Record{"0", "70"})
	tb.Append(table.Record{"1", "80"})
	opt := DefaultOptions()
	opt.Label = func(col, v string) string {
		if col == "Gender" && v == "0" {
			return "Male"
		}
		if col == "Gender" && v == "1" {
			return "Female"
		}
		return v
	}
	gs := SummarizeGroups(tb, "Gender", []string{"ExamScore"}, opt)
	require.Len(t, gs.Groups, 2)
	assert.Equal(t, "Female", gs.Groups[0].Group)
	assert.Equal(t, "Male", gs.Groups[1].Group)
}

func TestCompareDiffsAndZeroMean(t *testing.T) {
	tb := table.New("Cat", "Score", "Centered")
	tb.Append(table.Record{"A", "10", "-1"})
	tb.Append(table.Record{"A", "10", "-1"})
	tb.Append(table.Record{"B", "20", "1"})
	tb.Append(table.Record{"B", "20", "1"})
	tb.Append(table.Record{"NA", "15", "0"})

	cs := Compare(tb, []string{"Cat"}, []string{"Score", "Centered", "Cat"}, DefaultOptions())
	require.Len(t, cs, 4, "self pair and NA category are skipped")

	a := cs[0]
	assert.Equal(t, "A", a.Category)
	assert.Equal(t, "Score", a.Metric)
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, 15.0, a.OverallMean, "NA-category rows still count toward the overall mean")
	assert.Equal(t, -5.0, a.Diff)
	assert.Equal(t, 5.0, a.AbsDiff())
	if !almostEqual(a.PctDiff, -100.0/3) {
		t.Fatalf("pct = %v", a.PctDiff)
	}

	for _, c := range cs[2:] {
		assert.Equal(t, "Centered", c.Metric)
		assert.Equal(t, 0.0, c.OverallMean)
		assert.Equal(t, 0.0, c.PctDiff, "zero overall mean yields a zero percent difference")
	}

	out := ComparisonTable(cs)
	assert.Equal(t, table.Record{"Cat", "B", "Score", "2", "20.0000", "15.0000", "5.0000", "33.33"}, out.Rows[1])
}

func TestRankSignalsOrderAndTies(t *testing.T) {
	in := SignalInputs{
		Comparisons: []Comparison{
			{Column: "Gender", Category: "F", Metric: "ExamScore", Count: 20, GroupMean: 84, OverallMean: 60, PctDiff: 40},
			{Column: "Gender", Category: "M", Metric: "ExamScore", Count: 3, PctDiff: 90},
			{Column: "Motivation", Category: "Low", Metric: "ExamScore", Count: 8, PctDiff: -40},
			{Column: "Motivation", Category: "High", Metric: "ExamScore", Count: 30, PctDiff: 2},
		},
		Profiles: []profile.ColumnProfile{
			{Name: "Age", Present: 5, Missing: 5},
			{Name: "Gender", Present: 10},
		},
		Frequencies: []profile.FrequencyTable{
			{Column: "Internet", Total: 100, Counts: []profile.CategoryCount{{Value: "Yes", Count: 90, Rank: 1}, {Value: "No", Count: 10, Rank: 2}}},
			{Column: "Only", Total: 100, Counts: []profile.CategoryCount{{Value: "x", Count: 100, Rank: 1}}},
		},
		Quality: quality.Stats{Total: 100, Kept: 90, BadKey: 10},
	}

	got := RankSignals(in, DefaultOptions())
	kinds := make([]string, len(got))
	for i, s := range got {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []string{KindDominantCategory, KindMissingness, KindGroupGap, KindGroupGap, KindRejectedRows}, kinds)

	assert.Equal(t, PriorityMedium, got[0].Priority)
	assert.Equal(t, PriorityHigh, got[1].Priority)
	assert.Contains(t, got[2].Description, "Gender=F", "ties keep discovery order")
	assert.Equal(t, PriorityHigh, got[2].Priority)
	assert.Contains(t, got[3].Description, "Motivation=Low")
	assert.Equal(t, PriorityMedium, got[3].Priority, "HIGH needs more than 10 supporting rows")
	assert.InDelta(t, 10.0, got[4].Impact, 1e-9)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Impact, got[i].Impact)
	}

	out := SignalTable(got)
	assert.Equal(t, []string{"rank", "kind", "priority", "impact", "description"}, out.Schema.Columns)
	assert.Equal(t, "1", out.Rows[0][0])
	assert.Equal(t, "90.00", out.Rows[0][3])
}

func TestRankSignalsOutliers(t *testing.T) {
	in := SignalInputs{
		Distributions: []NumSummary{{Column: "A", Count: 10}, {Column: "B", Count: 50}},
		Outliers:      []Outlier{{Column: "A"}, {Column: "B"}},
	}
	got := RankSignals(in, DefaultOptions())
	require.Len(t, got, 2)
	assert.Equal(t, KindOutliers, got[0].Kind)
	assert.InDelta(t, 10.0, got[0].Impact, 1e-9)
	assert.Equal(t, PriorityHigh, got[0].Priority)
	assert.InDelta(t, 2.0, got[1].Impact, 1e-9)
	assert.Equal(t, PriorityMedium, got[1].Priority)
}

func TestRankSignalsEmpty(t *testing.T) {
	assert.Empty(t, RankSignals(SignalInputs{}, DefaultOptions()))
}

func TestReportMarkdown(t *testing.T) {
	var sigs []Signal
	for i := 0; i < 20; i++ {
		sigs = append(sigs, Signal{Kind: KindGroupGap, Priority: PriorityMedium, Impact: float64(40 - i), Description: "gap\nwith | pipe"})
	}
	r := &Report{
		Name:      "students.csv",
		RunID:     "run-1",
		Delimiter: "COMMA",
		Rows:      12,
		Padded:    1,
		Cols:      []profile.ColumnProfile{{Name: " ", Kind: profile.Categorical, Unique: 2, Present: 12}},
		Quality:   quality.Stats{Total: 12, Kept: 11, BadNum: 1},
		Distributions: []NumSummary{
			{Column: "ExamScore", Count: 11, Mean: 70, Std: 5, Min: 60, Max: 80, Median: 71},
		},
		Signals:  sigs,
		Warnings: []string{"no bucket columns found"},
	}
	md := r.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]", "File: students.csv", "Run: run-1", "Delimiter: COMMA",
		"Rows: 12 (padded 1, truncated 0)", "Columns: 1",
		"[SCHEMA]", "- (unnamed): categorical",
		"[QUALITY]", "- kept 11 of 12", "bad_num: 1",
		"[DISTRIBUTIONS]", "- ExamScore: n 11",
		"[SIGNALS]", "1. [MEDIUM] GROUP_GAP: gap with / pipe (impact 40.00)",
		"- ... 5 more in signals.tsv",
		"[NOTES]", "- no bucket columns found",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "16. [")
	assert.Equal(t, 15, strings.Count(md, "GROUP_GAP"))
}
