package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

func num(v float64) table.Num { return table.Some(v) }

func TestRatiosGuardDivisionByZero(t *testing.T) {
	assert.Equal(t, "NA", StudyEfficiencyOf(num(80), num(0)).Format(RatioPlaces))
	assert.Equal(t, "NA", StudyEfficiencyOf(num(80), num(-2)).Format(RatioPlaces))
	assert.Equal(t, "NA", StudyEfficiencyOf(num(80), table.Missing).Format(RatioPlaces))
	assert.Equal(t, "26.6667", StudyEfficiencyOf(num(80), num(3)).Format(RatioPlaces))

	assert.Equal(t, "NA", StressToMotivationOf(num(5), num(-1)).Format(RatioPlaces))
	assert.Equal(t, "2.5000", StressToMotivationOf(num(5), num(1)).Format(RatioPlaces))
	assert.Equal(t, "0.0000", StressToMotivationOf(num(0), num(0)).Format(RatioPlaces))

	assert.Equal(t, "NA", EngagementRatioOf(num(1), num(2), num(-1)).Format(RatioPlaces))
	assert.Equal(t, "NA", EngagementRatioOf(table.Missing, num(2), num(1)).Format(RatioPlaces))
	assert.Equal(t, "1.0000", EngagementRatioOf(num(1), num(2), num(2)).Format(RatioPlaces))
}

func TestAddRatios(t *testing.T) {
	tb := table.New("StudyHours", "FinalGrade", "StressLevel", "Motivation", "Resources", "Discussions", "OnlineCourses")
	tb.Append(table.Record{"0", "80", "5", "-1", "2", "1", "3"})
	tb.Append(table.Record{"4", "2", "1", "2", "NA", "1", "0"})

	out := AddRatios(tb)
	require.Equal(t, 10, out.Schema.Len())
	assert.Equal(t, []string{"NA", "NA", "1.3333"}, []string(out.Rows[0][7:]))
	assert.Equal(t, []string{"0.5000", "0.3333", "NA"}, []string(out.Rows[1][7:]))
	for _, r := range out.Rows {
		assert.Len(t, r, out.Schema.Len())
	}
}

func TestAddRatiosWithoutInputs(t *testing.T) {
	tb := table.New("Other")
	tb.Append(table.Record{"1"})
	out := AddRatios(tb)
	assert.Equal(t, table.Record{"1", "NA", "NA", "NA"}, out.Rows[0])
}

func TestBucket(t *testing.T) {
	cases := []struct {
		in   table.Num
		want string
	}{
		{table.Missing, "NA"},
		{num(-3), BucketZero},
		{num(0), BucketZero},
		{num(0.1), BucketLo},
		{num(49.99), BucketLo},
		{num(50), BucketMid},
		{num(74.9), BucketMid},
		{num(75), BucketHi},
		{num(100), BucketHi},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Bucket(c.in), "%+v", c.in)
	}
}

func TestAddBucketsAndCounts(t *testing.T) {
	tb := table.New("ExamScore", "Gender")
	for _, v := range []string{"40", "60", "90", "NA", "95"} {
		tb.Append(table.Record{v, "1"})
	}
	b := AddBuckets(tb, []string{"ExamScore", "Absent"})
	assert.Equal(t, []string{"ExamScore", "Gender", "ExamScore_Bucket"}, b.Schema.Columns)
	assert.Equal(t, []string{"LO", "MID", "HI", "NA", "HI"}, b.Column("ExamScore_Bucket"))

	out, err := BucketCounts(b, []string{"ExamScore", "Absent"}).TSV()
	require.NoError(t, err)
	assert.Equal(t, "column\tbucket\tcount\n"+
		"ExamScore\tZERO\t0\n"+
		"ExamScore\tLO\t1\n"+
		"ExamScore\tMID\t1\n"+
		"ExamScore\tHI\t2\n"+
		"ExamScore\tNA\t1\n", string(out))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Female", Label("Gender", "1"))
	assert.Equal(t, "Male", Label("Gender", "0.0"))
	assert.Equal(t, "7", Label("Gender", "7"), "out-of-domain code passes through")
	assert.Equal(t, "NA", Label("Internet", "NA"))
	assert.Equal(t, "Yes", Label("EduTech", "1"))
	assert.Equal(t, "High", Label("Motivation", "2"))
	assert.Equal(t, "3", Label("Age", "3"))
	assert.Nil(t, LabelFor("Age"))
	assert.Equal(t, "Kinesthetic", LabelFor("LearningStyle")("3"))
}

func TestGradeSchemes(t *testing.T) {
	_, err := ParseGradeScheme("curve")
	assert.Error(t, err)
	s, err := ParseGradeScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemePercent, s)

	pct := NewGrader(SchemePercent, []string{"95", "81", "NA", "40"})
	assert.Equal(t, 1.0, pct.Scale)
	assert.Equal(t, "A", pct.Letter("95"))
	assert.Equal(t, "B", pct.Letter("80"))
	assert.Equal(t, "C", pct.Letter("79.9"))
	assert.Equal(t, "D", pct.Letter("60"))
	assert.Equal(t, "F", pct.Letter("40"))
	assert.Equal(t, "NA", pct.Letter("NA"))

	tenths := NewGrader(SchemePercent, []string{"9.5", "7", "3"})
	assert.Equal(t, 10.0, tenths.Scale)
	assert.Equal(t, "A", tenths.Letter("9.5"))
	assert.Equal(t, "C", tenths.Letter("7"))
	assert.Equal(t, "F", tenths.Letter("3"))

	code := NewGrader(SchemeCode, nil)
	for in, want := range map[string]string{"3": "A", "2": "B", "1": "C", "0": "D", "4": "F", "1.5": "F", "NA": "NA"} {
		assert.Equal(t, want, code.Letter(in), in)
	}
}

func TestAddLabels(t *testing.T) {
	tb := table.New("Motivation", "Gender", "FinalGrade")
	tb.Append(table.Record{"0", "1", "3"})
	tb.Append(table.Record{"5", "NA", "0"})

	out := AddLabels(tb, SchemeCode, "FinalGrade")
	assert.Equal(t, []string{"Motivation", "Gender", "FinalGrade", "GenderLabel", "MotivationLabel", "LetterGrade"}, out.Schema.Columns)
	assert.Equal(t, table.Record{"0", "1", "3", "Female", "Low", "A"}, out.Rows[0])
	assert.Equal(t, table.Record{"5", "NA", "0", "NA", "5", "D"}, out.Rows[1])
}
