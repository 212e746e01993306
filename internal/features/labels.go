package features

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

var yesNo = map[int]string{0: "No", 1: "Yes"}

// codeLabels maps coded integer columns to display labels.
var codeLabels = map[string]map[int]string{
	"Gender":        {0: "Male", 1: "Female"},
	"Internet":      yesNo,
	"EduTech":       yesNo,
	"Motivation":    {0: "Low", 1: "Medium", 2: "High"},
	"LearningStyle": {0: "Visual", 1: "Auditory", 2: "ReadWrite", 3: "Kinesthetic"},
}

// LabeledColumns is the order in which AddLabels appends label columns.
var LabeledColumns = []string{"Gender", "Internet", "EduTech", "Motivation", "LearningStyle"}

// LabelSuffix names the column AddLabels derives from a coded column.
const LabelSuffix = "Label"

// LetterGradeColumn is the derived letter grade column.
const LetterGradeColumn = "LetterGrade"

// Label maps a coded value of column to its label. Values outside the code
// table, and columns without one, pass through unchanged.
func Label(column, v string) string {
	codes, ok := codeLabels[column]
	if !ok {
		return v
	}
	code, ok := asCode(v)
	if !ok {
		return v
	}
	if l, ok := codes[code]; ok {
		return l
	}
	return v
}

// LabelFor returns a labeling function for column, or nil when it has no code table.
func LabelFor(column string) func(string) string {
	if _, ok := codeLabels[column]; !ok {
		return nil
	}
	return func(v string) string { return Label(column, v) }
}

// asCode accepts integral numeric tokens such as "1" or "1.0".
func asCode(v string) (int, bool) {
	n := table.ParseNum(v)
	if !n.OK || n.V != math.Trunc(n.V) {
		return 0, false
	}
	return int(n.V), true
}

// GradeScheme selects how LetterGrade is derived.
type GradeScheme string

const (
	// SchemePercent cuts at 90/80/70/60, reading a column whose maximum is ≤ 10 as a 0–10 scale.
	SchemePercent GradeScheme = "percent"
	// SchemeCode maps small integer codes 3/2/1/0 to A/B/C/D and anything else to F.
	SchemeCode GradeScheme = "code"
)

// ParseGradeScheme validates a scheme name.
func ParseGradeScheme(s string) (GradeScheme, error) {
	switch GradeScheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemePercent, "":
		return SchemePercent, nil
	case SchemeCode:
		return SchemeCode, nil
	default:
		return "", fmt.Errorf("unknown grade scheme %q (use percent or code)", s)
	}
}

// Grader turns grade values into letters under one scheme.
type Grader struct {
	Scheme GradeScheme
	// Scale multiplies values before the percent cut; 10 for a detected 0–10 column.
	Scale float64
}

// NewGrader prepares a grader for the given column values. Under SchemePercent
// it detects a 0–10 scale from the largest present value.
func NewGrader(scheme GradeScheme, values []string) Grader {
	g := Grader{Scheme: scheme, Scale: 1}
	if scheme != SchemePercent {
		return g
	}
	maxV, seen := math.Inf(-1), false
	for _, v := range values {
		if n := table.ParseNum(v); n.OK {
			seen = true
			maxV = math.Max(maxV, n.V)
		}
	}
	if seen && maxV <= 10 {
		g.Scale = 10
	}
	return g
}

// Letter grades one value. Missing or non-numeric values are NA.
func (g Grader) Letter(v string) string {
	n := table.ParseNum(v)
	if !n.OK {
		return table.NA
	}
	if g.Scheme == SchemeCode {
		code, ok := asCode(v)
		if !ok {
			return "F"
		}
		switch code {
		case 3:
			return "A"
		case 2:
			return "B"
		case 1:
			return "C"
		case 0:
			return "D"
		default:
			return "F"
		}
	}
	p := n.V * g.Scale
	switch {
	case p >= 90:
		return "A"
	case p >= 80:
		return "B"
	case p >= 70:
		return "C"
	case p >= 60:
		return "D"
	default:
		return "F"
	}
}

// AddLabels appends <col>Label for each coded column present in t, then LetterGrade
// when gradeColumn is present.
func AddLabels(t *table.Table, scheme GradeScheme, gradeColumn string) *table.Table {
	var src []int
	var cols, names []string
	for _, c := range LabeledColumns {
		if i := t.Schema.Index(c); i >= 0 {
			src = append(src, i)
			cols = append(cols, c)
			names = append(names, c+LabelSuffix)
		}
	}
	gi := t.Schema.Index(gradeColumn)
	var grader Grader
	if gi >= 0 {
		grader = NewGrader(scheme, t.Column(gradeColumn))
		names = append(names, LetterGradeColumn)
	}
	return t.Extend(names, func(r table.Record) []string {
		out := make([]string, 0, len(names))
		for j, i := range src {
			out = append(out, Label(cols[j], r.Get(i)))
		}
		if gi >= 0 {
			out = append(out, grader.Letter(r.Get(gi)))
		}
		return out
	})
}
