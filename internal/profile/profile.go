package profile

import (
	"math"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// ColumnKind is the type decided for a column once, during profiling.
type ColumnKind int

const (
	Unknown ColumnKind = iota
	Numeric
	Categorical
	Identifier
)

func (k ColumnKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Identifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// Options holds the classification thresholds.
type Options struct {
	// NumericShare is the minimum share of present values that must be numeric.
	NumericShare float64
	// CategoricalMin and CategoricalMax bound the unique count of a categorical column.
	CategoricalMin int
	CategoricalMax int
	// CodedMax is the largest distinct count for which a numeric column is still
	// read as coded categories (0/1 flags, 0..3 levels) rather than a measurement.
	CodedMax int
}

func DefaultOptions() Options {
	return Options{NumericShare: 0.80, CategoricalMin: 2, CategoricalMax: 200, CodedMax: 20}
}

// ColumnProfile summarizes one column.
type ColumnProfile struct {
	Name    string
	Index   int
	Unique  int // distinct values, NA included
	Present int
	Missing int
	Numeric int // present values matching the numeric pattern
	Integer int // numeric values without a fractional part
	Kind    ColumnKind
	// threshold from the Options used by Columns
	share float64
}

// NumericShare is Numeric / Present, or 0 when nothing is present.
func (p ColumnProfile) NumericShare() float64 {
	if p.Present == 0 {
		return 0
	}
	return float64(p.Numeric) / float64(p.Present)
}

// MissingShare is Missing / (Present + Missing).
func (p ColumnProfile) MissingShare() float64 {
	n := p.Present + p.Missing
	if n == 0 {
		return 0
	}
	return float64(p.Missing) / float64(n)
}

// IsNumeric reports whether the column qualifies for distribution statistics.
// Coded categoricals (0/1/2) qualify too; identifiers never do.
func (p ColumnProfile) IsNumeric() bool {
	return p.Kind != Identifier && p.Present > 0 && p.NumericShare() >= p.share
}

// Columns profiles every column in a single pass.
func Columns(t *table.Table, opt Options) []ColumnProfile {
	n := t.Schema.Len()
	sets := make([]map[string]struct{}, n)
	out := make([]ColumnProfile, n)
	for i, name := range t.Schema.Columns {
		sets[i] = make(map[string]struct{})
		out[i] = ColumnProfile{Name: name, Index: i, share: opt.NumericShare}
	}
	for _, row := range t.Rows {
		for i := 0; i < n; i++ {
			v := row.Get(i)
			sets[i][v] = struct{}{}
			if table.IsNA(v) {
				out[i].Missing++
				continue
			}
			out[i].Present++
			if x := table.ParseNum(v); x.OK {
				out[i].Numeric++
				if x.V == math.Trunc(x.V) {
					out[i].Integer++
				}
			}
		}
	}
	for i := range out {
		out[i].Unique = len(sets[i])
		out[i].Kind = Classify(out[i], opt)
	}
	return out
}

// Classify decides a ColumnKind from the counts of a profile.
func Classify(p ColumnProfile, opt Options) ColumnKind {
	distinct := p.Unique
	if p.Missing > 0 {
		distinct-- // NA is not a category
	}
	numeric := p.NumericShare() >= opt.NumericShare
	switch {
	case p.Present == 0:
		return Unknown
	case distinct == p.Present && distinct > opt.CategoricalMax && (!numeric || p.Integer == p.Numeric):
		return Identifier
	case numeric && distinct > opt.CodedMax:
		return Numeric
	case distinct >= opt.CategoricalMin && distinct <= opt.CategoricalMax:
		return Categorical
	case numeric:
		return Numeric
	default:
		return Unknown
	}
}

// SelectCategorical returns the categorical columns in schema order,
// falling back to the first two columns when none qualify.
func SelectCategorical(profiles []ColumnProfile) []string {
	var out []string
	for _, p := range profiles {
		if p.Kind == Categorical {
			out = append(out, p.Name)
		}
	}
	if len(out) > 0 {
		return out
	}
	for i := 0; i < len(profiles) && i < 2; i++ {
		out = append(out, profiles[i].Name)
	}
	return out
}

// SelectNumeric returns the columns eligible for distribution statistics, in schema order.
func SelectNumeric(profiles []ColumnProfile) []string {
	var out []string
	for _, p := range profiles {
		if p.IsNumeric() {
			out = append(out, p.Name)
		}
	}
	return out
}

// Kinds indexes the decided kinds by column name for later stages.
func Kinds(profiles []ColumnProfile) map[string]ColumnKind {
	m := make(map[string]ColumnKind, len(profiles))
	for _, p := range profiles {
		m[p.Name] = p.Kind
	}
	return m
}

// CardinalityTable renders profiles as (column, kind, unique, present, missing, numeric_share).
func CardinalityTable(profiles []ColumnProfile) *table.Table {
	t := table.New("column", "kind", "unique", "present", "missing", "numeric_share")
	for _, p := range profiles {
		t.Append(table.Record{
			p.Name,
			p.Kind.String(),
			itoa(p.Unique),
			itoa(p.Present),
			itoa(p.Missing),
			table.Some(p.NumericShare()).Format(4),
		})
	}
	return t
}
