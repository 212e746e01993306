package quality

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Rejection reasons, checked in this order.
const (
	ReasonBadTokens = "bad_tokens"
	ReasonBadKey    = "bad_key"
	ReasonBadNum    = "bad_num"
)

// Stats counts rows per outcome. A row is counted under one reason only.
type Stats struct {
	Total     int
	Kept      int
	BadTokens int
	BadKey    int
	BadNum    int
}

// Rejected is the number of rows dropped for any reason.
func (s Stats) Rejected() int { return s.BadTokens + s.BadKey + s.BadNum }

// RejectedShare is Rejected / Total, or 0 for an empty input.
func (s Stats) RejectedShare() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Rejected()) / float64(s.Total)
}

// Table renders the per-reason counts.
func (s Stats) Table() *table.Table {
	t := table.New("outcome", "rows")
	t.Append(table.Record{"kept", strconv.Itoa(s.Kept)})
	t.Append(table.Record{ReasonBadTokens, strconv.Itoa(s.BadTokens)})
	t.Append(table.Record{ReasonBadKey, strconv.Itoa(s.BadKey)})
	t.Append(table.Record{ReasonBadNum, strconv.Itoa(s.BadNum)})
	t.Append(table.Record{"total", strconv.Itoa(s.Total)})
	return t
}

// Reason returns why a row would be rejected, or "" when it is kept.
func Reason(row table.Record, arity, keyIdx int) string {
	if len(row) != arity {
		return ReasonBadTokens
	}
	if keyIdx >= 0 {
		if k := row.Get(keyIdx); k == "" || table.IsNA(k) {
			return ReasonBadKey
		}
	}
	for _, v := range row {
		if n := table.ParseNum(v); n.OK && n.V < 0 {
			return ReasonBadNum
		}
	}
	return ""
}

// Filter partitions rows into kept and rejected. The key column defaults to the
// first column when keyColumn is empty. Kept rows are sorted by (column 1, column 2)
// in byte order; the sort is stable so equal keys keep input order. The rejected
// table has a leading reason column and keeps input order.
func Filter(t *table.Table, keyColumn string) (kept, rejected *table.Table, st Stats) {
	arity := t.Schema.Len()
	keyIdx := 0
	if keyColumn != "" {
		keyIdx = t.Schema.Index(keyColumn)
	}
	if arity == 0 {
		keyIdx = -1
	}

	kept = &table.Table{Schema: t.Schema}
	rejected = table.New(append([]string{"reason"}, t.Schema.Columns...)...)
	for _, row := range t.Rows {
		st.Total++
		switch Reason(row, arity, keyIdx) {
		case "":
			st.Kept++
			kept.Append(row)
			continue
		case ReasonBadTokens:
			st.BadTokens++
			rejected.Append(padTo(append(table.Record{ReasonBadTokens}, row...), arity+1))
		case ReasonBadKey:
			st.BadKey++
			rejected.Append(append(table.Record{ReasonBadKey}, row...))
		case ReasonBadNum:
			st.BadNum++
			rejected.Append(append(table.Record{ReasonBadNum}, row...))
		}
	}
	SortByLeadingColumns(kept)
	return kept, rejected, st
}

// SortByLeadingColumns stably orders rows by their first two fields.
func SortByLeadingColumns(t *table.Table) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if a.Get(0) != b.Get(0) {
			return a.Get(0) < b.Get(0)
		}
		return a.Get(1) < b.Get(1)
	})
}

// padTo fits a malformed row into the rejected table so it stays rectangular.
func padTo(r table.Record, n int) table.Record {
	if len(r) > n {
		return r[:n]
	}
	for len(r) < n {
		r = append(r, table.NA)
	}
	return r
}
