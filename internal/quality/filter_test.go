package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

func sample() *table.Table {
	tb := table.New("A", "B", "C")
	tb.Append(table.Record{"5", "NA", "2"})
	tb.Append(table.Record{"NA", "1", "1"})
	tb.Append(table.Record{"3", "-4", "1"})
	tb.Append(table.Record{"1", "z", "9"})
	tb.Append(table.Record{"1", "a", "8"})
	tb.Append(table.Record{"2", "x"})
	tb.Append(table.Record{"1", "a", "7"})
	return tb
}

func TestFilterReasonsAndOrder(t *testing.T) {
	kept, rejected, st := Filter(sample(), "")

	assert.Equal(t, Stats{Total: 7, Kept: 4, BadTokens: 1, BadKey: 1, BadNum: 1}, st)
	assert.Equal(t, 3, st.Rejected())

	require.Equal(t, 4, kept.Len())
	assert.Equal(t, []table.Record{
		{"1", "a", "8"},
		{"1", "a", "7"},
		{"1", "z", "9"},
		{"5", "NA", "2"},
	}, kept.Rows, "sorted by first two columns, stable on ties")

	assert.Equal(t, []string{"reason", "A", "B", "C"}, rejected.Schema.Columns)
	assert.Equal(t, []table.Record{
		{ReasonBadKey, "NA", "1", "1"},
		{ReasonBadNum, "3", "-4", "1"},
		{ReasonBadTokens, "2", "x", "NA"},
	}, rejected.Rows)
	for _, row := range rejected.Rows {
		assert.Len(t, row, rejected.Schema.Len())
	}
}

func TestFilterNAOnlyRejectedWhenKey(t *testing.T) {
	tb := table.New("A", "B", "C")
	tb.Append(table.Record{"5", "NA", "2"})

	kept, _, st := Filter(tb, "A")
	assert.Equal(t, 1, kept.Len())
	assert.Zero(t, st.Rejected())

	_, rejected, st := Filter(tb, "B")
	assert.Equal(t, 1, st.BadKey)
	assert.Equal(t, ReasonBadKey, rejected.Rows[0][0])
}

func TestFilterFirstRuleWins(t *testing.T) {
	assert.Equal(t, ReasonBadTokens, Reason(table.Record{"NA", "-1"}, 3, 0))
	assert.Equal(t, ReasonBadKey, Reason(table.Record{"NA", "-1"}, 2, 0))
	assert.Equal(t, ReasonBadNum, Reason(table.Record{"k", "-0.5"}, 2, 0))
	assert.Equal(t, "", Reason(table.Record{"k", "-"}, 2, 0))
}

func TestFilterIsDeterministic(t *testing.T) {
	k1, _, _ := Filter(sample(), "")
	k2, _, _ := Filter(sample(), "")
	b1, err := k1.TSV()
	require.NoError(t, err)
	b2, err := k2.TSV()
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestStatsTable(t *testing.T) {
	st := Stats{Total: 10, Kept: 8, BadKey: 2}
	assert.InDelta(t, 0.2, st.RejectedShare(), 1e-9)
	out, err := st.Table().TSV()
	require.NoError(t, err)
	assert.Equal(t, "outcome\trows\nkept\t8\nbad_tokens\t0\nbad_key\t2\nbad_num\t0\ntotal\t10\n", string(out))
}
