package table

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// NA is the single marker written for missing or undefined values.
const NA = "NA"

var numericPattern = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)

// IsNumeric reports whether s is a plain numeric token (no separators, no units).
func IsNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// IsNA reports whether a cleaned value is the missing marker.
func IsNA(s string) bool { return s == NA }

// Schema is the ordered column list taken from the header row.
type Schema struct {
	Columns []string
	index   map[string]int
}

// NewSchema builds a schema. On duplicate names the first occurrence wins for lookups.
func NewSchema(cols []string) Schema {
	s := Schema{Columns: append([]string(nil), cols...), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, ok := s.index[c]; !ok {
			s.index[c] = i
		}
	}
	return s
}

// Index returns the position of name, or -1.
func (s Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

func (s Schema) Has(name string) bool { return s.Index(name) >= 0 }

func (s Schema) Len() int { return len(s.Columns) }

// Missing returns the names not present in the schema, in input order.
func (s Schema) Missing(names []string) []string {
	var out []string
	for _, n := range names {
		if !s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Record is one row of cleaned values aligned with a Schema.
type Record []string

// Get returns the value at column i, or NA when i is out of range.
func (r Record) Get(i int) string {
	if i < 0 || i >= len(r) {
		return NA
	}
	return r[i]
}

// Table is an immutable-by-convention dataset: stages build new tables instead of editing rows.
type Table struct {
	Schema Schema
	Rows   []Record
}

// New returns an empty table with the given columns.
func New(cols ...string) *Table {
	return &Table{Schema: NewSchema(cols)}
}

// Append adds a row. It does not copy the slice.
func (t *Table) Append(r Record) { t.Rows = append(t.Rows, r) }

func (t *Table) Len() int { return len(t.Rows) }

// Column returns the values of a named column, or nil if absent.
func (t *Table) Column(name string) []string {
	i := t.Schema.Index(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row.Get(i)
	}
	return out
}

// Extend returns a new table with extra columns appended; fn computes the extra values per row.
func (t *Table) Extend(extra []string, fn func(Record) []string) *Table {
	cols := append(append([]string(nil), t.Schema.Columns...), extra...)
	out := &Table{Schema: NewSchema(cols), Rows: make([]Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		add := fn(row)
		rec := make(Record, 0, len(cols))
		rec = append(rec, row...)
		for i := range extra {
			if i < len(add) {
				rec = append(rec, add[i])
			} else {
				rec = append(rec, NA)
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// Project returns a narrow copy holding only the named columns (unknown names are skipped).
func (t *Table) Project(names []string) *Table {
	var idx []int
	var cols []string
	for _, n := range names {
		if i := t.Schema.Index(n); i >= 0 {
			idx = append(idx, i)
			cols = append(cols, n)
		}
	}
	out := &Table{Schema: NewSchema(cols), Rows: make([]Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		rec := make(Record, len(idx))
		for j, i := range idx {
			rec[j] = row.Get(i)
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// Head returns a table with at most n rows sharing the same schema.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	return &Table{Schema: t.Schema, Rows: t.Rows[:n]}
}

// WriteTSV writes the header then every row, tab separated with LF endings.
func (t *Table) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Schema.Columns, "\t") + "\n"); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if len(row) != t.Schema.Len() {
			return fmt.Errorf("row %d: %d fields, header has %d", i+1, len(row), t.Schema.Len())
		}
		if _, err := bw.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TSV renders the table to bytes.
func (t *Table) TSV() ([]byte, error) {
	var b strings.Builder
	if err := t.WriteTSV(&b); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
