package ingest

import (
	"errors"
	"io/fs"
	"os"

	"github.com/KaramelBytes/eduprobe-cli/internal/apperr"
	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Options controls how an input file is read and cleaned.
type Options struct {
	// NATokens are raw tokens mapped to NA after cleaning.
	NATokens []string
	// SampleRows is the number of data rows kept in the before/after samples.
	SampleRows int
	// Delimiter forces a separator for text input. If 0, DetectDelimiter decides.
	Delimiter Delimiter
	// Sheet selects an XLSX worksheet by name; the first sheet when empty.
	Sheet string
}

// DefaultOptions returns the standard cleaning options.
func DefaultOptions() Options {
	return Options{
		NATokens:   append([]string(nil), DefaultNATokens...),
		SampleRows: 10,
	}
}

// Stats counts the repairs made while cleaning.
type Stats struct {
	Rows       int
	Padded     int // rows shorter than the header
	Truncated  int // rows longer than the header
	NACells    int
	BlankLines int
}

// Result is the cleaned dataset plus audit material.
type Result struct {
	Table     *table.Table
	Before    []string // verbatim leading lines of the input
	Delimiter Delimiter
	Stats     Stats
}

// After returns the cleaned sample matching Before.
func (r *Result) After(n int) *table.Table { return r.Table.Head(n) }

// Load reads and cleans the input file. A missing or unreadable file is fatal;
// malformed rows are repaired.
func Load(path string, opt Options) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.CodeMissingInput, err, "input not found")
		}
		return nil, apperr.Wrap(apperr.CodeUnreadableInput, err, "stat input")
	}
	if info.IsDir() {
		return nil, apperr.New(apperr.CodeUnreadableInput, "input %s is a directory", path)
	}
	if opt.SampleRows <= 0 {
		opt.SampleRows = 10
	}

	raw, err := sourceFor(path).Read(path, opt)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnreadableInput, err, "read input")
	}
	if len(raw.Rows) == 0 {
		return nil, apperr.New(apperr.CodeUnreadableInput, "input %s has no header row", path)
	}

	header := normalizeHeader(raw.Rows[0])
	t := table.New(header...)
	na := NewNASet(opt.NATokens)
	res := &Result{Table: t, Before: raw.Sample, Delimiter: raw.Delimiter}
	res.Stats.BlankLines = raw.BlankLines
	for _, fields := range raw.Rows[1:] {
		rec, rep := NormalizeRecord(fields, len(header), na)
		if rep.Padded > 0 {
			res.Stats.Padded++
		}
		if rep.Truncated > 0 {
			res.Stats.Truncated++
		}
		res.Stats.NACells += rep.NACells
		t.Append(rec)
	}
	res.Stats.Rows = t.Len()
	return res, nil
}
