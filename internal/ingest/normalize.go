package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/KaramelBytes/eduprobe-cli/internal/table"
)

// Delimiter is the field separator of a delimited source.
type Delimiter rune

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
)

func (d Delimiter) String() string {
	switch d {
	case Comma:
		return "comma"
	case Tab:
		return "tab"
	case 0:
		return "none"
	default:
		return fmt.Sprintf("%q", rune(d))
	}
}

// sniffBytes bounds how much of the input DetectDelimiter looks at.
const sniffBytes = 4096

// DetectDelimiter returns Tab if the prefix holds any tab byte, otherwise Comma.
// This is a heuristic: a comma file with a tab inside a quoted field near the top is misread as TSV.
func DetectDelimiter(prefix []byte) Delimiter {
	if len(prefix) > sniffBytes {
		prefix = prefix[:sniffBytes]
	}
	if bytes.IndexByte(prefix, '\t') >= 0 {
		return Tab
	}
	return Comma
}

// DefaultNATokens are the raw tokens mapped to NA.
var DefaultNATokens = []string{"", "-", "NULL", "null", table.NA}

// NASet holds the tokens treated as missing. The empty string and NA itself are always members.
type NASet map[string]struct{}

func NewNASet(tokens []string) NASet {
	s := NASet{"": {}, table.NA: {}}
	for _, t := range tokens {
		s[strings.TrimSpace(t)] = struct{}{}
	}
	return s
}

func (s NASet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Repair describes what NormalizeRecord had to change to fit the header arity.
type Repair struct {
	Padded    int // fields added as NA
	Truncated int // surplus fields dropped
	NACells   int // fields that ended up NA
}

var groupedDigits = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// CleanField trims, strips wrapping quotes, collapses whitespace runs and drops
// thousands separators from grouped numbers. Applying it twice changes nothing.
func CleanField(s string) string {
	for {
		prev := s
		s = strings.TrimSpace(s)
		if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
			s = s[1 : len(s)-1]
		}
		if s == prev {
			break
		}
	}
	s = strings.Join(strings.Fields(s), " ")
	if groupedDigits.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// NormalizeRecord cleans raw fields and reconciles them with the header arity:
// short rows are padded with NA, long rows are truncated. It never fails.
func NormalizeRecord(raw []string, arity int, na NASet) (table.Record, Repair) {
	var rep Repair
	rec := make(table.Record, arity)
	for i := 0; i < arity; i++ {
		if i >= len(raw) {
			rec[i] = table.NA
			rep.Padded++
			rep.NACells++
			continue
		}
		v := CleanField(raw[i])
		if na.Has(v) {
			v = table.NA
			rep.NACells++
		}
		rec[i] = v
	}
	if len(raw) > arity {
		rep.Truncated = len(raw) - arity
	}
	return rec, rep
}

// normalizeHeader cleans column names, names blank ones col_N and makes duplicates unique.
func normalizeHeader(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		name := CleanField(h)
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}
		for seen[name] {
			name += "_2"
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

var punctuation = strings.NewReplacer(
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`,
	"\u2018", "'", "\u2019", "'", "\u201a", "'",
	"\u2013", "-", "\u2014", "-", "\u2212", "-",
	"\u00a0", " ", "\u2026", "...",
	"\r\n", "\n", "\r", "\n",
)

// asciiText maps smart punctuation and NBSP to ASCII and CRLF/CR to LF.
func asciiText(s string) string { return punctuation.Replace(s) }
