package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// rawData is what a source hands to Load before any cleaning.
type rawData struct {
	Rows       [][]string // header first
	Sample     []string   // verbatim leading lines
	Delimiter  Delimiter
	BlankLines int
}

// source reads one input format.
type source interface {
	CanRead(path string) bool
	Read(path string, opt Options) (*rawData, error)
}

var registry []source

// register adds a source; later registrations are consulted first.
func register(s source) {
	registry = append([]source{s}, registry...)
}

func sourceFor(path string) source {
	for _, s := range registry {
		if s.CanRead(path) {
			return s
		}
	}
	return delimitedSource{}
}

func init() {
	register(delimitedSource{})
	register(xlsxSource{})
}

// delimitedSource reads CSV and TSV text files.
type delimitedSource struct{}

func (delimitedSource) CanRead(path string) bool {
	name := strings.ToLower(path)
	return !strings.HasSuffix(name, ".xlsx")
}

func (delimitedSource) Read(path string, opt Options) (*rawData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	out := &rawData{Sample: leadingLines(b, opt.SampleRows+1)}

	// Strips a UTF-8 BOM and decodes UTF-16 input that carries one.
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), b)
	if err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	text := asciiText(string(decoded))

	out.Delimiter = opt.Delimiter
	switch {
	case out.Delimiter != 0:
	case strings.EqualFold(filepath.Ext(path), ".tsv"):
		// a single-column TSV has no tab to sniff
		out.Delimiter = Tab
	default:
		out.Delimiter = DetectDelimiter([]byte(text))
	}
	if out.Delimiter == Tab {
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) == "" {
				out.BlankLines++
				continue
			}
			out.Rows = append(out.Rows, strings.Split(line, "\t"))
		}
		// the final newline is not a blank line
		if strings.HasSuffix(text, "\n") {
			out.BlankLines--
		}
		return out, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = rune(out.Delimiter)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse row %d: %w", len(out.Rows)+1, err)
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

// leadingLines returns up to n lines of b exactly as stored (CR included).
func leadingLines(b []byte, n int) []string {
	var out []string
	for len(b) > 0 && len(out) < n {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			out = append(out, string(b))
			break
		}
		out = append(out, string(b[:i]))
		b = b[i+1:]
	}
	return out
}
