// Package fasta provides a streaming reader for FASTA sequence files.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/masstools/massalign/pkg/gene"
	"github.com/masstools/massalign/pkg/seq"
)

// Record is one FASTA entry: the full description line (without '>') and
// the parsed sequence.
type Record struct {
	Header string
	Seq    *seq.Sequence
}

// Name returns the first whitespace-separated field of the header.
func (r Record) Name() string {
	if i := strings.IndexAny(r.Header, " \t"); i >= 0 {
		return r.Header[:i]
	}
	return r.Header
}

// Gene parses the header metadata into a gene record with the sequence
// attached.
func (r Record) Gene() gene.Record {
	g := gene.ParseHeader(r.Header)
	g.Seq = r.Seq
	return g
}

// Reader provides streaming access to FASTA files.
type Reader struct {
	scanner *bufio.Scanner
	mods    seq.ModResolver
	lineNum int
	pending string // next header line, already consumed from the scanner
	current *Record
	err     error
}

// NewReader creates a new FASTA reader. mods resolves bracketed
// modification names in sequence lines and may be nil.
func NewReader(r io.Reader, mods seq.ModResolver) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		mods:    mods,
	}
}

// Next advances to the next record. Returns false when no more records or
// on error.
func (r *Reader) Next() bool {
	r.current = nil

	rec, err := r.readRecord()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = rec
	return true
}

// Record returns the current record.
func (r *Reader) Record() *Record {
	return r.current
}

// Err returns any error encountered during reading.
func (r *Reader) Err() error {
	return r.err
}

// readRecord reads a single FASTA entry: a '>' header line followed by one
// or more sequence lines up to the next header or EOF.
func (r *Reader) readRecord() (*Record, error) {
	header := r.pending
	r.pending = ""

	for header == "" {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if !strings.HasPrefix(line, ">") {
			return nil, fmt.Errorf("line %d: expected '>' header, got %q", r.lineNum, line)
		}
		header = strings.TrimSpace(line[1:])
		if header == "" {
			return nil, fmt.Errorf("line %d: empty header", r.lineNum)
		}
	}

	var body strings.Builder
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			r.pending = strings.TrimSpace(line[1:])
			if r.pending == "" {
				return nil, fmt.Errorf("line %d: empty header", r.lineNum)
			}
			break
		}
		body.WriteString(line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	parsed, err := seq.Parse(body.String(), r.mods)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", firstField(header), err)
	}
	return &Record{Header: header, Seq: parsed}, nil
}

// ReadAll drains the reader into a slice.
func ReadAll(r io.Reader, mods seq.ModResolver) ([]Record, error) {
	fr := NewReader(r, mods)
	var out []Record
	for fr.Next() {
		out = append(out, *fr.Record())
	}
	if err := fr.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func firstField(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}
