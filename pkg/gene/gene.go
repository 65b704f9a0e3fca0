// Package gene holds an immune-gene reference collection: named germline
// sequences tagged with species, chain and gene type, queryable by name or
// by filter. The collection is built once by a reader and then shared
// read-only across alignment workers.
package gene

import (
	"strings"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/seq"
)

// Record is one reference gene.
type Record struct {
	Name     string
	Species  string
	Chain    string
	GeneType string
	Seq      *seq.Sequence
}

// DB is an ordered collection of gene records. Order is the load order, so
// search ranking stays deterministic across runs.
type DB struct {
	records []Record
}

// New builds a database from the given records.
func New(records []Record) *DB {
	return &DB{records: records}
}

// Add appends a record.
func (db *DB) Add(r Record) { db.records = append(db.records, r) }

// Len returns the number of records.
func (db *DB) Len() int { return len(db.records) }

// Records returns the backing slice. Callers must treat it as read-only.
func (db *DB) Records() []Record { return db.records }

// Filter selects records matching every non-empty criterion. Species and
// chain compare case-insensitively; geneTypes is a set of accepted types
// (nil accepts all).
func (db *DB) Filter(species, chain string, geneTypes []string) []Record {
	var out []Record
	for _, r := range db.records {
		if species != "" && !strings.EqualFold(r.Species, species) {
			continue
		}
		if chain != "" && !strings.EqualFold(r.Chain, chain) {
			continue
		}
		if len(geneTypes) > 0 && !containsFold(geneTypes, r.GeneType) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FindByName looks a record up case-insensitively, trying an exact match
// first and falling back to a unique prefix. The second return is false
// when no record, or more than one prefix candidate, matches.
func (db *DB) FindByName(name string) (Record, bool) {
	var prefix *Record
	var ambiguous bool
	for i := range db.records {
		r := &db.records[i]
		if strings.EqualFold(r.Name, name) {
			return *r, true
		}
		if hasPrefixFold(r.Name, name) {
			if prefix != nil {
				ambiguous = true
			}
			prefix = r
		}
	}
	if prefix != nil && !ambiguous {
		return *prefix, true
	}
	return Record{}, false
}

// Entries converts records into alignment database entries in record order.
func Entries(records []Record) []align.Entry {
	out := make([]align.Entry, len(records))
	for i, r := range records {
		out[i] = align.Entry{Name: r.Name, Seq: r.Seq}
	}
	return out
}

// ParseHeader fills record metadata from a FASTA description line of the
// form "IGHV3-23*01 species=Homo_sapiens chain=Heavy gene=V". The first
// field is the name; unrecognised key=value pairs are ignored. The sequence
// is left for the caller to attach.
func ParseHeader(header string) Record {
	fields := strings.Fields(header)
	var r Record
	if len(fields) == 0 {
		return r
	}
	r.Name = fields[0]
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "species":
			r.Species = strings.ReplaceAll(value, "_", " ")
		case "chain":
			r.Chain = value
		case "gene":
			r.GeneType = value
		}
	}
	return r
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
