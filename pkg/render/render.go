// Package render turns alignment results into plain text for terminal
// display: paired sequence rows with a marker line, and fixed-width hit
// tables for search results.
package render

import (
	"fmt"
	"strings"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/seq"
)

// DefaultWidth is the wrap width used when the caller passes 0.
const DefaultWidth = 60

// Marker characters, one per alignment column: '|' identical, '*'
// mass-matched, '.' mismatched, ' ' gapped.
const (
	markMatch     = '|'
	markMassMatch = '*'
	markMismatch  = '.'
	markGap       = ' '
)

// Alignment renders the paired rows of an alignment, wrapped at width
// columns. Residues carrying modifications are shown lowercase; the shorter
// side of an uneven mass-matched run is padded so columns stay in step.
func Alignment(a *align.Alignment, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	rowA, marks, rowB := rows(a)
	var b strings.Builder
	fmt.Fprintf(&b, "score: %d  identity: %.1f%%  path: %s\n",
		a.Score, 100*a.Identity(), a.Path())

	posA, posB := a.StartA, a.StartB
	for start := 0; start < len(marks); start += width {
		end := min(start+width, len(marks))
		fmt.Fprintf(&b, "\nA %4d %s\n", posA+1, rowA[start:end])
		fmt.Fprintf(&b, "       %s\n", marks[start:end])
		fmt.Fprintf(&b, "B %4d %s\n", posB+1, rowB[start:end])
		posA += countResidues(rowA[start:end])
		posB += countResidues(rowB[start:end])
	}
	if len(marks) == 0 {
		b.WriteString("\n(empty alignment)\n")
	}
	return b.String()
}

// rows expands the segments into three equal-length strings.
func rows(a *align.Alignment) (string, string, string) {
	var rowA, marks, rowB strings.Builder
	i, j := a.StartA, a.StartB

	for _, s := range a.Segments {
		cols := max(s.LenA, s.LenB)
		for c := 0; c < cols; c++ {
			if c < s.LenA {
				rowA.WriteByte(symbol(a.SeqA, i))
				i++
			} else if s.Kind == align.SegMassMatch {
				rowA.WriteByte(' ')
			} else {
				rowA.WriteByte('-')
			}
			if c < s.LenB {
				rowB.WriteByte(symbol(a.SeqB, j))
				j++
			} else if s.Kind == align.SegMassMatch {
				rowB.WriteByte(' ')
			} else {
				rowB.WriteByte('-')
			}
			marks.WriteByte(marker(s.Kind))
		}
	}
	return rowA.String(), marks.String(), rowB.String()
}

func marker(k align.SegmentKind) byte {
	switch k {
	case align.SegMatch:
		return markMatch
	case align.SegMassMatch:
		return markMassMatch
	case align.SegMismatch:
		return markMismatch
	default:
		return markGap
	}
}

// symbol renders one monomer, lowercase when modified.
func symbol(s *seq.Sequence, i int) byte {
	m := s.Monomers[i]
	if len(m.Mods) > 0 && m.Symbol >= 'A' && m.Symbol <= 'Z' {
		return m.Symbol + 'a' - 'A'
	}
	return m.Symbol
}

func countResidues(row string) int {
	n := 0
	for i := 0; i < len(row); i++ {
		if row[i] != '-' && row[i] != ' ' {
			n++
		}
	}
	return n
}

// Hits renders a ranked hit table.
func Hits(hits []align.Hit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-24s %8s %9s %6s  %s\n", "rank", "name", "score", "identity", "gaps", "path")
	for n, h := range hits {
		st := h.Alignment.Stats()
		identity, gaps := 0.0, 0.0
		if st.Length > 0 {
			identity = 100 * float64(st.Identical) / float64(st.Length)
			gaps = 100 * float64(st.Gaps) / float64(st.Length)
		}
		fmt.Fprintf(&b, "%-4d %-24s %8d %8.1f%% %5.1f%%  %s\n",
			n+1, h.Name, h.Alignment.Score, identity, gaps, h.Alignment.Path())
	}
	return b.String()
}

// Stats renders the single-sequence summary shown when only one sequence is
// given: length, composition and candidate masses.
func Stats(s *seq.Sequence, masses []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sequence: %s\n", s)
	fmt.Fprintf(&b, "length:   %d\n", s.Len())
	if len(masses) == 1 {
		fmt.Fprintf(&b, "mass:     %.5f Da\n", masses[0])
	} else if len(masses) > 1 {
		fmt.Fprintf(&b, "masses:   %.5f .. %.5f Da (%d candidates)\n",
			masses[0], masses[len(masses)-1], len(masses))
	}
	return b.String()
}
