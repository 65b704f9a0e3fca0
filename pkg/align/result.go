package align

import (
	"fmt"
	"strings"

	"github.com/masstools/massalign/pkg/seq"
)

// SegmentKind tags one aligned segment.
type SegmentKind int

const (
	// SegMatch covers identical symbols.
	SegMatch SegmentKind = iota
	// SegMassMatch covers runs of differing symbols with equal summed mass.
	SegMassMatch
	// SegMismatch covers differing symbols with differing mass.
	SegMismatch
	// SegGapA is a gap in sequence A (consumes B only).
	SegGapA
	// SegGapB is a gap in sequence B (consumes A only).
	SegGapB
)

func (k SegmentKind) String() string {
	switch k {
	case SegMatch:
		return "match"
	case SegMassMatch:
		return "mass-match"
	case SegMismatch:
		return "mismatch"
	case SegGapA:
		return "gap-a"
	case SegGapB:
		return "gap-b"
	default:
		return "unknown"
	}
}

// Segment is one stretch of the alignment path. LenA and LenB are the
// number of monomers consumed on each side; mass-matched runs may consume
// different counts.
type Segment struct {
	Kind SegmentKind
	LenA int
	LenB int
}

// Alignment is the result of one pairwise alignment: the optimal score, the
// topology it was computed under, and the aligned segments in forward order.
// StartA/StartB are the 0-based offsets where the aligned region begins;
// monomers outside [StartX, EndX) were left unaligned by the topology.
type Alignment struct {
	Score    int
	Topology Topology
	Mode     Mode
	SeqA     *seq.Sequence
	SeqB     *seq.Sequence
	StartA   int
	StartB   int
	EndA     int
	EndB     int
	Segments []Segment
}

// Stats summarises an alignment for ranking and display.
type Stats struct {
	Identical   int // positions in Match segments
	MassMatched int // positions covered by MassMatch segments (max of both sides)
	Gaps        int // gapped positions
	Length      int // total alignment columns
}

// Stats walks the segments once and tallies the summary counts.
func (a *Alignment) Stats() Stats {
	var st Stats
	for _, s := range a.Segments {
		cols := max(s.LenA, s.LenB)
		st.Length += cols
		switch s.Kind {
		case SegMatch:
			st.Identical += cols
		case SegMassMatch:
			st.MassMatched += cols
		case SegGapA, SegGapB:
			st.Gaps += cols
		}
	}
	return st
}

// Identity returns the fraction of alignment columns that are identical.
func (a *Alignment) Identity() float64 {
	st := a.Stats()
	if st.Length == 0 {
		return 0
	}
	return float64(st.Identical) / float64(st.Length)
}

// Path renders the segments as a compact string, one token per segment:
// "<n>=" match, "<n>X" mismatch, "<n>I" gap in A, "<n>D" gap in B, and
// "<a>:<b>m" for a mass-matched run consuming a and b monomers.
func (a *Alignment) Path() string {
	var b strings.Builder
	for _, s := range a.Segments {
		switch s.Kind {
		case SegMatch:
			fmt.Fprintf(&b, "%d=", s.LenA)
		case SegMismatch:
			fmt.Fprintf(&b, "%dX", s.LenA)
		case SegGapA:
			fmt.Fprintf(&b, "%dI", s.LenB)
		case SegGapB:
			fmt.Fprintf(&b, "%dD", s.LenA)
		case SegMassMatch:
			fmt.Fprintf(&b, "%d:%dm", s.LenA, s.LenB)
		}
	}
	return b.String()
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, topology: %s, path: %s }",
		a.Score, a.Topology, a.Path())
}
