// Package align implements mass-aware pairwise alignment and ranked
// database search. The dynamic programming core supports classic
// identity scoring and a mass mode whose recurrence consumes runs of
// monomers on both sides at once, matching them by summed mass.
package align

import (
	"fmt"

	"github.com/masstools/massalign/pkg/mass"
)

// Topology selects the boundary conditions of the alignment.
type Topology int

const (
	// Global forces both sequences to align end to end (Needleman-Wunsch).
	Global Topology = iota
	// Local finds the best-scoring subalignment (Smith-Waterman).
	Local
	// SemiGlobal charges nothing for leading or trailing gaps on either side.
	SemiGlobal
	// ExtendA anchors both sequences at the start and requires A to be fully
	// consumed; B may overhang freely on the right (A is a truncated
	// fragment of B).
	ExtendA
	// ExtendB is the mirror of ExtendA.
	ExtendB
)

func (t Topology) String() string {
	switch t {
	case Global:
		return "global"
	case Local:
		return "local"
	case SemiGlobal:
		return "semi-global"
	case ExtendA:
		return "extend-a"
	case ExtendB:
		return "extend-b"
	default:
		return "unknown"
	}
}

// Mode selects how residues are compared.
type Mode int

const (
	// Identity scores single-residue symbol equality only.
	Identity Mode = iota
	// Mass additionally scores runs of residues whose summed masses match
	// within tolerance.
	Mass
)

func (m Mode) String() string {
	if m == Mass {
		return "mass"
	}
	return "identity"
}

// Scoring holds the alignment constants. All values are configuration
// inputs; Default() gives the standard set.
type Scoring struct {
	// Match is the bonus for an identical residue pair.
	Match int
	// MassMismatch is added to Match when the symbols are identical but
	// their masses differ (a modification on one side).
	MassMismatch int
	// Mismatch is the full score of a non-identical single-residue step.
	Mismatch int
	// GapOpen is charged once when a gap starts, on top of GapExtend.
	GapOpen int
	// GapExtend is charged per gapped position.
	GapExtend int
	// MassBase is the flat bonus of any mass-matched run.
	MassBase int
	// MassStep is the per-position bonus of a mass-matched run; the full
	// score is MassBase + MassStep*(lenA+lenB)/2.
	MassStep int
	// MaxRunLength bounds the run lengths examined per cell in Mass mode.
	MaxRunLength int
	// Tolerance decides when two summed masses count as equal.
	Tolerance mass.Tolerance
}

// DefaultScoring returns the standard scoring constants: a strong identity
// bonus, mild mismatch cost, affine gaps, and mass-run rewards that favour
// isobaric discovery over gap/mismatch decompositions.
func DefaultScoring() Scoring {
	return Scoring{
		Match:        8,
		MassMismatch: -1,
		Mismatch:     -1,
		GapOpen:      -4,
		GapExtend:    -1,
		MassBase:     4,
		MassStep:     2,
		MaxRunLength: 4,
		Tolerance:    mass.Ppm(10),
	}
}

// Validate rejects impossible configurations before any table work starts.
func (s Scoring) Validate() error {
	if err := s.Tolerance.Validate(); err != nil {
		return err
	}
	if s.MaxRunLength < 1 {
		return fmt.Errorf("max run length must be at least 1, got %d", s.MaxRunLength)
	}
	return nil
}

// Options bundles everything one alignment needs besides the sequences.
type Options struct {
	Topology Topology
	Mode     Mode
	Scoring  Scoring
	// Alphabet supplies monomer masses in Mass mode. Defaults to the
	// standard amino acid alphabet.
	Alphabet *mass.Alphabet
}

// DefaultOptions returns global mass alignment with standard scoring.
func DefaultOptions() Options {
	return Options{
		Topology: Global,
		Mode:     Mass,
		Scoring:  DefaultScoring(),
		Alphabet: mass.Standard(),
	}
}

func (o Options) validate() (Options, error) {
	if err := o.Scoring.Validate(); err != nil {
		return o, err
	}
	if o.Alphabet == nil {
		o.Alphabet = mass.Standard()
	}
	return o, nil
}
