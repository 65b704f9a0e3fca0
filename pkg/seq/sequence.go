// Package seq provides the immutable sequence model: monomers with attached
// modifications, terminal modifications, and set-valued mass computation.
package seq

import (
	"fmt"
	"strings"

	"github.com/masstools/massalign/pkg/mass"
)

// Modification is a named mass delta attached to a monomer or terminus.
// Modifications are owned by the reference library and copied here by value.
type Modification struct {
	Name string
	Mass float64
}

// String renders the modification the way it is written in sequences:
// the name when known, otherwise the signed mass.
func (m Modification) String() string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("%+.4f", m.Mass)
}

// Monomer is one atomic sequence unit: a canonical symbol plus zero or more
// attached modifications. Immutable once constructed.
type Monomer struct {
	Symbol byte
	Mods   []Modification
}

// Masses returns the candidate masses for the monomer under the given
// alphabet: the symbol's candidates shifted by the total modification delta.
func (m Monomer) Masses(ab *mass.Alphabet) (mass.Set, bool) {
	base, ok := ab.Masses(m.Symbol)
	if !ok {
		return nil, false
	}
	delta := 0.0
	for _, mod := range m.Mods {
		delta += mod.Mass
	}
	if delta == 0 {
		return base, true
	}
	return base.Shift(delta), true
}

// Sequence is an ordered list of monomers plus optional terminal
// modifications.
type Sequence struct {
	Monomers []Monomer
	NTerm    []Modification
	CTerm    []Modification
}

// FromString builds an unmodified sequence from plain one-letter symbols.
func FromString(s string) *Sequence {
	monomers := make([]Monomer, len(s))
	for i := 0; i < len(s); i++ {
		monomers[i] = Monomer{Symbol: s[i]}
	}
	return &Sequence{Monomers: monomers}
}

// Len returns the number of monomers.
func (s *Sequence) Len() int { return len(s.Monomers) }

// Symbols returns the plain one-letter sequence without modifications.
func (s *Sequence) Symbols() string {
	var b strings.Builder
	b.Grow(len(s.Monomers))
	for _, m := range s.Monomers {
		b.WriteByte(m.Symbol)
	}
	return b.String()
}

// String renders the sequence with bracketed modifications, for example
// "[Acetyl]-AM[Oxidation]K".
func (s *Sequence) String() string {
	var b strings.Builder
	for _, mod := range s.NTerm {
		fmt.Fprintf(&b, "[%s]-", mod)
	}
	for _, m := range s.Monomers {
		b.WriteByte(m.Symbol)
		for _, mod := range m.Mods {
			fmt.Fprintf(&b, "[%s]", mod)
		}
	}
	for _, mod := range s.CTerm {
		fmt.Fprintf(&b, "-[%s]", mod)
	}
	return b.String()
}

// MonomerMasses resolves every monomer against the alphabet. The first
// unresolvable symbol yields an UnknownSymbolError carrying its position.
func (s *Sequence) MonomerMasses(ab *mass.Alphabet) ([]mass.Set, error) {
	out := make([]mass.Set, len(s.Monomers))
	for i, m := range s.Monomers {
		set, ok := m.Masses(ab)
		if !ok {
			return nil, &mass.UnknownSymbolError{Symbol: m.Symbol, Position: i}
		}
		out[i] = set
	}
	return out, nil
}

// Mass returns the set of possible neutral monoisotopic masses: the
// Cartesian sum of all monomer candidates plus water and terminal deltas.
// Unambiguous sequences yield a one-element set.
func (s *Sequence) Mass(ab *mass.Alphabet) (mass.Set, error) {
	sets, err := s.MonomerMasses(ab)
	if err != nil {
		return nil, err
	}
	total := mass.NewSet(mass.MassWater + s.terminalDelta())
	for _, set := range sets {
		total = mass.Combine(total, set, mass.DedupEpsilon)
	}
	return total, nil
}

// MinMass returns the smallest possible neutral mass, the deterministic
// lower bound used when a single scalar is needed.
func (s *Sequence) MinMass(ab *mass.Alphabet) (float64, error) {
	set, err := s.Mass(ab)
	if err != nil {
		return 0, err
	}
	return set.Min(), nil
}

func (s *Sequence) terminalDelta() float64 {
	d := 0.0
	for _, mod := range s.NTerm {
		d += mod.Mass
	}
	for _, mod := range s.CTerm {
		d += mod.Mass
	}
	return d
}
