package mass

import (
	"fmt"
	"sort"
)

// Alphabet maps monomer symbols to their candidate masses. Ambiguity codes
// carry more than one candidate; everything else carries exactly one.
// Alphabets are immutable after construction and safe to share across
// goroutines.
type Alphabet struct {
	masses map[byte]Set
}

// Standard returns the amino acid alphabet: the twenty canonical residues
// plus U and O, the ambiguity codes B (N/D), Z (Q/E), J (I/L), and X (any
// residue, deduplicated so I/L collapse to one candidate).
func Standard() *Alphabet {
	m := make(map[byte]Set, len(ResidueCompositions)+4)
	all := make([]float64, 0, len(ResidueCompositions))
	for sym := range ResidueCompositions {
		v := residueMasses[sym]
		m[sym] = NewSet(v)
		all = append(all, v)
	}
	m['B'] = NewSet(residueMasses['N'], residueMasses['D'])
	m['Z'] = NewSet(residueMasses['Q'], residueMasses['E'])
	m['J'] = NewSet(residueMasses['I'])
	m['X'] = NewSet(all...)
	return &Alphabet{masses: m}
}

// Masses returns the candidate masses for a symbol.
func (a *Alphabet) Masses(sym byte) (Set, bool) {
	s, ok := a.masses[sym]
	return s, ok
}

// Contains reports whether the alphabet has an entry for the symbol.
func (a *Alphabet) Contains(sym byte) bool {
	_, ok := a.masses[sym]
	return ok
}

// Symbols returns all symbols in lexicographic order.
func (a *Alphabet) Symbols() []byte {
	out := make([]byte, 0, len(a.masses))
	for sym := range a.masses {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subset returns a new alphabet restricted to the given symbols. Symbols
// missing from the parent alphabet are an error.
func (a *Alphabet) Subset(symbols []byte) (*Alphabet, error) {
	m := make(map[byte]Set, len(symbols))
	for _, sym := range symbols {
		s, ok := a.masses[sym]
		if !ok {
			return nil, fmt.Errorf("alphabet subset: %w", &UnknownSymbolError{Symbol: sym})
		}
		m[sym] = s
	}
	return &Alphabet{masses: m}, nil
}

// GenerationSymbols returns the default symbol pool for isobaric generation:
// all residues with a single defined mass, with L dropped in favour of I
// (identical mass) and the ambiguity codes excluded.
func (a *Alphabet) GenerationSymbols() []byte {
	out := make([]byte, 0, len(a.masses))
	for sym, s := range a.masses {
		if len(s) != 1 || sym == 'L' || sym == 'J' {
			continue
		}
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
