// Package mass provides the monoisotopic mass model used by alignment,
// isobaric generation, and mass-tolerant search: elemental masses, residue
// compositions, candidate-mass sets for ambiguous symbols, and tolerances.
package mass

// Atomic masses (monoisotopic)
const (
	MassH  = 1.0078250321
	MassC  = 12.0000000000
	MassN  = 14.0030740052
	MassO  = 15.9949146221
	MassS  = 31.9720706900
	MassP  = 30.9737615100
	MassSe = 79.9165218000

	// Proton mass for charge calculations
	ProtonMass = 1.00727646688

	// Water, added once per peptide for the neutral mass
	MassWater = 2*MassH + MassO
)

// Composition stores the elemental composition of one residue.
type Composition struct {
	C, H, N, O, S, Se int
}

// Mass returns the monoisotopic mass of the composition.
func (c Composition) Mass() float64 {
	return float64(c.C)*MassC +
		float64(c.H)*MassH +
		float64(c.N)*MassN +
		float64(c.O)*MassO +
		float64(c.S)*MassS +
		float64(c.Se)*MassSe
}

// ResidueCompositions maps amino acid one-letter codes to elemental
// composition. Residue masses exclude the peptide water.
var ResidueCompositions = map[byte]Composition{
	'A': {C: 3, H: 5, N: 1, O: 1},
	'R': {C: 6, H: 12, N: 4, O: 1},
	'N': {C: 4, H: 6, N: 2, O: 2},
	'D': {C: 4, H: 5, N: 1, O: 3},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'E': {C: 5, H: 7, N: 1, O: 3},
	'Q': {C: 5, H: 8, N: 2, O: 2},
	'G': {C: 2, H: 3, N: 1, O: 1},
	'H': {C: 6, H: 7, N: 3, O: 1},
	'I': {C: 6, H: 11, N: 1, O: 1},
	'L': {C: 6, H: 11, N: 1, O: 1},
	'K': {C: 6, H: 12, N: 2, O: 1},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'F': {C: 9, H: 9, N: 1, O: 1},
	'P': {C: 5, H: 7, N: 1, O: 1},
	'S': {C: 3, H: 5, N: 1, O: 2},
	'T': {C: 4, H: 7, N: 1, O: 2},
	'W': {C: 11, H: 10, N: 2, O: 1},
	'Y': {C: 9, H: 9, N: 1, O: 2},
	'V': {C: 5, H: 9, N: 1, O: 1},
	'U': {C: 3, H: 5, N: 1, O: 1, Se: 1},
	'O': {C: 12, H: 19, N: 3, O: 2},
}

// residueMasses caches the monoisotopic mass per residue symbol.
var residueMasses = func() map[byte]float64 {
	m := make(map[byte]float64, len(ResidueCompositions))
	for sym, comp := range ResidueCompositions {
		m[sym] = comp.Mass()
	}
	return m
}()

// ResidueMass returns the monoisotopic residue mass for a one-letter code.
func ResidueMass(sym byte) (float64, bool) {
	m, ok := residueMasses[sym]
	return m, ok
}
