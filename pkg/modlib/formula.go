package modlib

import (
	"fmt"
	"strconv"

	"github.com/masstools/massalign/pkg/mass"
)

// elementMasses holds monoisotopic masses for the elements that occur in
// peptide modifications.
var elementMasses = map[string]float64{
	"H":  mass.MassH,
	"C":  mass.MassC,
	"N":  mass.MassN,
	"O":  mass.MassO,
	"S":  mass.MassS,
	"P":  mass.MassP,
	"Se": mass.MassSe,
	"Na": 22.9897696700,
	"K":  38.9637069000,
	"Cl": 34.9688527100,
	"F":  18.9984032000,
	"Br": 78.9183376000,
	"I":  126.9044730000,
	"Fe": 55.9349421000,
	"Ca": 39.9625912000,
	"Zn": 63.9291466000,
}

// FormulaMass computes the monoisotopic mass of an elemental formula such
// as "C2H3NO" or "H-2O-1" (counts may be negative for loss formulas).
// Spaces are ignored.
func FormulaMass(formula string) (float64, error) {
	total := 0.0
	i := 0
	parsed := false
	for i < len(formula) {
		c := formula[i]
		if c == ' ' {
			i++
			continue
		}
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("invalid formula %q: unexpected character %q", formula, string(c))
		}

		// Element symbol: one capital, optionally one lowercase letter.
		sym := string(c)
		i++
		if i < len(formula) && formula[i] >= 'a' && formula[i] <= 'z' {
			sym += string(formula[i])
			i++
		}
		em, ok := elementMasses[sym]
		if !ok {
			return 0, fmt.Errorf("invalid formula %q: unknown element %q", formula, sym)
		}

		// Optional signed count, default 1.
		start := i
		if i < len(formula) && formula[i] == '-' {
			i++
		}
		for i < len(formula) && formula[i] >= '0' && formula[i] <= '9' {
			i++
		}
		count := 1
		if i > start {
			n, err := strconv.Atoi(formula[start:i])
			if err != nil {
				return 0, fmt.Errorf("invalid formula %q: bad count for %s", formula, sym)
			}
			count = n
		}

		total += float64(count) * em
		parsed = true
	}
	if !parsed {
		return 0, fmt.Errorf("empty formula")
	}
	return total, nil
}
