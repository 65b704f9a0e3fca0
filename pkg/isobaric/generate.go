// Package isobaric enumerates monomer sequences whose total mass matches a
// target sequence within tolerance. The search is a depth-first walk over a
// lexicographically sorted symbol pool with minimum-completion pruning, so
// output order is deterministic and repeated runs are reproducible.
package isobaric

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/masstools/massalign/pkg/mass"
	"github.com/masstools/massalign/pkg/modlib"
	"github.com/masstools/massalign/pkg/seq"
)

// DefaultMaxResults bounds the number of sequences returned when the caller
// does not choose a limit.
const DefaultMaxResults = 25

// Options configures a generation run. The zero value plus a tolerance is
// usable; everything else has a sensible default.
type Options struct {
	// Alphabet supplies residue masses. Defaults to the standard alphabet.
	Alphabet *mass.Alphabet
	// Symbols is the generation pool. Defaults to the alphabet's
	// single-mass symbols with I standing in for L.
	Symbols []byte
	// Tolerance decides when a candidate's mass counts as equal to the
	// target's.
	Tolerance mass.Tolerance
	// FixedMods are applied to every generated residue they target.
	FixedMods []modlib.Modification
	// VariableMods are applied combinatorially: each generated residue may
	// carry at most one of the variable mods that target it.
	VariableMods []modlib.Modification
	// MaxResults caps the output; DefaultMaxResults when zero or negative.
	MaxResults int
	// MaxDepth caps candidate length. When zero it is derived from the
	// target mass and the lightest pool residue. It must be set explicitly
	// when a modification makes some residue variant non-positive in mass,
	// since mass pruning cannot bound the search then.
	MaxDepth int
}

// Result is the outcome of one generation run.
type Result struct {
	// Sequences holds the matching candidates in lexicographic order.
	Sequences []*seq.Sequence
	// Truncated is set when MaxResults or MaxDepth cut the search short,
	// so the caller knows the list is a sample rather than the full set.
	Truncated bool
}

// unit is one choice the search can make at a position: a residue with its
// fixed mods (and optionally one variable mod) already attached.
type unit struct {
	mono seq.Monomer
	m    float64
}

// Generate enumerates sequences isobaric with target. The target's own mass
// is the minimum over its candidate masses, so ambiguous residues compare
// by a deterministic lower bound.
func Generate(target *seq.Sequence, opts Options) (*Result, error) {
	if err := opts.Tolerance.Validate(); err != nil {
		return nil, err
	}
	ab := opts.Alphabet
	if ab == nil {
		ab = mass.Standard()
	}
	pool := opts.Symbols
	if len(pool) == 0 {
		pool = ab.GenerationSymbols()
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	targetMass, err := target.MinMass(ab)
	if err != nil {
		return nil, err
	}
	tol := opts.Tolerance.Abs(targetMass)

	units, lightest, err := buildUnits(ab, pool, opts.FixedMods, opts.VariableMods)
	if err != nil {
		return nil, err
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		if lightest <= 0 {
			return nil, fmt.Errorf("isobaric: non-positive residue mass %.4f requires an explicit max depth", lightest)
		}
		maxDepth = int((targetMass-mass.MassWater+tol)/lightest) + 1
	}

	result := &Result{}

	// Depth zero: the empty sequence, admissible when the target is just
	// water (or close enough).
	if within(mass.MassWater, targetMass, tol) {
		result.Sequences = append(result.Sequences, &seq.Sequence{})
	}

	// Fan out one worker per first-position choice. Each branch fills its
	// own slot, so no locks; the pool is sorted, so concatenating the
	// slots preserves global lexicographic order.
	branches := make([]branch, len(units))
	var wg sync.WaitGroup
	for n := range units {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			g := &generator{
				units:    units,
				lightest: lightest,
				target:   targetMass,
				tol:      tol,
				maxDepth: maxDepth,
				budget:   maxResults,
			}
			prefix := make([]seq.Monomer, 0, maxDepth)
			g.walk(append(prefix, units[n].mono), units[n].m, &branches[n])
		}(n)
	}
	wg.Wait()

	for n := range branches {
		result.Sequences = append(result.Sequences, branches[n].found...)
		result.Truncated = result.Truncated || branches[n].truncated
	}
	if len(result.Sequences) > maxResults {
		result.Sequences = result.Sequences[:maxResults]
		result.Truncated = true
	}
	return result, nil
}

type branch struct {
	found     []*seq.Sequence
	truncated bool
}

type generator struct {
	units    []unit
	lightest float64
	target   float64
	tol      float64
	maxDepth int
	budget   int
}

// walk extends prefix depth-first. sum is the residue-mass total of prefix;
// the neutral mass adds water. Children are visited in pool order so output
// stays lexicographic. Returns false once the result budget is exhausted;
// hitting the depth cap only flags truncation and lets siblings continue.
func (g *generator) walk(prefix []seq.Monomer, sum float64, out *branch) bool {
	if within(sum+mass.MassWater, g.target, g.tol) {
		monomers := make([]seq.Monomer, len(prefix))
		copy(monomers, prefix)
		out.found = append(out.found, &seq.Sequence{Monomers: monomers})
		if len(out.found) >= g.budget {
			out.truncated = true
			return false
		}
	}
	// Masses only grow, so a partial sequence whose lightest completion
	// already overshoots can never match; dropping it is not truncation.
	if g.lightest > 0 && sum+g.lightest+mass.MassWater > g.target+g.tol {
		return true
	}
	if len(prefix) >= g.maxDepth {
		out.truncated = true
		return true
	}
	for _, u := range g.units {
		if !g.walk(append(prefix, u.mono), sum+u.m, out) {
			return false
		}
	}
	return true
}

func within(got, want, tol float64) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// buildUnits expands the symbol pool into per-position choices: each symbol
// with its fixed mods attached, plus one extra variant per variable mod
// targeting it. Returns the choices sorted by symbol (unmodified variant
// first) and the lightest unit mass for pruning.
func buildUnits(ab *mass.Alphabet, pool []byte, fixed, variable []modlib.Modification) ([]unit, float64, error) {
	sorted := make([]byte, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var units []unit
	lightest := 0.0
	for _, sym := range sorted {
		rm, ok := ab.Masses(sym)
		if !ok {
			return nil, 0, &mass.UnknownSymbolError{Symbol: sym, Position: -1}
		}
		base := unit{mono: seq.Monomer{Symbol: sym}, m: rm.Min()}
		for _, fm := range fixed {
			if !targets(fm, sym) {
				continue
			}
			base.mono.Mods = append(base.mono.Mods, seq.Modification{Name: fm.Name, Mass: fm.Mass})
			base.m += fm.Mass
		}
		units = append(units, base)
		if len(units) == 1 || base.m < lightest {
			lightest = base.m
		}

		for _, vm := range variable {
			if !targets(vm, sym) {
				continue
			}
			v := unit{
				mono: seq.Monomer{
					Symbol: sym,
					Mods:   append(append([]seq.Modification(nil), base.mono.Mods...), seq.Modification{Name: vm.Name, Mass: vm.Mass}),
				},
				m: base.m + vm.Mass,
			}
			units = append(units, v)
			if v.m < lightest {
				lightest = v.m
			}
		}
	}
	return units, lightest, nil
}

// targets reports whether the modification applies to sym. An empty target
// list means every residue.
func targets(m modlib.Modification, sym byte) bool {
	return m.Targets == "" || strings.IndexByte(m.Targets, sym) >= 0
}
