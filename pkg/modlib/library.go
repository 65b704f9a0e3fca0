// Package modlib provides the modification reference library and
// mass-tolerant lookup by name, elemental formula, or mass value.
package modlib

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/masstools/massalign/pkg/seq"
)

// Modification is one library entry: a named mass delta with optional
// elemental formula and default placement targets.
type Modification struct {
	Name    string
	Mass    float64
	Formula string // elemental formula when known, e.g. "O" for Oxidation
	Targets string // residue symbols the modification is usually placed on
}

// Library stores modification definitions keyed by lower-cased name.
// Read-only after loading; safe to share across goroutines.
type Library struct {
	mods map[string]Modification
}

// NewLibrary creates an empty modification library.
func NewLibrary() *Library {
	return &Library{mods: make(map[string]Modification)}
}

// Add adds or updates a modification.
func (l *Library) Add(m Modification) {
	l.mods[strings.ToLower(m.Name)] = m
}

// Get returns the modification with the exact (case-insensitive) name.
func (l *Library) Get(name string) (Modification, bool) {
	m, ok := l.mods[strings.ToLower(name)]
	return m, ok
}

// Resolve satisfies seq.ModResolver so sequence parsing can reference
// library entries by name.
func (l *Library) Resolve(name string) (seq.Modification, bool) {
	m, ok := l.Get(name)
	if !ok {
		return seq.Modification{}, false
	}
	return seq.Modification{Name: m.Name, Mass: m.Mass}, true
}

// All returns every entry ordered alphabetically by name.
func (l *Library) All() []Modification {
	out := make([]Modification, 0, len(l.mods))
	for _, m := range l.mods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of entries.
func (l *Library) Len() int { return len(l.mods) }

// LoadFromCSV loads modifications from CSV rows of the form
// name,massshift[,targets]. The first line is treated as a header.
func (l *Library) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	if scanner.Scan() {
		// header line
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		name := strings.TrimSpace(parts[0])
		massStr := strings.TrimSpace(parts[1])

		m, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid mass value '%s': %w", lineNum, massStr, err)
		}

		mod := Modification{Name: name, Mass: m}
		if len(parts) > 2 {
			mod.Targets = strings.TrimSpace(parts[2])
		}
		l.Add(mod)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// Default returns a library pre-loaded with common Unimod modifications.
func Default() *Library {
	l := NewLibrary()

	for _, m := range []Modification{
		{Name: "Acetyl", Mass: 42.010565, Formula: "C2H2O", Targets: "K"},
		{Name: "Amidated", Mass: -0.984016, Formula: "HN O-1"},
		{Name: "Biotin", Mass: 226.077598, Targets: "K"},
		{Name: "Carbamidomethyl", Mass: 57.021464, Formula: "C2H3NO", Targets: "C"},
		{Name: "Carbamyl", Mass: 43.005814, Formula: "CHNO"},
		{Name: "Carboxymethyl", Mass: 58.005479, Formula: "C2H2O2", Targets: "C"},
		{Name: "Deamidated", Mass: 0.984016, Formula: "H-1N-1O", Targets: "NQ"},
		{Name: "Met->Hse", Mass: -29.992806, Targets: "M"},
		{Name: "Met->Hsl", Mass: -48.003371, Targets: "M"},
		{Name: "NIPCAM", Mass: 99.068414, Targets: "C"},
		{Name: "Phospho", Mass: 79.966331, Formula: "HO3P", Targets: "STY"},
		{Name: "Dehydrated", Mass: -18.010565, Formula: "H-2O-1", Targets: "ST"},
		{Name: "Propionamide", Mass: 71.037114, Targets: "C"},
		{Name: "Pyro-carbamidomethyl", Mass: 39.994915, Targets: "C"},
		{Name: "Glu->pyro-Glu", Mass: -18.010565, Targets: "E"},
		{Name: "Gln->pyro-Glu", Mass: -17.026549, Targets: "Q"},
		{Name: "Cation:Na", Mass: 21.981943, Formula: "H-1Na"},
		{Name: "Methyl", Mass: 14.01565, Formula: "CH2", Targets: "KR"},
		{Name: "Oxidation", Mass: 15.994915, Formula: "O", Targets: "MWH"},
		{Name: "Dimethyl", Mass: 28.0313, Formula: "C2H4", Targets: "KR"},
		{Name: "Trimethyl", Mass: 42.04695, Formula: "C3H6", Targets: "KR"},
		{Name: "Methylthio", Mass: 45.987721, Formula: "CH2S", Targets: "C"},
		{Name: "Sulfo", Mass: 79.956815, Formula: "O3S", Targets: "STY"},
		{Name: "Hex", Mass: 162.052824, Formula: "C6H10O5"},
		{Name: "Lipoyl", Mass: 188.032956, Targets: "K"},
		{Name: "HexNAc", Mass: 203.079373, Formula: "C8H13NO5", Targets: "NST"},
		{Name: "Farnesyl", Mass: 204.187801, Targets: "C"},
		{Name: "Myristoyl", Mass: 210.198366, Targets: "KG"},
		{Name: "PyridoxalPhosphate", Mass: 229.014009, Targets: "K"},
		{Name: "Palmitoyl", Mass: 238.229666, Targets: "CK"},
		{Name: "GeranylGeranyl", Mass: 272.250401, Targets: "C"},
		{Name: "Phosphopantetheine", Mass: 340.085794, Targets: "S"},
		{Name: "FAD", Mass: 783.141486},
		{Name: "Guanidinyl", Mass: 42.021798, Targets: "K"},
		{Name: "HNE", Mass: 156.11503, Targets: "CHK"},
		{Name: "Glucuronyl", Mass: 176.032088},
		{Name: "Glutathione", Mass: 305.068156, Targets: "C"},
		{Name: "Propionyl", Mass: 56.026215, Targets: "K"},
		{Name: "TMT", Mass: 229.162932, Targets: "K"},
		{Name: "TMTPro", Mass: 304.207146, Targets: "K"},
		{Name: "iTRAQ4plex", Mass: 144.102063, Targets: "K"},
		{Name: "iTRAQ8plex", Mass: 304.205360, Targets: "K"},
	} {
		l.Add(m)
	}

	return l
}
