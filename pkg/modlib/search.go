package modlib

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/masstools/massalign/pkg/mass"
)

// formulaEpsilon is the window for matching a computed formula mass against
// library entries, which store masses at micro-Dalton precision.
const formulaEpsilon = 0.0005

// Hit is one ranked result of a modification lookup: the matched entry and
// its mass distance from the query (zero for name matches).
type Hit struct {
	Mod   Modification
	Delta float64
}

// Find searches the library. The query is interpreted as, in order:
//
//   - a signed or plain mass value ("+15.995", "-18.01", "79.96"): every
//     entry with |entry - query| within the tolerance, closest first;
//   - "Formula:<spec>": entries whose mass equals the computed formula mass;
//   - otherwise a name: case-insensitive exact match, falling back to
//     prefix matches.
//
// Results are ordered by ascending mass distance, ties alphabetically by
// name. An empty result is a normal outcome, not an error.
func (l *Library) Find(query string, tol mass.Tolerance) ([]Hit, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty modification query")
	}

	if v, err := strconv.ParseFloat(q, 64); err == nil {
		return l.findByMass(v, tol), nil
	}

	if rest, ok := cutPrefixFold(q, "formula:"); ok {
		fm, err := FormulaMass(rest)
		if err != nil {
			return nil, err
		}
		return l.findByMass(fm, mass.Da(formulaEpsilon)), nil
	}

	return l.findByName(q), nil
}

func (l *Library) findByMass(query float64, tol mass.Tolerance) []Hit {
	var hits []Hit
	for _, m := range l.All() {
		if tol.Matches(m.Mass, query) {
			hits = append(hits, Hit{Mod: m, Delta: m.Mass - query})
		}
	}
	sortHits(hits)
	return hits
}

func (l *Library) findByName(query string) []Hit {
	if m, ok := l.Get(query); ok {
		return []Hit{{Mod: m}}
	}
	q := strings.ToLower(query)
	var hits []Hit
	for _, m := range l.All() {
		if strings.HasPrefix(strings.ToLower(m.Name), q) {
			hits = append(hits, Hit{Mod: m})
		}
	}
	sortHits(hits)
	return hits
}

// sortHits orders by ascending mass distance, ties broken alphabetically.
func sortHits(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		di, dj := math.Abs(hits[i].Delta), math.Abs(hits[j].Delta)
		if di != dj {
			return di < dj
		}
		return hits[i].Mod.Name < hits[j].Mod.Name
	})
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
