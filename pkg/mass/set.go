package mass

import "sort"

// DedupEpsilon is the default spacing below which two candidate masses are
// treated as the same mass when building sets.
const DedupEpsilon = 1e-6

// maxSetSize bounds candidate-set growth when combining sets repeatedly
// (runs of ambiguous symbols are the only way to get here).
const maxSetSize = 64

// Set is a small sorted collection of candidate masses. A single unambiguous
// residue yields a one-element set; ambiguity codes (B, Z, X) yield several.
type Set []float64

// NewSet builds a sorted, deduplicated set from the given candidates.
func NewSet(values ...float64) Set {
	s := make(Set, len(values))
	copy(s, values)
	sort.Float64s(s)
	return s.dedup(DedupEpsilon)
}

// dedup removes candidates closer than eps to their predecessor. The set
// must already be sorted.
func (s Set) dedup(eps float64) Set {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v-out[len(out)-1] > eps {
			out = append(out, v)
		}
	}
	return out
}

// Min returns the smallest candidate mass. Zero for an empty set.
func (s Set) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// Shift returns a copy of the set with delta added to every candidate.
func (s Set) Shift(delta float64) Set {
	out := make(Set, len(s))
	for i, v := range s {
		out[i] = v + delta
	}
	return out
}

// Combine returns the Cartesian sum of two sets, deduplicated within eps.
// The result is capped: if dedup cannot keep it under the size bound the
// epsilon is widened until it does, trading resolution for bounded work.
func Combine(a, b Set, eps float64) Set {
	if len(a) == 0 {
		return append(Set(nil), b...)
	}
	if len(b) == 0 {
		return append(Set(nil), a...)
	}
	out := make(Set, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, x+y)
		}
	}
	sort.Float64s(out)
	out = out.dedup(eps)
	for len(out) > maxSetSize {
		eps *= 2
		out = out.dedup(eps)
	}
	return out
}

// Overlaps reports whether any candidate of a is within tolerance of any
// candidate of b. Both sets are sorted, so a merge-style scan suffices.
func Overlaps(a, b Set, tol Tolerance) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if tol.Matches(a[i], b[j]) {
			return true
		}
		if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return false
}
