package align

import (
	"fmt"
	"math"

	"github.com/masstools/massalign/pkg/mass"
	"github.com/masstools/massalign/pkg/seq"
)

type cellKind uint8

const (
	kindNone cellKind = iota
	kindMatch
	kindMismatch
	kindMassMatch
	kindGapA // consumes B only
	kindGapB // consumes A only
)

// cell is one dynamic-programming table entry: the best score ending here,
// the move that produced it, and the number of monomers the move consumed
// on each side (more than one for mass-matched runs).
type cell struct {
	score int
	stepA uint16
	stepB uint16
	kind  cellKind
}

// Align computes the optimal alignment of a against b under the given
// topology and scoring mode. Validation errors (bad tolerance, unknown
// symbols in Mass mode) are reported before any table work.
func Align(a, b *seq.Sequence, opts Options) (*Alignment, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}

	la, lb := a.Len(), b.Len()
	sc := opts.Scoring

	// Mass mode resolves every monomer up front so unknown symbols fail
	// fast, then precomputes candidate-mass sets for every run ending at
	// each position.
	var runA, runB [][]mass.Set
	if opts.Mode == Mass {
		monoA, err := a.MonomerMasses(opts.Alphabet)
		if err != nil {
			return nil, fmt.Errorf("sequence A: %w", err)
		}
		monoB, err := b.MonomerMasses(opts.Alphabet)
		if err != nil {
			return nil, fmt.Errorf("sequence B: %w", err)
		}
		runA = runMasses(monoA, sc.MaxRunLength)
		runB = runMasses(monoB, sc.MaxRunLength)
	}

	w := lb + 1
	cells := make([]cell, (la+1)*w)

	// Global and the Extend variants charge for leading gaps; Local and
	// SemiGlobal leave the first row and column at zero.
	if opts.Topology == Global || opts.Topology == ExtendA || opts.Topology == ExtendB {
		for j := 1; j <= lb; j++ {
			cells[j] = cell{score: sc.GapOpen + j*sc.GapExtend, stepB: 1, kind: kindGapA}
		}
		for i := 1; i <= la; i++ {
			cells[i*w] = cell{score: sc.GapOpen + i*sc.GapExtend, stepA: 1, kind: kindGapB}
		}
	}

	local := opts.Topology == Local
	for i := 1; i <= la; i++ {
		symA := a.Monomers[i-1].Symbol
		for j := 1; j <= lb; j++ {
			symB := b.Monomers[j-1].Symbol
			diag := cells[(i-1)*w+j-1].score

			// Single-residue diagonal step.
			var best cell
			if symA == symB {
				s := diag + sc.Match
				if opts.Mode == Mass && !mass.Overlaps(runA[i][0], runB[j][0], sc.Tolerance) {
					// Same residue, different mass: a modification sits on
					// one side.
					s += sc.MassMismatch
				}
				best = cell{score: s, stepA: 1, stepB: 1, kind: kindMatch}
			} else {
				best = cell{score: diag + sc.Mismatch, stepA: 1, stepB: 1, kind: kindMismatch}
			}

			if opts.Mode == Mass {
				// Single isobaric pair (I vs L, or modified vs substituted).
				if symA != symB && mass.Overlaps(runA[i][0], runB[j][0], sc.Tolerance) {
					s := diag + sc.MassBase + sc.MassStep
					if s > best.score {
						best = cell{score: s, stepA: 1, stepB: 1, kind: kindMassMatch}
					}
				}

				// Multi-residue runs, in order of increasing combined length
				// so the shortest equal-scoring run wins.
				maxK := min(sc.MaxRunLength, i)
				maxM := min(sc.MaxRunLength, j)
				for total := 3; total <= maxK+maxM; total++ {
					for k := max(1, total-maxM); k <= min(maxK, total-1); k++ {
						m := total - k
						if k == m && symbolsEqual(a, b, i, j, k) {
							// Identical substrings decompose into matches.
							continue
						}
						if !mass.Overlaps(runA[i][k-1], runB[j][m-1], sc.Tolerance) {
							continue
						}
						s := cells[(i-k)*w+j-m].score + sc.MassBase + sc.MassStep*(k+m)/2
						if s > best.score {
							best = cell{score: s, stepA: uint16(k), stepB: uint16(m), kind: kindMassMatch}
						}
					}
				}
			}

			// Affine gaps: opening is charged unless the predecessor move
			// was a gap in the same direction.
			up := cells[(i-1)*w+j]
			gs := up.score + sc.GapExtend
			if up.kind != kindGapB {
				gs += sc.GapOpen
			}
			if gs > best.score {
				best = cell{score: gs, stepA: 1, kind: kindGapB}
			}
			left := cells[i*w+j-1]
			gs = left.score + sc.GapExtend
			if left.kind != kindGapA {
				gs += sc.GapOpen
			}
			if gs > best.score {
				best = cell{score: gs, stepB: 1, kind: kindGapA}
			}

			if local && best.score <= 0 {
				best = cell{}
			}
			cells[i*w+j] = best
		}
	}

	ti, tj := terminal(cells, la, lb, opts.Topology)

	result := &Alignment{
		Score:    cells[ti*w+tj].score,
		Topology: opts.Topology,
		Mode:     opts.Mode,
		SeqA:     a,
		SeqB:     b,
		EndA:     ti,
		EndB:     tj,
	}

	// Traceback, then reverse into forward order and merge adjacent
	// single-step segments of the same kind. Mass-matched runs stay
	// separate so each keeps its own span lengths.
	i, j := ti, tj
	var rev []Segment
	for {
		c := cells[i*w+j]
		if c.kind == kindNone {
			break
		}
		rev = append(rev, Segment{Kind: segKind(c.kind), LenA: int(c.stepA), LenB: int(c.stepB)})
		i -= int(c.stepA)
		j -= int(c.stepB)
	}
	result.StartA, result.StartB = i, j

	for n := len(rev) - 1; n >= 0; n-- {
		s := rev[n]
		last := len(result.Segments) - 1
		if last >= 0 && result.Segments[last].Kind == s.Kind && s.Kind != SegMassMatch {
			result.Segments[last].LenA += s.LenA
			result.Segments[last].LenB += s.LenB
			continue
		}
		result.Segments = append(result.Segments, s)
	}

	return result, nil
}

// runMasses precomputes, for every position i (1-based) and run length k up
// to maxRun, the candidate-mass set of the k monomers ending at i.
func runMasses(mono []mass.Set, maxRun int) [][]mass.Set {
	runs := make([][]mass.Set, len(mono)+1)
	for i := 1; i <= len(mono); i++ {
		n := min(maxRun, i)
		runs[i] = make([]mass.Set, n)
		runs[i][0] = mono[i-1]
		for k := 2; k <= n; k++ {
			runs[i][k-1] = mass.Combine(runs[i-1][k-2], mono[i-1], mass.DedupEpsilon)
		}
	}
	return runs
}

// symbolsEqual reports whether the k monomers of a ending at i carry the
// same symbols as the k monomers of b ending at j.
func symbolsEqual(a, b *seq.Sequence, i, j, k int) bool {
	for n := 1; n <= k; n++ {
		if a.Monomers[i-n].Symbol != b.Monomers[j-n].Symbol {
			return false
		}
	}
	return true
}

// terminal picks the traceback start cell for the topology.
func terminal(cells []cell, la, lb int, t Topology) (int, int) {
	w := lb + 1
	switch t {
	case Global:
		return la, lb
	case Local:
		bi, bj, bs := 0, 0, 0
		for i := 0; i <= la; i++ {
			for j := 0; j <= lb; j++ {
				if s := cells[i*w+j].score; s > bs {
					bi, bj, bs = i, j, s
				}
			}
		}
		return bi, bj
	case SemiGlobal:
		bi, bj, bs := la, lb, math.MinInt
		for j := 0; j <= lb; j++ {
			if s := cells[la*w+j].score; s > bs {
				bi, bj, bs = la, j, s
			}
		}
		for i := 0; i <= la; i++ {
			if s := cells[i*w+lb].score; s > bs {
				bi, bj, bs = i, lb, s
			}
		}
		return bi, bj
	case ExtendA:
		bj, bs := 0, math.MinInt
		for j := 0; j <= lb; j++ {
			if s := cells[la*w+j].score; s > bs {
				bj, bs = j, s
			}
		}
		return la, bj
	case ExtendB:
		bi, bs := 0, math.MinInt
		for i := 0; i <= la; i++ {
			if s := cells[i*w+lb].score; s > bs {
				bi, bs = i, s
			}
		}
		return bi, lb
	default:
		return la, lb
	}
}

func segKind(k cellKind) SegmentKind {
	switch k {
	case kindMatch:
		return SegMatch
	case kindMismatch:
		return SegMismatch
	case kindMassMatch:
		return SegMassMatch
	case kindGapA:
		return SegGapA
	default:
		return SegGapB
	}
}
