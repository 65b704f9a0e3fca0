package align

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/masstools/massalign/pkg/mass"
	"github.com/masstools/massalign/pkg/seq"
)

func mustAlign(t *testing.T, a, b string, topology Topology, mode Mode) *Alignment {
	t.Helper()
	opts := DefaultOptions()
	opts.Topology = topology
	opts.Mode = mode
	result, err := Align(seq.FromString(a), seq.FromString(b), opts)
	if err != nil {
		t.Fatalf("Align(%q, %q) error = %v", a, b, err)
	}
	return result
}

func TestIdentityAlignment(t *testing.T) {
	// Aligning a sequence to itself globally yields one match segment
	// spanning the full length at the maximum possible score.
	for _, s := range []string{"A", "AK", "PEPTIDE", "AKTNLSHLGYGMDV"} {
		result := mustAlign(t, s, s, Global, Identity)

		want := len(s) * DefaultScoring().Match
		if result.Score != want {
			t.Errorf("align(%q, %q) score = %d, want %d", s, s, result.Score, want)
		}
		if len(result.Segments) != 1 || result.Segments[0].Kind != SegMatch {
			t.Fatalf("align(%q, %q) segments = %+v, want single match", s, s, result.Segments)
		}
		if result.Segments[0].LenA != len(s) || result.Segments[0].LenB != len(s) {
			t.Errorf("match segment spans %d/%d, want %d", result.Segments[0].LenA, result.Segments[0].LenB, len(s))
		}
	}
}

func TestScoreSymmetry(t *testing.T) {
	a, b := "AKTNLSHLGYGMDV", "AKEGGLHSIGYGMDV"

	for _, topology := range []Topology{Global, Local, SemiGlobal} {
		for _, mode := range []Mode{Identity, Mass} {
			ab := mustAlign(t, a, b, topology, mode)
			ba := mustAlign(t, b, a, topology, mode)
			if ab.Score != ba.Score {
				t.Errorf("%s/%s: score(a,b) = %d, score(b,a) = %d", topology, mode, ab.Score, ba.Score)
			}
		}
	}

	// Extend variants swap roles.
	ab := mustAlign(t, "AKT", "AKTGGG", ExtendA, Identity)
	ba := mustAlign(t, "AKTGGG", "AKT", ExtendB, Identity)
	if ab.Score != ba.Score {
		t.Errorf("extend: score(a,b) = %d, score(b,a) = %d", ab.Score, ba.Score)
	}
}

func TestGlobalIdentityWithGap(t *testing.T) {
	// The sequences differ in length by one, so any global alignment has at
	// least one gap; the shared prefix and suffix give match segments.
	result := mustAlign(t, "AKTNLSHLGYGMDV", "AKEGGLHSIGYGMDV", Global, Identity)

	if len(result.Segments) == 0 {
		t.Fatal("expected non-empty alignment")
	}
	var lenA, lenB, gaps, matches int
	for _, s := range result.Segments {
		lenA += s.LenA
		lenB += s.LenB
		switch s.Kind {
		case SegGapA, SegGapB:
			gaps++
		case SegMatch:
			matches++
		}
	}
	if lenA != 14 || lenB != 15 {
		t.Errorf("segments consume %d/%d monomers, want 14/15", lenA, lenB)
	}
	if gaps == 0 {
		t.Error("expected at least one gap segment")
	}
	if matches == 0 {
		t.Error("expected at least one match segment")
	}
	if result.Score <= 0 {
		t.Errorf("score = %d, want positive", result.Score)
	}
}

func TestLocalMassIdenticalSequences(t *testing.T) {
	// Identical sequences must align as plain matches, not a mass run.
	result := mustAlign(t, "AK", "AK", Local, Mass)

	want := 2 * DefaultScoring().Match
	if result.Score != want {
		t.Errorf("score = %d, want %d", result.Score, want)
	}
	if len(result.Segments) != 1 || result.Segments[0].Kind != SegMatch {
		t.Fatalf("segments = %+v, want single match run", result.Segments)
	}
}

func TestMassMatchRun(t *testing.T) {
	sc := DefaultScoring()

	tests := []struct {
		name      string
		a, b      string
		wantLenA  int
		wantLenB  int
		wantScore int
	}{
		// N is exactly isobaric with GG.
		{"two against one", "GG", "N", 2, 1, sc.MassBase + sc.MassStep*3/2},
		// Q is exactly isobaric with GA.
		{"one against two", "Q", "GA", 1, 2, sc.MassBase + sc.MassStep*3/2},
		// I and L have identical mass.
		{"isobaric pair", "I", "L", 1, 1, sc.MassBase + sc.MassStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustAlign(t, tt.a, tt.b, Global, Mass)
			if len(result.Segments) != 1 || result.Segments[0].Kind != SegMassMatch {
				t.Fatalf("segments = %+v, want single mass match", result.Segments)
			}
			s := result.Segments[0]
			if s.LenA != tt.wantLenA || s.LenB != tt.wantLenB {
				t.Errorf("run spans %d/%d, want %d/%d", s.LenA, s.LenB, tt.wantLenA, tt.wantLenB)
			}
			if result.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", result.Score, tt.wantScore)
			}
		})
	}
}

func TestMassMatchBeatsDecomposition(t *testing.T) {
	// The same positions decomposed into mismatch+gap moves must not score
	// better than the covering mass-matched run.
	massScore := mustAlign(t, "GG", "N", Global, Mass).Score
	identityScore := mustAlign(t, "GG", "N", Global, Identity).Score
	if massScore < identityScore {
		t.Errorf("mass run scored %d, decomposition %d", massScore, identityScore)
	}
}

func TestShortestRunWinsTies(t *testing.T) {
	// GG vs N embedded in identical context: the mass run must cover
	// exactly the isobaric positions, not swallow the matching neighbours.
	result := mustAlign(t, "AGGK", "ANK", Global, Mass)

	want := []Segment{
		{Kind: SegMatch, LenA: 1, LenB: 1},
		{Kind: SegMassMatch, LenA: 2, LenB: 1},
		{Kind: SegMatch, LenA: 1, LenB: 1},
	}
	if !reflect.DeepEqual(result.Segments, want) {
		t.Errorf("segments = %+v, want %+v", result.Segments, want)
	}
}

func TestModificationMassMismatch(t *testing.T) {
	sc := DefaultScoring()
	modified := &seq.Sequence{Monomers: []seq.Monomer{
		{Symbol: 'M', Mods: []seq.Modification{{Name: "Oxidation", Mass: 15.994915}}},
	}}
	plain := seq.FromString("M")

	result, err := Align(modified, plain, DefaultOptions())
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	want := sc.Match + sc.MassMismatch
	if result.Score != want {
		t.Errorf("score = %d, want %d (match with mass mismatch)", result.Score, want)
	}
	if len(result.Segments) != 1 || result.Segments[0].Kind != SegMatch {
		t.Errorf("segments = %+v, want single match", result.Segments)
	}
}

func TestSemiGlobal(t *testing.T) {
	// B sits inside A; leading and trailing overhang is free.
	result := mustAlign(t, "GGGAKTGGG", "AKT", SemiGlobal, Identity)

	want := 3 * DefaultScoring().Match
	if result.Score != want {
		t.Errorf("score = %d, want %d", result.Score, want)
	}
	if result.StartA != 3 || result.StartB != 0 {
		t.Errorf("start = %d/%d, want 3/0", result.StartA, result.StartB)
	}
	if len(result.Segments) != 1 || result.Segments[0].Kind != SegMatch {
		t.Errorf("segments = %+v, want single match", result.Segments)
	}
}

func TestExtendTopologies(t *testing.T) {
	// ExtendA: A is a truncated fragment of B; B overhangs on the right
	// without penalty.
	result := mustAlign(t, "AKT", "AKTGGG", ExtendA, Identity)
	want := 3 * DefaultScoring().Match
	if result.Score != want {
		t.Errorf("extend-a score = %d, want %d", result.Score, want)
	}
	if result.EndA != 3 || result.EndB != 3 {
		t.Errorf("extend-a end = %d/%d, want 3/3", result.EndA, result.EndB)
	}

	// Mirrored for ExtendB.
	result = mustAlign(t, "AKTGGG", "AKT", ExtendB, Identity)
	if result.Score != want {
		t.Errorf("extend-b score = %d, want %d", result.Score, want)
	}
}

func TestEmptySequences(t *testing.T) {
	sc := DefaultScoring()

	// Both empty: degenerate zero-length alignment, not an error.
	result := mustAlign(t, "", "", Global, Identity)
	if result.Score != 0 || len(result.Segments) != 0 {
		t.Errorf("empty alignment = %+v, want zero score and no segments", result)
	}

	// One empty: all-gap alignment with a length-based penalty.
	result = mustAlign(t, "AAA", "", Global, Identity)
	wantScore := sc.GapOpen + 3*sc.GapExtend
	if result.Score != wantScore {
		t.Errorf("score = %d, want %d", result.Score, wantScore)
	}
	if len(result.Segments) != 1 || result.Segments[0].Kind != SegGapB || result.Segments[0].LenA != 3 {
		t.Errorf("segments = %+v, want single 3-long gap in B", result.Segments)
	}
}

func TestUnknownSymbolFailsFast(t *testing.T) {
	opts := DefaultOptions()
	_, err := Align(seq.FromString("A1K"), seq.FromString("AK"), opts)
	if err == nil {
		t.Fatal("expected error for unknown symbol in mass mode")
	}
	var unknown *mass.UnknownSymbolError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownSymbolError", err)
	}
	if unknown.Position != 1 {
		t.Errorf("position = %d, want 1", unknown.Position)
	}
}

func TestInvalidToleranceRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.Scoring.Tolerance = mass.Da(-1)
	_, err := Align(seq.FromString("AK"), seq.FromString("AK"), opts)
	if err == nil {
		t.Fatal("expected error for negative tolerance")
	}
	var invalid *mass.InvalidToleranceError
	if !errors.As(err, &invalid) {
		t.Errorf("error = %v, want InvalidToleranceError", err)
	}
}

func TestDeterminism(t *testing.T) {
	first := mustAlign(t, "AKEGGLHSIGYGMDV", "AKTNLSHLGYGMDV", Global, Mass)
	second := mustAlign(t, "AKEGGLHSIGYGMDV", "AKTNLSHLGYGMDV", Global, Mass)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated alignment differs:\n%+v\n%+v", first, second)
	}
}

func TestSearch(t *testing.T) {
	query := seq.FromString("AKT")
	db := []Entry{
		{Name: "mismatches", Seq: seq.FromString("GGG")},
		{Name: "exact", Seq: seq.FromString("AKT")},
		{Name: "close", Seq: seq.FromString("AKG")},
	}

	opts := DefaultOptions()
	opts.Mode = Identity
	hits, err := Search(context.Background(), query, db, opts, 2, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Name != "exact" || hits[1].Name != "close" {
		t.Errorf("hits = [%s, %s], want [exact, close]", hits[0].Name, hits[1].Name)
	}
	if hits[0].Alignment.Score <= hits[1].Alignment.Score {
		t.Errorf("hits not ordered by descending score: %d, %d", hits[0].Alignment.Score, hits[1].Alignment.Score)
	}

	// Stable under re-ordering the database.
	reordered := []Entry{db[2], db[0], db[1]}
	hits2, err := Search(context.Background(), query, reordered, opts, 2, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if hits2[0].Name != "exact" || hits2[1].Name != "close" {
		t.Errorf("reordered hits = [%s, %s], want [exact, close]", hits2[0].Name, hits2[1].Name)
	}
}

func TestSearchTieBreakByInputOrder(t *testing.T) {
	query := seq.FromString("AKT")
	db := []Entry{
		{Name: "first", Seq: seq.FromString("AKT")},
		{Name: "second", Seq: seq.FromString("AKT")},
	}

	opts := DefaultOptions()
	hits, err := Search(context.Background(), query, db, opts, 0, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 || hits[0].Name != "first" || hits[1].Name != "second" {
		t.Errorf("hits = %+v, want input order on ties", hits)
	}
}

func TestSearchPropagatesEntryError(t *testing.T) {
	query := seq.FromString("AKT")
	db := []Entry{
		{Name: "good", Seq: seq.FromString("AKT")},
		{Name: "bad", Seq: seq.FromString("A?T")},
	}

	_, err := Search(context.Background(), query, db, DefaultOptions(), 0, 1)
	if err == nil {
		t.Fatal("expected error from unknown symbol in database entry")
	}
	var unknown *mass.UnknownSymbolError
	if !errors.As(err, &unknown) {
		t.Errorf("error = %v, want UnknownSymbolError", err)
	}
}

func TestPathString(t *testing.T) {
	result := mustAlign(t, "AGGK", "ANK", Global, Mass)
	if got := result.Path(); got != "1=2:1m1=" {
		t.Errorf("Path() = %q, want %q", got, "1=2:1m1=")
	}
}
