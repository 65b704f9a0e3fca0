package render

import (
	"strings"
	"testing"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/seq"
)

func mustAlign(t *testing.T, a, b string, topology align.Topology, mode align.Mode) *align.Alignment {
	t.Helper()
	opts := align.DefaultOptions()
	opts.Topology = topology
	opts.Mode = mode
	result, err := align.Align(seq.FromString(a), seq.FromString(b), opts)
	if err != nil {
		t.Fatalf("Align(%q, %q) error = %v", a, b, err)
	}
	return result
}

func TestAlignmentMarkers(t *testing.T) {
	out := Alignment(mustAlign(t, "AGGK", "ANK", align.Global, align.Mass), 0)

	// One match, a 2:1 mass run (B side padded), one match.
	if !strings.Contains(out, "A    1 AGGK") {
		t.Errorf("missing A row in:\n%s", out)
	}
	if !strings.Contains(out, "|**|") {
		t.Errorf("missing marker line in:\n%s", out)
	}
	if !strings.Contains(out, "B    1 AN K") {
		t.Errorf("missing padded B row in:\n%s", out)
	}
	if !strings.Contains(out, "path: 1=2:1m1=") {
		t.Errorf("missing path in:\n%s", out)
	}
}

func TestAlignmentGapsAndMismatches(t *testing.T) {
	out := Alignment(mustAlign(t, "AKT", "AT", align.Global, align.Identity), 0)
	if !strings.Contains(out, "-") {
		t.Errorf("expected a gap dash in:\n%s", out)
	}

	out = Alignment(mustAlign(t, "AKT", "AGT", align.Global, align.Identity), 0)
	if !strings.Contains(out, "|.|") {
		t.Errorf("expected mismatch marker in:\n%s", out)
	}
}

func TestAlignmentWrapping(t *testing.T) {
	s := strings.Repeat("AKTGHS", 20) // 120 residues
	out := Alignment(mustAlign(t, s, s, align.Global, align.Identity), 50)

	// 120 columns at width 50 wrap into three blocks; the later blocks
	// restart position numbering.
	if got := strings.Count(out, "\nA "); got != 3 {
		t.Errorf("got %d wrapped blocks, want 3:\n%s", got, out)
	}
	if !strings.Contains(out, "A   51 ") || !strings.Contains(out, "A  101 ") {
		t.Errorf("missing continued positions in:\n%s", out)
	}
}

func TestAlignmentModifiedResidueLowercase(t *testing.T) {
	modified := &seq.Sequence{Monomers: []seq.Monomer{
		{Symbol: 'A'},
		{Symbol: 'M', Mods: []seq.Modification{{Name: "Oxidation", Mass: 15.994915}}},
	}}
	result, err := align.Align(modified, seq.FromString("AM"), align.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	out := Alignment(result, 0)
	if !strings.Contains(out, "Am") {
		t.Errorf("modified residue not lowercased in:\n%s", out)
	}
}

func TestEmptyAlignment(t *testing.T) {
	out := Alignment(mustAlign(t, "", "", align.Global, align.Identity), 0)
	if !strings.Contains(out, "(empty alignment)") {
		t.Errorf("unexpected output for empty alignment:\n%s", out)
	}
}

func TestHitsTable(t *testing.T) {
	a := mustAlign(t, "AKT", "AKT", align.Global, align.Identity)
	b := mustAlign(t, "AKT", "AKG", align.Global, align.Identity)
	out := Hits([]align.Hit{
		{Index: 0, Name: "exact", Alignment: a},
		{Index: 1, Name: "close", Alignment: b},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "exact") || !strings.Contains(lines[1], "100.0%") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2 ") {
		t.Errorf("second row not ranked 2: %q", lines[2])
	}
}

func TestStats(t *testing.T) {
	out := Stats(seq.FromString("PEPTIDE"), []float64{799.35996})
	if !strings.Contains(out, "length:   7") || !strings.Contains(out, "799.35996") {
		t.Errorf("stats output = %q", out)
	}
}
