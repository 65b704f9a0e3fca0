package mass

import (
	"math"
	"testing"
)

func TestResidueMass(t *testing.T) {
	tests := []struct {
		name      string
		sym       byte
		want      float64
		tolerance float64
	}{
		{"glycine", 'G', 57.02146, 0.0001},
		{"alanine", 'A', 71.03711, 0.0001},
		{"asparagine", 'N', 114.04293, 0.0001},
		{"tryptophan", 'W', 186.07931, 0.0001},
		{"selenocysteine", 'U', 150.95364, 0.0001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResidueMass(tt.sym)
			if !ok {
				t.Fatalf("ResidueMass(%q) not found", string(tt.sym))
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("ResidueMass(%q) = %.5f, want %.5f (within %.5f)", string(tt.sym), got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestLeucineIsoleucineIsobaric(t *testing.T) {
	i, _ := ResidueMass('I')
	l, _ := ResidueMass('L')
	if i != l {
		t.Errorf("I and L should have identical mass, got %.6f and %.6f", i, l)
	}
}

func TestStandardAlphabetAmbiguity(t *testing.T) {
	ab := Standard()

	tests := []struct {
		sym  byte
		want int
	}{
		{'A', 1},
		{'B', 2},
		{'Z', 2},
		{'J', 1},
		{'X', 0}, // plural, exact count checked separately below
	}

	for _, tt := range tests {
		s, ok := ab.Masses(tt.sym)
		if !ok {
			t.Fatalf("symbol %q missing from standard alphabet", string(tt.sym))
		}
		if tt.sym == 'X' {
			// X covers every residue in the alphabet; exact count depends on
			// dedup of isobaric residues, so only check it is plural.
			if len(s) < 2 {
				t.Errorf("X should have multiple candidate masses, got %d", len(s))
			}
			continue
		}
		if len(s) != tt.want {
			t.Errorf("symbol %q: got %d candidates, want %d", string(tt.sym), len(s), tt.want)
		}
	}

	if ab.Contains('1') {
		t.Error("standard alphabet should not contain digits")
	}
}

func TestSetCombine(t *testing.T) {
	a := NewSet(1.0, 2.0)
	b := NewSet(10.0, 20.0)

	got := Combine(a, b, DedupEpsilon)
	want := Set{11.0, 12.0, 21.0, 22.0}
	if len(got) != len(want) {
		t.Fatalf("Combine() = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Combine()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetCombineDedup(t *testing.T) {
	// N and G+G are exactly isobaric; combining {G} with {G} then with a
	// one-element set containing N's mass must dedup to a single candidate.
	g := NewSet(residueMasses['G'])
	gg := Combine(g, g, DedupEpsilon)
	n := NewSet(residueMasses['N'])

	merged := NewSet(append(gg, n...)...)
	if len(merged) != 1 {
		t.Errorf("GG and N should dedup to one candidate, got %v", merged)
	}
}

func TestToleranceBoundary(t *testing.T) {
	tol := Da(0.01)

	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"identical", 100.0, 100.0, true},
		{"inside window", 100.0, 100.005, true},
		{"exactly at boundary", 100.0, 100.01, true},
		{"just outside", 100.0, 100.0100001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tol.Matches(tt.a, tt.b); got != tt.want {
				t.Errorf("Matches(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTolerancePpm(t *testing.T) {
	tol := Ppm(10)
	// 10 ppm at 1000 Da is 0.01 Da.
	if !tol.Matches(1000.0, 1000.009) {
		t.Error("10ppm should match a 9 mDa difference at 1000 Da")
	}
	if tol.Matches(1000.0, 1000.02) {
		t.Error("10ppm should not match a 20 mDa difference at 1000 Da")
	}
}

func TestToleranceValidation(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 0.5, false},
		{"zero", 0, false},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTolerance(tt.value, Dalton)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTolerance(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestParseTolerance(t *testing.T) {
	tests := []struct {
		in       string
		wantVal  float64
		wantUnit Unit
		wantErr  bool
	}{
		{"10ppm", 10, PPM, false},
		{"0.5da", 0.5, Dalton, false},
		{"0.01", 0.01, Dalton, false},
		{" 2.3 da ", 2.3, Dalton, false},
		{"abc", 0, Dalton, true},
		{"-5ppm", 0, Dalton, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTolerance(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTolerance(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Value != tt.wantVal || got.Unit != tt.wantUnit {
				t.Errorf("ParseTolerance(%q) = %v, want {%v %v}", tt.in, got, tt.wantVal, tt.wantUnit)
			}
		})
	}
}
