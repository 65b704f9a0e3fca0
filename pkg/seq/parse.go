package seq

import (
	"fmt"
	"strconv"
	"strings"
)

// ModResolver resolves a modification name to its definition. Satisfied by
// modlib.Library; kept as an interface so this package stays free of the
// library's dependencies.
type ModResolver interface {
	Resolve(name string) (Modification, bool)
}

// Parse reads a sequence in bracket notation: one-letter residue symbols
// with optional bracketed modifications after a residue ("AM[Oxidation]K",
// "PEPT[+57.021464]IDE") and optional terminal modifications
// ("[Acetyl]-PEPTIDE", "PEPTIDE-[Amidated]"). Bracket contents are either a
// signed mass or a name resolved through the resolver. Symbols are
// upper-cased; whitespace is ignored.
func Parse(input string, mods ModResolver) (*Sequence, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return &Sequence{}, nil
	}

	s := &Sequence{}

	// N-terminal modification: leading "[...]-"
	if strings.HasPrefix(in, "[") {
		end := strings.Index(in, "]")
		if end < 0 {
			return nil, fmt.Errorf("unclosed modification bracket in %q", input)
		}
		if !strings.HasPrefix(in[end+1:], "-") {
			return nil, fmt.Errorf("n-terminal modification must be followed by '-' in %q", input)
		}
		mod, err := parseMod(in[1:end], mods)
		if err != nil {
			return nil, err
		}
		s.NTerm = append(s.NTerm, mod)
		in = in[end+2:]
	}

	// C-terminal modification: trailing "-[...]"
	if i := strings.LastIndex(in, "-["); i >= 0 {
		if !strings.HasSuffix(in, "]") {
			return nil, fmt.Errorf("unclosed modification bracket in %q", input)
		}
		mod, err := parseMod(in[i+2:len(in)-1], mods)
		if err != nil {
			return nil, err
		}
		s.CTerm = append(s.CTerm, mod)
		in = in[:i]
	}

	for i := 0; i < len(in); {
		c := in[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
			fallthrough
		case c >= 'A' && c <= 'Z':
			s.Monomers = append(s.Monomers, Monomer{Symbol: c})
			i++
		case c == '[':
			if len(s.Monomers) == 0 {
				return nil, fmt.Errorf("modification before any residue in %q", input)
			}
			end := strings.Index(in[i:], "]")
			if end < 0 {
				return nil, fmt.Errorf("unclosed modification bracket in %q", input)
			}
			mod, err := parseMod(in[i+1:i+end], mods)
			if err != nil {
				return nil, err
			}
			last := &s.Monomers[len(s.Monomers)-1]
			last.Mods = append(last.Mods, mod)
			i += end + 1
		default:
			return nil, fmt.Errorf("invalid character %q at position %d in %q", string(c), i, input)
		}
	}

	return s, nil
}

// parseMod interprets bracket contents: a signed mass literal or a name
// looked up in the resolver.
func parseMod(body string, mods ModResolver) (Modification, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Modification{}, fmt.Errorf("empty modification")
	}
	if v, err := strconv.ParseFloat(body, 64); err == nil {
		return Modification{Mass: v}, nil
	}
	if mods != nil {
		if mod, ok := mods.Resolve(body); ok {
			return mod, nil
		}
	}
	return Modification{}, fmt.Errorf("unknown modification %q", body)
}
