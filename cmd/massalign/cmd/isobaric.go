package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/masstools/massalign/pkg/config"
	"github.com/masstools/massalign/pkg/isobaric"
	"github.com/masstools/massalign/pkg/mass"
	"github.com/masstools/massalign/pkg/modlib"
	"github.com/masstools/massalign/pkg/seq"
)

var (
	maxResults   int
	maxDepth     int
	aminoAcids   string
	fixedMods    []string
	variableMods []string
)

var isobaricCmd = &cobra.Command{
	Use:   "isobaric SEQUENCE",
	Short: "Enumerate sequences with the same mass",
	Long: `Enumerate peptide sequences whose total mass matches the given
sequence within tolerance. Results come out in deterministic
lexicographic order; a trailing note marks truncated output.

Fixed modifications are attached to every matching residue; variable
modifications are tried combinatorially. Mods are named with their
targets after a colon, e.g. 'Oxidation:M'.

Examples:
  massalign isobaric GAI
  massalign isobaric --max-results 100 -t 0.01da EGG
  massalign isobaric --amino-acids GAVQ NQ
  massalign isobaric --variable-mod Oxidation:M PEPTIDE`,
	Args: cobra.ExactArgs(1),
	RunE: runIsobaric,
}

func init() {
	rootCmd.AddCommand(isobaricCmd)

	isobaricCmd.Flags().IntVar(&maxResults, "max-results", 0, "Maximum number of results (0 = config default)")
	isobaricCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum candidate length (0 = derived from target mass)")
	isobaricCmd.Flags().StringVar(&aminoAcids, "amino-acids", "", "Restrict the generation pool to these residues, e.g. 'GAVQ'")
	isobaricCmd.Flags().StringSliceVar(&fixedMods, "fixed-mod", nil, "Fixed modification, as NAME or NAME:TARGETS")
	isobaricCmd.Flags().StringSliceVar(&variableMods, "variable-mod", nil, "Variable modification, as NAME or NAME:TARGETS")

	viper.BindPFlag("isobaric.max-results", isobaricCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("isobaric.max-depth", isobaricCmd.Flags().Lookup("max-depth"))
}

func runIsobaric(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	target, err := seq.Parse(args[0], lib)
	if err != nil {
		return err
	}

	tol, err := currentTolerance()
	if err != nil {
		return err
	}
	c, err := config.New()
	if err != nil {
		return err
	}

	opts := c.IsobaricOptions(tol)
	if aminoAcids != "" {
		pool, err := mass.Standard().Subset([]byte(strings.ToUpper(aminoAcids)))
		if err != nil {
			return err
		}
		opts.Symbols = pool.GenerationSymbols()
	}
	if opts.FixedMods, err = resolveMods(lib, fixedMods); err != nil {
		return err
	}
	if opts.VariableMods, err = resolveMods(lib, variableMods); err != nil {
		return err
	}

	result, err := isobaric.Generate(target, opts)
	if err != nil {
		return err
	}

	targetMass, err := target.MinMass(mass.Standard())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "target: %s  mass: %.5f Da  tolerance: %s\n\n", target, targetMass, tol)
	for _, s := range result.Sequences {
		fmt.Fprintln(out, s)
	}
	if result.Truncated {
		fmt.Fprintf(out, "\n(truncated at %d results)\n", len(result.Sequences))
	}
	return nil
}

// resolveMods parses NAME or NAME:TARGETS flags against the library. An
// explicit target list overrides the library's own.
func resolveMods(lib *modlib.Library, specs []string) ([]modlib.Modification, error) {
	var out []modlib.Modification
	for _, spec := range specs {
		name, targets, hasTargets := strings.Cut(spec, ":")
		m, ok := lib.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown modification %q", name)
		}
		if hasTargets {
			m.Targets = strings.ToUpper(targets)
		}
		out = append(out, m)
	}
	return out, nil
}
