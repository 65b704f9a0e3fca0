package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/mass"
	"github.com/masstools/massalign/pkg/render"
	"github.com/masstools/massalign/pkg/seq"
)

var alignCmd = &cobra.Command{
	Use:   "align SEQUENCE_A [SEQUENCE_B]",
	Short: "Align two sequences, or summarise one",
	Long: `Align two peptide sequences and print the alignment. With a single
sequence, print its length and candidate masses instead.

Sequences use bracket notation for modifications: AM[Oxidation]K,
PEPT[+57.021464]IDE, [Acetyl]-PEPTIDE.

Examples:
  # Mass-aware global alignment
  massalign align AKTNLSHLGYGMDV AKEGGLHSIGYGMDV

  # Local identity alignment with a wider tolerance
  massalign align --topology local --mode identity -t 0.5da PEPTIDE PEPTIDE

  # Single-sequence summary
  massalign align PEPTIDE`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVar(&topology, "topology", "global", "Alignment topology: global, local, semi-global, extend-a, extend-b")
	alignCmd.Flags().StringVar(&mode, "mode", "mass", "Scoring mode: mass or identity")
	alignCmd.Flags().IntVar(&width, "width", render.DefaultWidth, "Wrap width for alignment output")
}

func runAlign(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	a, err := seq.Parse(args[0], lib)
	if err != nil {
		return fmt.Errorf("sequence A: %w", err)
	}

	if len(args) == 1 {
		return printStats(a)
	}

	b, err := seq.Parse(args[1], lib)
	if err != nil {
		return fmt.Errorf("sequence B: %w", err)
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}
	result, err := align.Align(a, b, opts)
	if err != nil {
		return err
	}

	fmt.Print(render.Alignment(result, width))
	return nil
}

// printStats handles the single-sequence form.
func printStats(s *seq.Sequence) error {
	masses, err := s.Mass(mass.Standard())
	if err != nil {
		return err
	}
	fmt.Print(render.Stats(s, masses))
	return nil
}
