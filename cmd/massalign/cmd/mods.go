package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modsCmd = &cobra.Command{
	Use:   "mods QUERY",
	Short: "Look up modifications by name, formula or mass",
	Long: `Search the modification library. The query is tried as a name
(case-insensitive exact, then prefix), as an elemental formula with a
'Formula:' prefix, or as a signed mass matched within tolerance.

Examples:
  massalign mods Oxidation
  massalign mods +57.02 -t 0.01da
  massalign mods Formula:H-2O-1`,
	Args: cobra.ExactArgs(1),
	RunE: runMods,
}

func init() {
	rootCmd.AddCommand(modsCmd)
}

func runMods(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	tol, err := currentTolerance()
	if err != nil {
		return err
	}

	hits, err := lib.Find(args[0], tol)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}

	fmt.Printf("%-28s %12s %10s  %s\n", "name", "mass", "delta", "targets")
	for _, h := range hits {
		fmt.Printf("%-28s %12.6f %+10.6f  %s\n", h.Mod.Name, h.Mod.Mass, h.Delta, h.Mod.Targets)
	}
	return nil
}
