// massalign - Mass-aware sequence alignment tool
package main

import (
	"fmt"
	"os"

	"github.com/masstools/massalign/cmd/massalign/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
