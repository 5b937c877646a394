package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/zoobzio/lazysearch"
)

// demoValues is the fixed list the demo searches.
var demoValues = []int{2, 4, 6, 8, 10}

var errDemoFailed = errors.New("demo assertions failed")

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the fixed demonstration",
		Long: `Build chains over [2 4 6 8 10] and check two searches:

  map(v -> 3v).search(6)               == 0
  map(v -> 2v).map(v -> v+2).search(22) == 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	}
}

func runDemo(w io.Writer) error {
	chain := lazysearch.New("demo", demoValues)
	defer chain.Close()

	fmt.Fprintf(w, "%s %v\n\n", colorCyan("values:"), demoValues)

	ok := printCheck(w, "map(v -> 3v).search(6)",
		chain.Map(func(v int) int { return 3 * v }).Search(6), 0)

	ok = printCheck(w, "map(v -> 2v).map(v -> v+2).search(22)",
		chain.
			Map(func(v int) int { return 2 * v }).
			Map(func(v int) int { return v + 2 }).
			Search(22), 4) && ok

	if !ok {
		return errDemoFailed
	}
	return nil
}
