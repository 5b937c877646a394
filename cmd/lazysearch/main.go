package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "lazysearch",
		Short: "Lazy transform chain demos",
		Long: `lazysearch builds lazy transform chains over a list of integers and
searches them for a target value.

Transformations are only applied when a search runs. The index of the
first element whose transformed value equals the target is printed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			color.Enable = !noColor
		},
	}

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newSearchCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("error: %v", err))
		os.Exit(1)
	}
}
